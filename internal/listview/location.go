package listview

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Location is the shareable address of a list view, e.g.
// "/cases/all?page=2&search=khan".
type Location struct {
	Path   string
	Page   int
	Search string
}

// ParseLocation reads path, page and search. A missing or malformed page is
// treated as page 1.
func ParseLocation(s string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", s, err)
	}
	loc := Location{Path: u.Path, Page: 1}
	q := u.Query()
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 1 {
		loc.Page = p
	}
	loc.Search = q.Get("search")
	return loc, nil
}

// String omits page when it is 1 and search when it is empty.
func (l Location) String() string {
	q := url.Values{}
	if l.Page > 1 {
		q.Set("page", strconv.Itoa(l.Page))
	}
	if l.Search != "" {
		q.Set("search", l.Search)
	}
	if len(q) == 0 {
		return l.Path
	}
	return l.Path + "?" + q.Encode()
}
