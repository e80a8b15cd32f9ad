package listview

import (
	"strconv"
	"strings"
)

// PageLink is one entry of a pagination bar. Gap entries render as "...".
type PageLink struct {
	Number int
	Gap    bool
}

func (l PageLink) String() string {
	if l.Gap {
		return "..."
	}
	return strconv.Itoa(l.Number)
}

// maxFlatPages is the largest total rendered without gaps.
const maxFlatPages = 5

var gap = PageLink{Gap: true}

// PageWindow returns the page numbers to show for the current page.
//
//	total <= 5              1 2 3 4 5
//	near the start          1 2 3 ... total
//	near the end            1 ... total-2 total-1 total
//	otherwise               1 ... c-1 c c+1 ... total
func PageWindow(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= maxFlatPages {
		links := make([]PageLink, 0, total)
		for i := 1; i <= total; i++ {
			links = append(links, PageLink{Number: i})
		}
		return links
	}

	switch {
	case current <= 3:
		return []PageLink{{Number: 1}, {Number: 2}, {Number: 3}, gap, {Number: total}}
	case current >= total-2:
		return []PageLink{{Number: 1}, gap, {Number: total - 2}, {Number: total - 1}, {Number: total}}
	default:
		return []PageLink{{Number: 1}, gap, {Number: current - 1}, {Number: current}, {Number: current + 1}, gap, {Number: total}}
	}
}

// Labels flattens links to their display strings.
func Labels(links []PageLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.String()
	}
	return out
}

// Render draws a one-line pagination bar, bracketing the current page.
func Render(current, total int) string {
	links := PageWindow(current, total)
	if len(links) == 0 {
		return ""
	}
	parts := make([]string, len(links))
	for i, l := range links {
		if !l.Gap && l.Number == current {
			parts[i] = "[" + l.String() + "]"
			continue
		}
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}
