package ui

import (
	"fmt"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
)

// route maps a path pattern to the screen it opens. Segments starting
// with ':' capture a parameter.
type route struct {
	pattern string
	// list routes keep page and search in their location
	list  bool
	build func(ui *UI, params map[string]string, location string) (screen, error)
}

// routes is filled in init because the screen builders reach back into
// matchRoute through navigation, which a package-level initializer cannot do.
var routes []route

func init() {
	routes = []route{
		{pattern: "/", build: func(ui *UI, _ map[string]string, _ string) (screen, error) {
			return newDashboardScreen(ui), nil
		}},
		{pattern: "/notes", build: func(ui *UI, _ map[string]string, _ string) (screen, error) {
			return newNotesScreen(ui), nil
		}},
		{pattern: "/cases/add", build: func(ui *UI, _ map[string]string, _ string) (screen, error) {
			return newCaseFormScreen(ui), nil
		}},
		{pattern: "/cases/detail/:id", build: func(ui *UI, p map[string]string, _ string) (screen, error) {
			return newCaseDetailScreen(ui, p["id"]), nil
		}},
		{pattern: "/cases/:variant", list: true, build: func(ui *UI, p map[string]string, location string) (screen, error) {
			v, ok := listview.VariantByName(p["variant"])
			if !ok {
				return nil, fmt.Errorf("unknown case list %q", p["variant"])
			}
			return newCaseListScreen(ui, v, location)
		}},
		{pattern: "/setup/:kind", build: func(ui *UI, p map[string]string, _ string) (screen, error) {
			k, err := lookup.ParseKind("/setup/" + p["kind"])
			if err != nil {
				return nil, err
			}
			return newLookupScreen(ui, k), nil
		}},
	}
}

// matchRoute returns the first route matching path and its parameters.
func matchRoute(path string) (route, map[string]string, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for _, r := range routes {
		if r.pattern == "/" {
			if path == "/" {
				return r, map[string]string{}, true
			}
			continue
		}
		pat := strings.Split(strings.TrimPrefix(r.pattern, "/"), "/")
		if len(pat) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, p := range pat {
			switch {
			case strings.HasPrefix(p, ":"):
				if segs[i] == "" {
					ok = false
				}
				params[p[1:]] = segs[i]
			case p != segs[i]:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			return r, params, true
		}
	}
	return route{}, nil, false
}
