package listview

import (
	"context"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/model"
)

// Variant is one configured case list. Params returns the fixed query
// parameters the variant adds to every request.
type Variant struct {
	Name   string
	Path   string
	Title  string
	Params func(now time.Time) map[string]string
}

func status(s model.Status) func(time.Time) map[string]string {
	return func(time.Time) map[string]string { return map[string]string{"status": string(s)} }
}

func fixedFor(days int) func(time.Time) map[string]string {
	return func(now time.Time) map[string]string {
		return map[string]string{"fixedFor": now.AddDate(0, 0, days).Format("2006-01-02")}
	}
}

// Variants are the case lists reachable from the navigation.
var Variants = []Variant{
	{Name: "all", Path: "/cases/all", Title: "All Cases"},
	{Name: "running", Path: "/cases/running", Title: "Running Cases", Params: status(model.StatusRunning)},
	{Name: "today", Path: "/cases/today", Title: "Today's Cases", Params: fixedFor(0)},
	{Name: "tomorrow", Path: "/cases/tomorrow", Title: "Tomorrow's Cases", Params: fixedFor(1)},
	{Name: "completed", Path: "/cases/completed", Title: "Completed Cases", Params: status(model.StatusCompleted)},
	{Name: "pending", Path: "/cases/pending", Title: "Not Updated Cases", Params: status(model.StatusPending)},
}

// VariantByName finds a variant by name or path.
func VariantByName(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.Name == name || v.Path == name {
			return v, true
		}
	}
	return Variant{}, false
}

// CaseLister is the part of the API client a case list needs.
type CaseLister interface {
	ListCases(ctx context.Context, q api.CaseQuery) (model.CasePage, error)
}

// CaseQuery translates a list query for variant v.
func CaseQuery(v Variant, q Query, now time.Time) api.CaseQuery {
	cq := api.CaseQuery{
		Page:      q.Page,
		Limit:     q.PageSize,
		Search:    q.Search,
		StartDate: q.Filters.StartDate,
		EndDate:   q.Filters.EndDate,
		Company:   q.Filters.Company,
	}
	if v.Params != nil {
		cq.Fixed = v.Params(now)
	}
	return cq
}

// CaseFetcher adapts the API to a Fetcher for variant v. now may be nil.
func CaseFetcher(client CaseLister, v Variant, now func() time.Time) Fetcher[model.Case] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, q Query) (Result[model.Case], error) {
		page, err := client.ListCases(ctx, CaseQuery(v, q, now()))
		if err != nil {
			return Result[model.Case]{}, err
		}
		return Result[model.Case]{Items: page.Cases, TotalPages: page.TotalPages, Total: page.Total}, nil
	}
}

// SameCase matches items by id.
func SameCase(id string) func(model.Case) bool {
	return func(c model.Case) bool { return c.ID == id }
}
