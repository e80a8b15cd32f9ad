// Package lookup manages the small reference lists used by case forms.
package lookup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/cache"
	"github.com/Ashfaaq98/docket-console/internal/forms"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"go.uber.org/zap"
)

// Kind identifies one reference list.
type Kind struct {
	Name     string
	Title    string
	Endpoint string
	Route    string
}

var (
	Court         = Kind{Name: "court", Title: "Courts", Endpoint: "/courts", Route: "/setup/court"}
	Company       = Kind{Name: "company", Title: "Companies", Endpoint: "/companies", Route: "/setup/company"}
	CaseType      = Kind{Name: "case-type", Title: "Case Types", Endpoint: "/cases-type", Route: "/setup/case-type"}
	PoliceStation = Kind{Name: "police-station", Title: "Police Stations", Endpoint: "/police-station", Route: "/setup/police-station"}
)

// Kinds lists every reference list in navigation order.
var Kinds = []Kind{Court, CaseType, PoliceStation, Company}

// ParseKind accepts a kind name, its route or a common alias.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == k.Name || s == k.Route || s == strings.TrimPrefix(k.Endpoint, "/") {
			return k, nil
		}
	}
	switch s {
	case "courts":
		return Court, nil
	case "companies":
		return Company, nil
	case "casetype", "case-types", "types":
		return CaseType, nil
	case "police", "police-stations", "thana":
		return PoliceStation, nil
	}
	return Kind{}, fmt.Errorf("unknown lookup kind %q", s)
}

// API is the part of the client the service uses.
type API interface {
	ListLookups(ctx context.Context, endpoint string) ([]model.LookupItem, error)
	CreateLookup(ctx context.Context, endpoint, name string) (model.MutationResult, error)
	RenameLookup(ctx context.Context, endpoint, id, name string) (model.MutationResult, error)
	DeleteLookup(ctx context.Context, endpoint, id string) (model.MutationResult, error)
}

// Service lists and edits reference data, caching reads.
type Service struct {
	api    API
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewService(api API, c cache.Cache, ttl time.Duration, logger *zap.SugaredLogger) *Service {
	if c == nil {
		c = cache.NewMemoryCache(0)
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{api: api, cache: c, ttl: ttl, logger: logger}
}

func cacheKey(k Kind) string { return "lookup:" + k.Name }

// List returns the items of kind k, from cache when fresh.
func (s *Service) List(ctx context.Context, k Kind) ([]model.LookupItem, error) {
	var items []model.LookupItem
	if cache.GetJSON(ctx, s.cache, cacheKey(k), &items) {
		return items, nil
	}
	items, err := s.api.ListLookups(ctx, k.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.Name, err)
	}
	cache.SetJSON(ctx, s.cache, cacheKey(k), items, s.ttl)
	return items, nil
}

// Names returns the sorted, de-duplicated names of kind k for dropdowns.
func (s *Service) Names(ctx context.Context, k Kind) ([]string, error) {
	items, err := s.List(ctx, k)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		n := strings.TrimSpace(it.Name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Add creates an entry. Empty names are rejected without contacting the server.
func (s *Service) Add(ctx context.Context, k Kind, name string) (model.MutationResult, error) {
	name, err := forms.ValidateName(name)
	if err != nil {
		return model.MutationResult{}, err
	}
	res, err := s.api.CreateLookup(ctx, k.Endpoint, name)
	if err != nil {
		return res, fmt.Errorf("add %s: %w", k.Name, err)
	}
	s.Invalidate(ctx, k)
	s.logger.Infow("lookup added", "kind", k.Name, "name", name)
	return res, nil
}

// Rename changes an entry's name. Empty names are rejected locally.
func (s *Service) Rename(ctx context.Context, k Kind, id, name string) (model.MutationResult, error) {
	name, err := forms.ValidateName(name)
	if err != nil {
		return model.MutationResult{}, err
	}
	res, err := s.api.RenameLookup(ctx, k.Endpoint, id, name)
	if err != nil {
		return res, fmt.Errorf("rename %s %s: %w", k.Name, id, err)
	}
	s.Invalidate(ctx, k)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, k Kind, id string) (model.MutationResult, error) {
	res, err := s.api.DeleteLookup(ctx, k.Endpoint, id)
	if err != nil {
		return res, fmt.Errorf("delete %s %s: %w", k.Name, id, err)
	}
	s.Invalidate(ctx, k)
	return res, nil
}

// Invalidate drops the cached list of kind k.
func (s *Service) Invalidate(ctx context.Context, k Kind) {
	s.cache.Delete(ctx, cacheKey(k))
}

// InvalidateAll drops every cached list.
func (s *Service) InvalidateAll(ctx context.Context) {
	for _, k := range Kinds {
		s.Invalidate(ctx, k)
	}
}
