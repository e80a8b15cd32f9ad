package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inline(f func()) { f() }

type recorder struct {
	mu      sync.Mutex
	queries []Query
	calls   int32
	result  func(Query) (Result[string], error)
}

func (r *recorder) fetch(ctx context.Context, q Query) (Result[string], error) {
	atomic.AddInt32(&r.calls, 1)
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
	if r.result != nil {
		return r.result(q)
	}
	return Result[string]{Items: []string{q.Search}, TotalPages: 10}, nil
}

func (r *recorder) count() int { return int(atomic.LoadInt32(&r.calls)) }

func newInline(r *recorder) *Controller[string] {
	return New[string](context.Background(), "/cases/all", r.fetch, Options{Dispatch: inline})
}

func TestSeedOnlyOnce(t *testing.T) {
	r := &recorder{}
	c := newInline(r)

	require.NoError(t, c.Seed("/cases/all?page=3&search=khan"))
	require.NoError(t, c.Seed("/cases/all?page=9"))

	q := c.Snapshot().Query
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, "khan", q.Search)
	assert.Equal(t, 0, r.count(), "seeding must not fetch")

	c.Start()
	assert.Equal(t, 1, r.count())
	assert.Equal(t, "/cases/all?page=3&search=khan", c.Location())
}

func TestSearchResetsPage(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()

	require.True(t, c.SetPage(4))
	assert.Equal(t, 4, c.Snapshot().Query.Page)

	require.True(t, c.SetSearch("rahman"))
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, "/cases/all?search=rahman", snap.Location)

	assert.False(t, c.SetSearch("rahman"), "unchanged search is a no-op")
}

func TestFilterChangeResetsPage(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()
	c.SetPage(5)

	require.True(t, c.SetFilters(Filters{Company: "Acme"}))
	assert.Equal(t, 1, c.Snapshot().Query.Page)

	c.SetPage(2)
	require.True(t, c.ClearFilters())
	assert.Equal(t, 1, c.Snapshot().Query.Page)
	assert.True(t, c.Snapshot().Query.Filters.IsZero())
}

func TestSetPageClampsToTotal(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()

	c.SetPage(99)
	assert.Equal(t, 10, c.Snapshot().Query.Page)
	c.SetPage(-3)
	assert.Equal(t, 1, c.Snapshot().Query.Page)
	assert.False(t, c.PrevPage())
	assert.True(t, c.NextPage())
	assert.Equal(t, 2, c.Snapshot().Query.Page)
}

func TestFailedFetchKeepsStaleItems(t *testing.T) {
	fail := false
	r := &recorder{}
	r.result = func(q Query) (Result[string], error) {
		if fail {
			return Result[string]{}, errors.New("backend down")
		}
		return Result[string]{Items: []string{"a", "b"}, TotalPages: 2}, nil
	}
	c := newInline(r)
	c.Start()
	require.Equal(t, StateLoaded, c.Snapshot().State)

	fail = true
	c.NextPage()
	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.EqualError(t, snap.Err, "backend down")
	assert.Equal(t, []string{"a", "b"}, snap.Items)
}

func TestPreviousItemsVisibleWhileLoading(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()

	var states []Snapshot[string]
	c.OnChange(func(s Snapshot[string]) { states = append(states, s) })
	c.SetSearch("next")

	require.Len(t, states, 2)
	assert.Equal(t, StateLoading, states[0].State)
	assert.Equal(t, []string{""}, states[0].Items)
	assert.Equal(t, StateLoaded, states[1].State)
	assert.Equal(t, []string{"next"}, states[1].Items)
}

func TestStaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	fetch := func(ctx context.Context, q Query) (Result[string], error) {
		defer wg.Done()
		if q.Search == "slow" {
			<-release
		}
		return Result[string]{Items: []string{q.Search}, TotalPages: 1}, nil
	}
	c := New[string](context.Background(), "/cases/all", fetch, Options{})

	c.SetSearch("slow")
	c.SetSearch("fast")

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.State == StateLoaded && len(s.Items) == 1 && s.Items[0] == "fast"
	}, time.Second, 5*time.Millisecond)

	close(release)
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, []string{"fast"}, snap.Items)
	assert.Equal(t, uint64(2), snap.Seq)
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	fetch := func(ctx context.Context, q Query) (Result[string], error) {
		if q.Search == "first" {
			<-ctx.Done()
			close(cancelled)
			return Result[string]{}, ctx.Err()
		}
		return Result[string]{Items: []string{q.Search}}, nil
	}
	c := New[string](context.Background(), "/cases/all", fetch, Options{})
	c.SetSearch("first")
	c.SetSearch("second")

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("first request was not cancelled")
	}
	require.Eventually(t, func() bool { return c.Snapshot().State == StateLoaded }, time.Second, 5*time.Millisecond)
	assert.NoError(t, c.Snapshot().Err)
}

func TestMutateRefetchesExactlyOnce(t *testing.T) {
	fail := true
	r := &recorder{}
	r.result = func(q Query) (Result[string], error) {
		if fail {
			return Result[string]{}, errors.New("offline")
		}
		return Result[string]{Items: []string{"x"}, TotalPages: 1}, nil
	}
	c := newInline(r)
	c.Start()
	require.Equal(t, StateError, c.Snapshot().State)
	before := r.count()

	fail = false
	err := c.Mutate(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, before+1, r.count())
	assert.NoError(t, c.Snapshot().Err)
	assert.Equal(t, StateLoaded, c.Snapshot().State)
}

func TestFailedMutateLeavesStateAlone(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()
	before := r.count()

	err := c.Mutate(context.Background(), func(context.Context) error { return errors.New("409") })
	require.Error(t, err)
	assert.Equal(t, before, r.count())
}

func TestMutateAndPatchDoesNotRefetch(t *testing.T) {
	fetch := func(ctx context.Context, q Query) (Result[model.Case], error) {
		return Result[model.Case]{Items: []model.Case{{ID: "a", FixedFor: "2024-01-01"}, {ID: "b"}}, TotalPages: 1}, nil
	}
	calls := 0
	counting := func(ctx context.Context, q Query) (Result[model.Case], error) {
		calls++
		return fetch(ctx, q)
	}
	c := New[model.Case](context.Background(), "/cases/all", counting, Options{Dispatch: inline})
	c.Start()
	require.Equal(t, 1, calls)

	err := c.MutateAndPatch(context.Background(), func(context.Context) (model.Case, error) {
		return model.Case{ID: "a", FixedFor: "2024-02-02"}, nil
	}, SameCase("a"))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	items := c.Snapshot().Items
	assert.Equal(t, "2024-02-02", items[0].FixedFor)
	assert.Equal(t, "b", items[1].ID)
}

func TestApplyLocationRedrivesState(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Start()

	changed, err := c.ApplyLocation("/cases/all?page=3&search=dhaka")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, r.count())
	assert.Equal(t, "/cases/all?page=3&search=dhaka", c.Location())

	changed, err = c.ApplyLocation("/cases/all?page=3&search=dhaka")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestClosedControllerIgnoresInput(t *testing.T) {
	r := &recorder{}
	c := newInline(r)
	c.Close()
	c.SetSearch("x")
	assert.Equal(t, 0, r.count())
	assert.ErrorIs(t, c.Load(context.Background()), context.Canceled)
}

type fakeLister struct{ got api.CaseQuery }

func (f *fakeLister) ListCases(ctx context.Context, q api.CaseQuery) (model.CasePage, error) {
	f.got = q
	return model.CasePage{Cases: []model.Case{{ID: "1"}}, TotalPages: 3}, nil
}

func TestCaseFetcherAddsVariantParams(t *testing.T) {
	v, ok := VariantByName("tomorrow")
	require.True(t, ok)

	lister := &fakeLister{}
	now := func() time.Time { return time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC) }
	fetch := CaseFetcher(lister, v, now)

	res, err := fetch(context.Background(), Query{Page: 2, PageSize: 8, Search: "x", Filters: Filters{Company: "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, "2025-01-01", lister.got.Fixed["fixedFor"])
	assert.Equal(t, "Acme", lister.got.Company)
	assert.Equal(t, 8, lister.got.Limit)

	running, _ := VariantByName("/cases/running")
	assert.Equal(t, "Running", CaseQuery(running, Query{}, now()).Fixed["status"])
}
