package listview

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// State is the lifecycle of the most recent fetch.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Filters narrow a list beyond free-text search.
type Filters struct {
	StartDate string
	EndDate   string
	Company   string
}

func (f Filters) IsZero() bool { return f == Filters{} }

// Query is the full input of one page fetch.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  Filters
}

// Result is one fetched page.
type Result[T any] struct {
	Items      []T
	TotalPages int
	Total      int
}

// Fetcher loads one page for q.
type Fetcher[T any] func(ctx context.Context, q Query) (Result[T], error)

// Snapshot is an immutable view of the controller handed to listeners.
type Snapshot[T any] struct {
	State      State
	Query      Query
	Items      []T
	TotalPages int
	Total      int
	Err        error
	Seq        uint64
	Location   string
}

// Options configure a Controller.
type Options struct {
	PageSize int
	// Dispatch runs background loads; the default starts a goroutine.
	Dispatch func(func())
	Logger   *zap.SugaredLogger
}

const DefaultPageSize = 8

// Controller owns the page/search/filter state of one server-paginated
// list. Every input change issues a fetch tagged with a sequence number;
// only the response carrying the latest number is applied, and the request
// it supersedes is cancelled. The last good page stays visible while a new
// one loads and after a failed load.
type Controller[T any] struct {
	path     string
	fetch    Fetcher[T]
	dispatch func(func())
	logger   *zap.SugaredLogger
	base     context.Context

	mu         sync.Mutex
	query      Query
	state      State
	items      []T
	totalPages int
	total      int
	err        error
	seq        uint64
	cancel     context.CancelFunc
	seeded     bool
	closed     bool
	listeners  []func(Snapshot[T])
}

// New builds a controller for the list mounted at path (e.g. "/cases/all").
// Background loads are bound to ctx.
func New[T any](ctx context.Context, path string, fetch Fetcher[T], opts Options) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { go f() }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Controller[T]{
		path:     path,
		fetch:    fetch,
		dispatch: opts.Dispatch,
		logger:   opts.Logger,
		base:     ctx,
		query:    Query{Page: 1, PageSize: opts.PageSize},
	}
}

// OnChange registers a listener called after every state transition.
// Listeners run on the goroutine that caused the transition.
func (c *Controller[T]) OnChange(fn func(Snapshot[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Path returns the mount path of the list.
func (c *Controller[T]) Path() string { return c.path }

// Seed initialises page and search from a location. Only the first call
// has any effect; it does not trigger a fetch.
func (c *Controller[T]) Seed(location string) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seeded {
		return nil
	}
	c.seeded = true
	c.query.Page = loc.Page
	c.query.Search = loc.Search
	return nil
}

// ApplyLocation re-drives the controller from an externally edited
// location and fetches. It reports whether anything changed.
func (c *Controller[T]) ApplyLocation(location string) (bool, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.seeded = true
	if c.query.Page == loc.Page && c.query.Search == loc.Search {
		c.mu.Unlock()
		return false, nil
	}
	c.query.Page = loc.Page
	c.query.Search = loc.Search
	c.mu.Unlock()
	c.reload()
	return true, nil
}

// Location mirrors the current page and search.
func (c *Controller[T]) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locationLocked()
}

func (c *Controller[T]) locationLocked() string {
	return Location{Path: c.path, Page: c.query.Page, Search: c.query.Search}.String()
}

// Start issues the first fetch.
func (c *Controller[T]) Start() { c.reload() }

// Refetch reloads the current query.
func (c *Controller[T]) Refetch() { c.reload() }

// SetPage moves to page n, clamped to [1, totalPages] once the total is known.
func (c *Controller[T]) SetPage(n int) bool {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	if c.totalPages > 0 && n > c.totalPages {
		n = c.totalPages
	}
	if n == c.query.Page {
		c.mu.Unlock()
		return false
	}
	c.query.Page = n
	c.mu.Unlock()
	c.reload()
	return true
}

func (c *Controller[T]) NextPage() bool { return c.SetPage(c.Snapshot().Query.Page + 1) }

func (c *Controller[T]) PrevPage() bool { return c.SetPage(c.Snapshot().Query.Page - 1) }

// SetSearch changes the free-text search and returns to page 1.
func (c *Controller[T]) SetSearch(s string) bool {
	c.mu.Lock()
	if s == c.query.Search {
		c.mu.Unlock()
		return false
	}
	c.query.Search = s
	c.query.Page = 1
	c.mu.Unlock()
	c.reload()
	return true
}

// SetFilters replaces the filters and returns to page 1.
func (c *Controller[T]) SetFilters(f Filters) bool {
	c.mu.Lock()
	if f == c.query.Filters {
		c.mu.Unlock()
		return false
	}
	c.query.Filters = f
	c.query.Page = 1
	c.mu.Unlock()
	c.reload()
	return true
}

func (c *Controller[T]) ClearFilters() bool { return c.SetFilters(Filters{}) }

// Load fetches the current query on the calling goroutine.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return context.Canceled
	}
	lctx, seq, q := c.beginLocked(ctx)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return c.run(lctx, seq, q)
}

func (c *Controller[T]) reload() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ctx, seq, q := c.beginLocked(c.base)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	c.dispatch(func() { _ = c.run(ctx, seq, q) })
}

func (c *Controller[T]) beginLocked(parent context.Context) (context.Context, uint64, Query) {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.seq++
	c.state = StateLoading
	c.err = nil
	return ctx, c.seq, c.query
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, q Query) error {
	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debugw("dropping superseded page", "path", c.path, "seq", seq)
		return nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if err != nil {
		c.state = StateError
		c.err = err
	} else {
		c.state = StateLoaded
		c.items = res.Items
		c.totalPages = res.TotalPages
		c.total = res.Total
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warnw("list fetch failed", "path", c.path, "page", q.Page, "error", err)
	}
	c.notify(snap)
	return err
}

// PatchItem applies update to every local item matching match without a
// fetch. It reports whether any item changed.
func (c *Controller[T]) PatchItem(match func(T) bool, update func(T) T) bool {
	c.mu.Lock()
	patched := false
	for i, it := range c.items {
		if match(it) {
			c.items[i] = update(it)
			patched = true
		}
	}
	if !patched {
		c.mu.Unlock()
		return false
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return true
}

// Mutate runs fn; on success it clears the error state and refetches once.
// On failure nothing local changes.
func (c *Controller[T]) Mutate(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.clearError()
	c.Refetch()
	return nil
}

// MutateAndPatch runs fn and, on success, replaces the matching local item
// with the record fn returned instead of refetching.
func (c *Controller[T]) MutateAndPatch(ctx context.Context, fn func(context.Context) (T, error), match func(T) bool) error {
	item, err := fn(ctx)
	if err != nil {
		return err
	}
	c.clearError()
	c.PatchItem(match, func(T) T { return item })
	return nil
}

func (c *Controller[T]) clearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
	if c.state == StateError {
		c.state = StateLoaded
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		State:      c.state,
		Query:      c.query,
		Items:      items,
		TotalPages: c.totalPages,
		Total:      c.total,
		Err:        c.err,
		Seq:        c.seq,
		Location:   c.locationLocked(),
	}
}

func (c *Controller[T]) notify(s Snapshot[T]) {
	c.mu.Lock()
	listeners := append([]func(Snapshot[T]){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// Close cancels any in-flight fetch; later input changes are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
