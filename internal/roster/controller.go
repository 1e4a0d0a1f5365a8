// Package roster implements the filtered, paginated list pattern shared by
// every listing screen: a set of filter selections plus a page number turn
// into one backend query, and any filter change snaps the page back to 1.
package roster

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

// All is the sentinel meaning "no constraint applied on this field".
const All = "all"

// Page is one page of results plus the shape of the full result set.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int
}

// FetchFunc turns the effective filter set and page number into a backend
// query. Keys holding the All sentinel are never passed in.
type FetchFunc[T any] func(ctx context.Context, filters map[string]string, page int) (Page[T], error)

// Config describes one listing screen.
type Config struct {
	// Name appears in the fetch-failure fallback message ("Failed to fetch <Name>").
	Name string
	// Filters is the user-clearable filter key set.
	Filters []string
	// Cascades maps a filter key to the dependent keys that reset to All
	// whenever it changes.
	Cascades map[string][]string
	// Scope holds implicit constraints that are always applied and never
	// exposed to the user, e.g. the department of a department-scoped role.
	Scope map[string]string
	// PageSize is passed through to the fetch as the "limit" filter.
	PageSize int
}

// Snapshot is the controller's observable state. A failed fetch keeps the
// previous page's items and reports the failure in ErrorMessage.
type Snapshot[T any] struct {
	Items        []T
	CurrentPage  int
	TotalPages   int
	TotalCount   int
	Loading      bool
	ErrorMessage string
}

// Controller owns filter and pagination state for one screen. Responses that
// arrive after a newer request was issued are dropped, so the displayed page
// always reflects the most recent selection.
type Controller[T any] struct {
	cfg   Config
	fetch FetchFunc[T]
	log   zerolog.Logger

	mu      sync.Mutex
	filters map[string]string
	page    int
	seq     uint64
	items   []T
	total   int
	pages   int
	count   int
	loading bool
	errMsg  string
}

func NewController[T any](cfg Config, fetch FetchFunc[T], log zerolog.Logger) *Controller[T] {
	filters := make(map[string]string, len(cfg.Filters))
	for _, key := range cfg.Filters {
		filters[key] = All
	}
	return &Controller[T]{
		cfg:     cfg,
		fetch:   fetch,
		log:     log.With().Str("component", "roster").Str("list", cfg.Name).Logger(),
		filters: filters,
		page:    1,
		pages:   1,
	}
}

// SetFilter records a filter selection, resets dependent filters and the page
// number, and issues the fetch for page 1 of the new filter set.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	if _, known := c.filters[key]; !known {
		c.mu.Unlock()
		return
	}
	c.filters[key] = value
	for _, dep := range c.cfg.Cascades[key] {
		c.filters[dep] = All
	}
	c.page = 1
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	c.run(ctx, seq)
}

// SetPage moves to the given page of the current filter set.
func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	c.run(ctx, seq)
}

// Refresh re-fetches the current page, e.g. after a create flow completes.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	c.run(ctx, seq)
}

func (c *Controller[T]) nextSeqLocked() uint64 {
	c.seq++
	c.loading = true
	return c.seq
}

func (c *Controller[T]) run(ctx context.Context, seq uint64) {
	c.mu.Lock()
	filters := c.effectiveFiltersLocked()
	page := c.page
	c.mu.Unlock()

	result, err := c.fetch(ctx, filters, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer request has been issued; this response is stale.
		c.log.Debug().Uint64("seq", seq).Msg("dropping stale response")
		return
	}
	c.loading = false
	if err != nil {
		// Keep the previous items so a transient failure never blanks the screen.
		c.errMsg = api.ErrorMessage(err, "Failed to fetch "+c.cfg.Name)
		return
	}
	c.errMsg = ""
	c.items = result.Items
	c.count = result.TotalCount
	c.pages = result.TotalPages
	if c.pages < 1 {
		c.pages = 1
	}
	if result.CurrentPage > 0 {
		c.page = result.CurrentPage
	}
}

func (c *Controller[T]) effectiveFiltersLocked() map[string]string {
	out := make(map[string]string)
	for key, value := range c.filters {
		if value == All || value == "" {
			continue
		}
		out[key] = value
	}
	// Implicit scope always wins over user selections.
	for key, value := range c.cfg.Scope {
		out[key] = value
	}
	return out
}

// Filter returns the current selection for a key, defaulting to All.
func (c *Controller[T]) Filter(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.filters[key]; ok {
		return v
	}
	return All
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:        items,
		CurrentPage:  c.page,
		TotalPages:   c.pages,
		TotalCount:   c.count,
		Loading:      c.loading,
		ErrorMessage: c.errMsg,
	}
}
