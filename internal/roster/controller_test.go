package roster

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

type call struct {
	filters map[string]string
	page    int
}

// recordingFetch captures every request and replies from a canned queue.
type recordingFetch struct {
	mu    sync.Mutex
	calls []call
	reply func(call) (Page[string], error)
}

func (f *recordingFetch) fn() FetchFunc[string] {
	return func(_ context.Context, filters map[string]string, page int) (Page[string], error) {
		copied := make(map[string]string, len(filters))
		for k, v := range filters {
			copied[k] = v
		}
		c := call{filters: copied, page: page}
		f.mu.Lock()
		f.calls = append(f.calls, c)
		f.mu.Unlock()
		return f.reply(c)
	}
}

func (f *recordingFetch) lastCall(t *testing.T) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatalf("expected at least one fetch")
	}
	return f.calls[len(f.calls)-1]
}

func okPage(items ...string) func(call) (Page[string], error) {
	return func(c call) (Page[string], error) {
		return Page[string]{Items: items, CurrentPage: c.page, TotalPages: 5, TotalCount: 50}, nil
	}
}

func employeeConfig() Config {
	return Config{
		Name:    "employees",
		Filters: []string{"department_id", "duty_point_id", "shift_id", "status", "name"},
		Cascades: map[string][]string{
			"department_id": {"duty_point_id", "shift_id"},
		},
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	fetch := &recordingFetch{reply: okPage("a")}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.SetPage(ctx, 4)
	if got := fetch.lastCall(t).page; got != 4 {
		t.Fatalf("expected page 4 requested, got %d", got)
	}

	c.SetFilter(ctx, "status", "active")
	last := fetch.lastCall(t)
	if last.page != 1 {
		t.Fatalf("expected filter change to request page 1, got %d", last.page)
	}
	if last.filters["status"] != "active" {
		t.Fatalf("expected status filter applied, got %v", last.filters)
	}
}

func TestDepartmentChangeCascades(t *testing.T) {
	fetch := &recordingFetch{reply: okPage("a")}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.SetFilter(ctx, "duty_point_id", "7")
	c.SetFilter(ctx, "shift_id", "3")
	c.SetFilter(ctx, "department_id", "2")

	if got := c.Filter("duty_point_id"); got != All {
		t.Fatalf("expected duty point reset to all, got %s", got)
	}
	if got := c.Filter("shift_id"); got != All {
		t.Fatalf("expected shift reset to all, got %s", got)
	}

	last := fetch.lastCall(t)
	if _, ok := last.filters["duty_point_id"]; ok {
		t.Fatalf("expected cascaded filters absent from query, got %v", last.filters)
	}
	if _, ok := last.filters["shift_id"]; ok {
		t.Fatalf("expected cascaded filters absent from query, got %v", last.filters)
	}
	if last.filters["department_id"] != "2" {
		t.Fatalf("expected department filter applied, got %v", last.filters)
	}
}

func TestAllSentinelOmittedFromQuery(t *testing.T) {
	fetch := &recordingFetch{reply: okPage("a")}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.SetFilter(ctx, "status", "active")
	c.SetFilter(ctx, "status", All)

	last := fetch.lastCall(t)
	if _, ok := last.filters["status"]; ok {
		t.Fatalf("expected all sentinel omitted, got %v", last.filters)
	}
}

func TestImplicitScopeAlwaysApplied(t *testing.T) {
	cfg := employeeConfig()
	cfg.Scope = map[string]string{"department_id": "9"}
	fetch := &recordingFetch{reply: okPage("a")}
	c := NewController[string](cfg, fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.Refresh(ctx)
	if got := fetch.lastCall(t).filters["department_id"]; got != "9" {
		t.Fatalf("expected scoped department always applied, got %v", got)
	}

	// A user selection cannot widen the scope.
	c.SetFilter(ctx, "department_id", "2")
	if got := fetch.lastCall(t).filters["department_id"]; got != "9" {
		t.Fatalf("expected scope to win over selection, got %v", got)
	}
}

func TestFetchErrorKeepsPreviousItems(t *testing.T) {
	fail := false
	fetch := &recordingFetch{reply: func(c call) (Page[string], error) {
		if fail {
			return Page[string]{}, errors.New("dial tcp: connection refused")
		}
		return okPage("ramesh", "mahesh")(c)
	}}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.Refresh(ctx)
	fail = true
	c.Refresh(ctx)

	snap := c.Snapshot()
	if snap.ErrorMessage != "Network error occurred. Please try again." {
		t.Fatalf("expected network message, got %q", snap.ErrorMessage)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("expected previous items retained, got %v", snap.Items)
	}
}

func TestFetchBackendErrorUsesFallback(t *testing.T) {
	fetch := &recordingFetch{reply: func(call) (Page[string], error) {
		return Page[string]{}, &api.Error{StatusCode: 500}
	}}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())

	c.Refresh(context.Background())
	if got := c.Snapshot().ErrorMessage; got != "Failed to fetch employees" {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	fetch := &recordingFetch{reply: okPage("fresh")}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())
	ctx := context.Background()

	c.Refresh(ctx)
	c.mu.Lock()
	staleSeq := c.seq
	// A newer request has been issued but has not resolved yet.
	c.seq++
	c.mu.Unlock()

	// The older request now resolves; its sequence number no longer matches.
	fetch.reply = okPage("stale")
	c.run(ctx, staleSeq)

	snap := c.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0] != "fresh" {
		t.Fatalf("expected stale response dropped, got %v", snap.Items)
	}
}

func TestUnknownFilterIgnored(t *testing.T) {
	fetch := &recordingFetch{reply: okPage("a")}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())

	c.SetFilter(context.Background(), "bogus", "1")
	fetch.mu.Lock()
	defer fetch.mu.Unlock()
	if len(fetch.calls) != 0 {
		t.Fatalf("expected no fetch for unknown filter key")
	}
}

func TestSnapshotPaginationFromResponse(t *testing.T) {
	fetch := &recordingFetch{reply: func(c call) (Page[string], error) {
		return Page[string]{
			Items:       []string{strconv.Itoa(c.page)},
			CurrentPage: c.page,
			TotalPages:  3,
			TotalCount:  25,
		}, nil
	}}
	c := NewController[string](employeeConfig(), fetch.fn(), zerolog.Nop())

	c.SetPage(context.Background(), 2)
	snap := c.Snapshot()
	if snap.CurrentPage != 2 || snap.TotalPages != 3 || snap.TotalCount != 25 {
		t.Fatalf("unexpected pagination %+v", snap)
	}
}
