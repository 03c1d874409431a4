package listing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/domain"
)

type tokenAuth struct{ token string }

func (a *tokenAuth) HasToken() bool { return a.token != "" }

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func employees(names ...string) []domain.Employee {
	out := make([]domain.Employee, len(names))
	for i, n := range names {
		out[i] = domain.Employee{ID: n, FirstName: n}
	}
	return out
}

func staticFetcher(items []domain.Employee, total int) FetchFunc[domain.Employee] {
	return func(_ context.Context, q Query) (Page[domain.Employee], error) {
		return NewPage(items, total, q.Page, q.PageSize), nil
	}
}

func TestNoFetchWithoutToken(t *testing.T) {
	var calls int32
	fetch := FetchFunc[domain.Employee](func(context.Context, Query) (Page[domain.Employee], error) {
		atomic.AddInt32(&calls, 1)
		return Page[domain.Employee]{}, nil
	})
	auth := &tokenAuth{}
	src := NewSource[domain.Employee](fetch, auth, nil)

	_, ok := src.Begin(Query{Page: 1, PageSize: 10}, false)
	assert.False(t, ok, "no ticket should be issued without a token")
	assert.Equal(t, StatusIdle, src.Status())

	auth.token = "t"
	applied, err := src.Fetch(context.Background(), Query{Page: 1, PageSize: 10}, false)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDuplicateInFlightSuppressed(t *testing.T) {
	src := NewSource[domain.Employee](staticFetcher(nil, 0), &tokenAuth{token: "t"}, nil)
	q := Query{Page: 1, PageSize: 10}

	first, ok := src.Begin(q, false)
	require.True(t, ok)

	// Polling, refocus and reconnect use force=false
	_, ok = src.Begin(q, false)
	assert.False(t, ok, "identical in-flight request should be suppressed")

	// Mutations force a fresh ticket
	forced, ok := src.Begin(q, true)
	require.True(t, ok)
	assert.Greater(t, forced.Seq, first.Seq)

	// Once the latest request finished the same key may be fetched again
	require.True(t, src.Apply(src.Run(context.Background(), forced)))
	_, ok = src.Begin(q, false)
	assert.True(t, ok)
}

func TestLastRequestWins(t *testing.T) {
	release := map[string]chan struct{}{
		"A": make(chan struct{}),
		"B": make(chan struct{}),
	}
	fetch := FetchFunc[domain.Employee](func(_ context.Context, q Query) (Page[domain.Employee], error) {
		<-release[q.Search]
		return NewPage(employees(q.Search), 1, 1, q.PageSize), nil
	})
	src := NewSource[domain.Employee](fetch, &tokenAuth{token: "t"}, nil)

	ta, ok := src.Begin(Query{Search: "A", Page: 1, PageSize: 10}, false)
	require.True(t, ok)
	tb, ok := src.Begin(Query{Search: "B", Page: 1, PageSize: 10}, false)
	require.True(t, ok)

	results := make(chan Result[domain.Employee], 2)
	go func() { results <- src.Run(context.Background(), ta) }()
	go func() { results <- src.Run(context.Background(), tb) }()

	// B resolves first, then A
	close(release["B"])
	rb := <-results
	close(release["A"])
	ra := <-results

	assert.True(t, src.Apply(rb), "latest result should apply")
	assert.False(t, src.Apply(ra), "stale result should be discarded")

	page := src.Page()
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B", page.Items[0].FirstName)
	assert.False(t, src.Loading())
}

func TestErrorKeepsPreviousPageAndNotifiesOnce(t *testing.T) {
	var fail atomic.Bool
	fetch := FetchFunc[domain.Employee](func(_ context.Context, q Query) (Page[domain.Employee], error) {
		if fail.Load() {
			return Page[domain.Employee]{}, domain.TransportError{Op: "list employees", Err: errors.New("connection refused")}
		}
		return NewPage(employees("ana", "ben"), 2, 1, q.PageSize), nil
	})
	notifier := &recordingNotifier{}
	src := NewSource[domain.Employee](fetch, &tokenAuth{token: "t"}, notifier)
	q := Query{Page: 1, PageSize: 10}

	_, err := src.Fetch(context.Background(), q, false)
	require.NoError(t, err)
	require.Len(t, src.Page().Items, 2)

	fail.Store(true)
	applied, err := src.Fetch(context.Background(), q, false)
	assert.True(t, applied)
	assert.Error(t, err)
	assert.Equal(t, StatusError, src.Status())
	assert.Len(t, src.Page().Items, 2, "previous rows stay visible")
	assert.True(t, src.HasData())
	assert.True(t, domain.IsTransport(src.Err()))

	// Retries failing the same way are not re-notified
	_, _ = src.Fetch(context.Background(), q, false)
	_, _ = src.Fetch(context.Background(), q, false)
	assert.Len(t, notifier.Messages(), 1)

	// A success resets the memory
	fail.Store(false)
	_, err = src.Fetch(context.Background(), q, false)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, src.Status())

	fail.Store(true)
	_, _ = src.Fetch(context.Background(), q, false)
	assert.Len(t, notifier.Messages(), 2)
}

func TestIdenticalKeysShareOneCall(t *testing.T) {
	var calls int32
	gate := make(chan struct{})
	fetch := FetchFunc[domain.Employee](func(_ context.Context, q Query) (Page[domain.Employee], error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return NewPage(employees("ana"), 1, 1, q.PageSize), nil
	})
	src := NewSource[domain.Employee](fetch, &tokenAuth{token: "t"}, nil)
	q := Query{Page: 1, PageSize: 10}

	t1, ok := src.Begin(q, false)
	require.True(t, ok)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); src.Run(context.Background(), t1) }()

	// Wait until the first call is inside the fetcher
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	go func() { defer wg.Done(); src.Run(context.Background(), t1) }()

	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestHooksObserveAppliedResults(t *testing.T) {
	var loaded, failed int
	src := NewSource[domain.Employee](staticFetcher(employees("ana"), 1), &tokenAuth{token: "t"}, nil)
	src.SetHooks(Hooks[domain.Employee]{
		Loaded: func(Ticket, Page[domain.Employee]) { loaded++ },
		Failed: func(Ticket, string) { failed++ },
	})

	_, err := src.Fetch(context.Background(), Query{Page: 1, PageSize: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 0, failed)
}
