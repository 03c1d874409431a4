package listing

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"staffdash/internal/domain"
)

// Status describes the data source's last known state
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "idle"
}

// Fetcher produces a page for a query
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, q Query) (Page[T], error)
}

// FetchFunc adapts a function to Fetcher
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

func (f FetchFunc[T]) FetchPage(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// AuthContext is the read-only view of the session a source needs. Without a
// token nothing is fetched.
type AuthContext interface {
	HasToken() bool
}

// Notifier receives human readable error strings. Fire and forget.
type Notifier interface {
	Notify(msg string)
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }

// Ticket identifies one issued request. Only the most recent ticket's result
// is ever applied.
type Ticket struct {
	Seq   uint64
	Key   RequestKey
	Query Query
}

// Result is what running a ticket produced
type Result[T any] struct {
	Ticket Ticket
	Page   Page[T]
	Err    error
}

// Hooks observe applied results, used to publish events
type Hooks[T any] struct {
	Loaded func(t Ticket, p Page[T])
	Failed func(t Ticket, msg string)
}

// Source issues parameterised fetches keyed by RequestKey and keeps the last
// good page around while later requests fail.
type Source[T any] struct {
	fetcher  Fetcher[T]
	auth     AuthContext
	notifier Notifier
	hooks    Hooks[T]
	group    singleflight.Group

	mu          sync.Mutex
	seq         uint64
	current     Ticket
	currentDone bool
	page        Page[T]
	hasData     bool
	status      Status
	err         error
	lastFailure string
}

// NewSource creates a data source. notifier may be nil.
func NewSource[T any](fetcher Fetcher[T], auth AuthContext, notifier Notifier) *Source[T] {
	return &Source[T]{
		fetcher:     fetcher,
		auth:        auth,
		notifier:    notifier,
		currentDone: true,
	}
}

// SetHooks installs observers for applied results
func (s *Source[T]) SetHooks(h Hooks[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// Begin issues a ticket for q. It returns false when there is no token yet, or
// when the latest request already targets the same key and is still in
// flight. force skips the in-flight check and makes sure a fresh call is
// made; mutations use it so the refetch cannot join a request started before
// the change.
func (s *Source[T]) Begin(q Query, force bool) (Ticket, bool) {
	if s.auth == nil || !s.auth.HasToken() {
		return Ticket{}, false
	}
	key := q.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && !s.currentDone && s.current.Key == key {
		return Ticket{}, false
	}
	if force {
		s.group.Forget(string(key))
	}

	s.seq++
	s.current = Ticket{Seq: s.seq, Key: key, Query: q}
	s.currentDone = false
	s.status = StatusLoading
	return s.current, true
}

// Run performs the fetch for a ticket. Identical keys running at the same
// time share one call to the fetcher.
func (s *Source[T]) Run(ctx context.Context, t Ticket) Result[T] {
	v, err, _ := s.group.Do(string(t.Key), func() (interface{}, error) {
		return s.fetcher.FetchPage(ctx, t.Query)
	})
	if err != nil {
		return Result[T]{Ticket: t, Err: err}
	}
	return Result[T]{Ticket: t, Page: v.(Page[T])}
}

// Apply stores a result if it belongs to the latest ticket and reports
// whether it did. Failures keep the previous page and notify once per
// distinct failure.
func (s *Source[T]) Apply(res Result[T]) bool {
	s.mu.Lock()
	if res.Ticket.Seq != s.current.Seq {
		s.mu.Unlock()
		return false
	}
	s.currentDone = true
	hooks := s.hooks

	if res.Err != nil {
		s.status = StatusError
		s.err = res.Err
		msg := domain.UserMessage(res.Err)
		signature := string(res.Ticket.Key) + "\x00" + msg
		repeat := signature == s.lastFailure
		s.lastFailure = signature
		s.mu.Unlock()

		if !repeat {
			if s.notifier != nil {
				s.notifier.Notify(msg)
			}
			if hooks.Failed != nil {
				hooks.Failed(res.Ticket, msg)
			}
		}
		return true
	}

	s.page = res.Page
	s.hasData = true
	s.status = StatusSuccess
	s.err = nil
	s.lastFailure = ""
	s.mu.Unlock()

	if hooks.Loaded != nil {
		hooks.Loaded(res.Ticket, res.Page)
	}
	return true
}

// Fetch runs Begin, Run and Apply in one go. It reports whether a result was
// applied together with the fetch error, if any.
func (s *Source[T]) Fetch(ctx context.Context, q Query, force bool) (bool, error) {
	t, ok := s.Begin(q, force)
	if !ok {
		return false, nil
	}
	res := s.Run(ctx, t)
	return s.Apply(res), res.Err
}

// Page returns the last applied page
func (s *Source[T]) Page() Page[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// HasData reports whether any page has been applied yet
func (s *Source[T]) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasData
}

func (s *Source[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Loading reports whether the latest request is still outstanding
func (s *Source[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.currentDone
}

func (s *Source[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Current returns the latest issued ticket
func (s *Source[T]) Current() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Replace patches the displayed page in place, used when a record disappears
// before the refetch lands
func (s *Source[T]) Replace(fn func(Page[T]) Page[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasData {
		s.page = fn(s.page)
	}
}
