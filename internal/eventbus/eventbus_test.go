package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/domain"
)

func waitFor(t *testing.T, ch <-chan DomainEvent) DomainEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		require.FailNow(t, "event not delivered")
		return nil
	}
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventRecordSaved, func(e DomainEvent) { got <- e })

	b.Publish(RecordSavedEvent{Entity: domain.EntityEmployees, ID: "e1"})
	e := waitFor(t, got)
	assert.Equal(t, RecordSavedEvent{Entity: domain.EntityEmployees, ID: "e1"}, e)
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := New()
	defer b.Close()

	saved := make(chan DomainEvent, 2)
	deleted := make(chan DomainEvent, 2)
	b.Subscribe(EventRecordSaved, func(e DomainEvent) { saved <- e })
	b.Subscribe(EventRecordDeleted, func(e DomainEvent) { deleted <- e })

	b.Publish(RecordDeletedEvent{Entity: domain.EntityProjects, ID: "p1", Name: "Atlas"})
	e := waitFor(t, deleted)
	assert.Equal(t, EventRecordDeleted, e.Type())
	assert.Empty(t, saved)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	var mu sync.Mutex
	calls := 0
	unsubscribe := b.Subscribe(EventSessionEnded, func(DomainEvent) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	marker := make(chan DomainEvent, 1)
	b.Subscribe(EventSessionEnded, func(e DomainEvent) { marker <- e })

	unsubscribe()
	b.Publish(SessionEndedEvent{Reason: "Signed out"})
	waitFor(t, marker)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestPanickingHandlerDoesNotStopDispatch(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 2)
	b.Subscribe(EventConfigChanged, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventConfigChanged, func(e DomainEvent) { got <- e })

	b.Publish(ConfigChangedEvent{PageSize: 20})
	b.Publish(ConfigChangedEvent{PageSize: 50})
	waitFor(t, got)
	waitFor(t, got)
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New()
	b.Close()
	assert.NotPanics(t, b.Close)
}
