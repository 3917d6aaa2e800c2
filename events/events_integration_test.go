package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalBus_FlushDeliversToBus(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan LevelUpEvent, 1)
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		if e, ok := event.(LevelUpEvent); ok {
			received <- e
		}
	})

	want := LevelUpEvent{UserID: 123456, GuildID: 789, OldLevel: 1, NewLevel: 2, CurrencyReward: 20}
	transactionalBus.Publish(want)
	assert.Equal(t, 1, transactionalBus.Pending())

	transactionalBus.Flush()
	assert.Equal(t, 0, transactionalBus.Pending())

	select {
	case got := <-received:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not received within timeout")
	}
}

func TestTransactionalBus_DiscardDropsEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	calls := 0
	mainBus.Subscribe(EventTypeWarnAdded, func(ctx context.Context, event Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	transactionalBus.Publish(WarnAddedEvent{SubjectID: 1, Count: 1})
	transactionalBus.Discard()
	transactionalBus.Flush()
	mainBus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeDropExpired, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeDropExpired, func(ctx context.Context, event Event) {
		defer wg.Done()
	})

	require.NoError(t, bus.Publish(DropExpiredEvent{MessageID: 1}))
	wg.Wait()
	bus.Wait()
}

func TestTicketEvent_TypeFollowsKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EventTypeTicketClaimed, TicketEvent{Kind: EventTypeTicketClaimed}.Type())
	assert.Equal(t, EventTypeVoiceChannelDeleted, VoiceChannelEvent{Kind: EventTypeVoiceChannelDeleted}.Type())
}
