package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_SubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeCommitmentPublished, func(ctx context.Context, e Event) {
		received <- e
	})

	bus.Emit(context.Background(), CommitmentPublishedEvent{Key: 42, Host: "hosta"})

	select {
	case e := <-received:
		event, ok := e.(CommitmentPublishedEvent)
		assert.True(t, ok)
		assert.Equal(t, int64(42), event.Key)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestBus_OnlyMatchingHandlersInvoked(t *testing.T) {
	bus := NewBus()

	matched := make(chan Event, 1)
	other := make(chan Event, 1)
	bus.Subscribe(EventTypeBetMatched, func(ctx context.Context, e Event) {
		matched <- e
	})
	bus.Subscribe(EventTypeMatchSettled, func(ctx context.Context, e Event) {
		other <- e
	})

	bus.Emit(context.Background(), BetMatchedEvent{Key: 7, Host: "hosta", Player: "playerb"})

	select {
	case <-matched:
	case <-time.After(time.Second):
		t.Fatal("bet matched handler was not invoked")
	}

	select {
	case <-other:
		t.Fatal("settled handler invoked for an unrelated event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_RecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeBalanceChanged, func(ctx context.Context, e Event) {
		panic("handler blew up")
	})
	bus.Subscribe(EventTypeBalanceChanged, func(ctx context.Context, e Event) {
		received <- e
	})

	bus.Emit(context.Background(), BalanceChangedEvent{Owner: "hosta", NewBalance: 1})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("surviving handler was not invoked")
	}
}

func TestTransactionalBus_FlushDeliversPendingEvents(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	received := make(chan Event, 2)
	bus.Subscribe(EventTypeCommitmentCancelled, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus.Publish(CommitmentCancelledEvent{Key: 1, Host: "hosta"})
	txBus.Publish(CommitmentCancelledEvent{Key: 2, Host: "hosta"})

	// Nothing leaves the transactional bus before the flush.
	select {
	case <-received:
		t.Fatal("event delivered before flush")
	case <-time.After(50 * time.Millisecond):
	}

	txBus.Flush(context.Background())

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatalf("pending event %d was not delivered", i)
		}
	}
}

func TestTransactionalBus_DiscardDropsPendingEvents(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeCommitmentCancelled, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus.Publish(CommitmentCancelledEvent{Key: 1, Host: "hosta"})
	txBus.Discard()
	txBus.Flush(context.Background())

	select {
	case <-received:
		t.Fatal("discarded event was delivered")
	case <-time.After(50 * time.Millisecond):
	}
}
