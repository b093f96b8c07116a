package events

import (
	"context"
	"sync"
	"time"

	"dicehouse/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChanged       EventType = "balance_changed"
	EventTypeCommitmentPublished  EventType = "commitment_published"
	EventTypeCommitmentCancelled  EventType = "commitment_cancelled"
	EventTypeBetMatched           EventType = "bet_matched"
	EventTypeMatchSettled         EventType = "match_settled"
	EventTypeMatchCollected       EventType = "match_collected"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangedEvent represents a bankroll mutation that occurred
type BalanceChangedEvent struct {
	Owner        string
	OldBalance   int64
	NewBalance   int64
	ChangeAmount int64
	EntryType    models.EntryType
}

func (e BalanceChangedEvent) Type() EventType {
	return EventTypeBalanceChanged
}

// CommitmentPublishedEvent represents a new open offer
type CommitmentPublishedEvent struct {
	Key  int64
	Host string
}

func (e CommitmentPublishedEvent) Type() EventType {
	return EventTypeCommitmentPublished
}

// CommitmentCancelledEvent represents an offer removed before any player took it
type CommitmentCancelledEvent struct {
	Key  int64
	Host string
}

func (e CommitmentCancelledEvent) Type() EventType {
	return EventTypeCommitmentCancelled
}

// BetMatchedEvent represents a bet filled into an open offer
type BetMatchedEvent struct {
	Key      int64
	Host     string
	Player   string
	Bet      int64
	Guess    models.Guess
	Deadline time.Time
}

func (e BetMatchedEvent) Type() EventType {
	return EventTypeBetMatched
}

// MatchSettledEvent represents a match resolved by a reveal
type MatchSettledEvent struct {
	Key          int64
	Host         string
	Player       string
	Bet          int64
	PlayerWon    bool
	PlayerPayout int64
	HostPayout   int64
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// MatchCollectedEvent represents a match resolved by timeout in the player's favor
type MatchCollectedEvent struct {
	Key    int64
	Host   string
	Player string
	Payout int64
}

func (e MatchCollectedEvent) Type() EventType {
	return EventTypeMatchCollected
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the protocol operation
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus holds pending events coupled to a unit of work.
// Events are flushed to the underlying bus only after the transaction
// commits, and discarded on rollback, so observers never see effects of
// operations that were rolled back.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
