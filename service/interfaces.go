package service

import (
	"context"
	"time"

	"dicehouse/events"
	"dicehouse/models"
)

// AccountRepository defines the interface for bankroll account data access
type AccountRepository interface {
	// GetByOwner retrieves an account by owner, or nil if none exists
	GetByOwner(ctx context.Context, owner string) (*models.Account, error)

	// Create creates an account seeded with the given balance
	Create(ctx context.Context, owner string, balance int64) (*models.Account, error)

	// UpdateBalance sets an account's balance to a new positive value
	UpdateBalance(ctx context.Context, owner string, newBalance int64) error

	// Delete removes an account (used when the balance reaches exactly zero)
	Delete(ctx context.Context, owner string) error

	// GetAllInCreationOrder returns every account, oldest first. The matching
	// engine's host scan depends on this order.
	GetAllInCreationOrder(ctx context.Context) ([]*models.Account, error)
}

// OfferRepository defines the interface for open offer data access
type OfferRepository interface {
	// Create inserts a new open offer
	Create(ctx context.Context, offer *models.Offer) error

	// GetByKey retrieves an offer by commitment key, or nil if none exists
	GetByKey(ctx context.Context, key int64) (*models.Offer, error)

	// GetOldestByHost returns the host's earliest open offer, or nil
	GetOldestByHost(ctx context.Context, host string) (*models.Offer, error)

	// GetAllByHost returns every open offer of a host, oldest first
	GetAllByHost(ctx context.Context, host string) ([]*models.Offer, error)

	// Delete removes an offer by key
	Delete(ctx context.Context, key int64) error
}

// MatchRepository defines the interface for match record data access.
// The match table is a superset of the offer table: placeholder rows mirror
// open offers, so commitment-key uniqueness is checked here.
type MatchRepository interface {
	// Create inserts a match record (placeholder form at commit time)
	Create(ctx context.Context, match *models.Match) error

	// GetByKey retrieves a match by commitment key, or nil if none exists
	GetByKey(ctx context.Context, key int64) (*models.Match, error)

	// Fill turns a placeholder into a live match. It fails if the record is
	// missing or already filled.
	Fill(ctx context.Context, key int64, guess models.Guess, player string, bet int64, deadline time.Time) error

	// GetByPlayer returns all matches naming the player
	GetByPlayer(ctx context.Context, player string) ([]*models.Match, error)

	// Delete removes a match by key
	Delete(ctx context.Context, key int64) error
}

// LedgerEntryRepository defines the interface for the balance audit trail
type LedgerEntryRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByOwner returns the most recent entries for an owner
	GetByOwner(ctx context.Context, owner string, limit int) ([]*models.LedgerEntry, error)
}

// TransferClient moves value out of the protocol's custody via the external
// ledger transfer service.
type TransferClient interface {
	Pay(ctx context.Context, to string, amount int64, memo string) error
}

// LedgerService defines deposit and withdrawal of host bankrolls
type LedgerService interface {
	// Deposit credits a bankroll; account creation requires the minimum balance
	Deposit(ctx context.Context, owner string, amount int64) error

	// Withdraw debits a bankroll with minimums enforced and pays the owner.
	// The caller's authorization for `to` is an upstream precondition.
	Withdraw(ctx context.Context, to string, amount int64) error
}

// CommitmentService defines publication and cancellation of commitments
type CommitmentService interface {
	// Commit publishes a commitment: one open offer plus its mirrored
	// placeholder match. Host authorization is an upstream precondition.
	Commit(ctx context.Context, host string, commitment models.CommitmentHash) error

	// CancelCommit retracts an offer no player has taken
	CancelCommit(ctx context.Context, host string, commitment models.CommitmentHash) error
}

// MatchingService fills inbound bets into open offers
type MatchingService interface {
	// PlaceBet matches a bet to the first host (in account creation order)
	// with both sufficient bankroll and an open offer. Fails with
	// NoBetsAvailableError when no such host exists.
	PlaceBet(ctx context.Context, player string, amount int64, guess models.Guess) (*models.Match, error)
}

// SettlementService resolves matches by commitment reveal
type SettlementService interface {
	// Reveal verifies the source against the commitment, pays the winner and
	// removes the match. Revealing an untaken commitment is pure cleanup.
	Reveal(ctx context.Context, commitment, source models.CommitmentHash) (*models.SettlementResult, error)
}

// CollectorService resolves expired matches by timeout
type CollectorService interface {
	// Collect pays the player the full pot of every expired match naming
	// them. Having nothing to collect is success with zero effect.
	Collect(ctx context.Context, player string) (*models.CollectResult, error)
}

// TransferHandler dispatches inbound transfer notifications
type TransferHandler interface {
	// HandleTransfer routes a transfer by memo: deposit or parity bet. Any
	// error must cause the external service to refuse the whole transfer.
	HandleTransfer(ctx context.Context, transfer models.InboundTransfer) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations.
// Each protocol operation runs inside exactly one unit of work: it either
// completes all its reads and writes or none of them.
type UnitOfWork interface {
	// Begin starts a new serializable transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	OfferRepository() OfferRepository
	MatchRepository() MatchRepository
	LedgerEntryRepository() LedgerEntryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
