package service

import (
	"context"
	"fmt"
	"time"

	"dicehouse/events"
	"dicehouse/models"
)

type commitmentService struct {
	uowFactory UnitOfWorkFactory
}

// NewCommitmentService creates a new commitment service
func NewCommitmentService(uowFactory UnitOfWorkFactory) CommitmentService {
	return &commitmentService{
		uowFactory: uowFactory,
	}
}

// Commit publishes a commitment. Hosts can only propose commitments after
// they have deposited a bankroll. On success one open offer and its mirrored
// placeholder match are inserted atomically under the derived key.
func (s *commitmentService) Commit(ctx context.Context, host string, commitment models.CommitmentHash) error {
	key := models.DeriveKey(commitment)
	if key == models.ZeroSourceKey {
		return fmt.Errorf("%w", ErrReservedSource)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByOwner(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("%w: cannot commit with a bankroll of zero", ErrNoBankroll)
	}

	// The match table is a superset of the offer table, so key uniqueness is
	// checked there.
	existing, err := uow.MatchRepository().GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check for key collision: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w", ErrDuplicateCommitment)
	}

	offer := &models.Offer{
		Key:  key,
		Host: host,
		Hash: commitment,
	}
	if err := uow.OfferRepository().Create(ctx, offer); err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	// Preallocate the mirrored match in placeholder form; the player's bet
	// transfer will only ever fill it in, never insert.
	match := &models.Match{
		Key:      key,
		Host:     host,
		Hash:     commitment,
		Guess:    models.NullGuess,
		Player:   models.NoPlayer,
		Bet:      0,
		Deadline: time.Now(),
	}
	if err := uow.MatchRepository().Create(ctx, match); err != nil {
		return fmt.Errorf("failed to create placeholder match: %w", err)
	}

	uow.EventBus().Publish(events.CommitmentPublishedEvent{
		Key:  key,
		Host: host,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CancelCommit retracts an untaken commitment, deleting the offer and its
// placeholder match. A commitment a player has already taken must resolve
// through reveal or timeout.
func (s *commitmentService) CancelCommit(ctx context.Context, host string, commitment models.CommitmentHash) error {
	key := models.DeriveKey(commitment)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("%w: commitment not found", ErrNotFound)
	}
	if match.Host != host {
		return fmt.Errorf("%w: commitment not found", ErrNotFound)
	}
	if !match.IsPlaceholder() {
		return fmt.Errorf("%w: cannot cancel commitment", ErrAlreadyInPlay)
	}

	if err := uow.MatchRepository().Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete placeholder match: %w", err)
	}
	if err := uow.OfferRepository().Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	uow.EventBus().Publish(events.CommitmentCancelledEvent{
		Key:  key,
		Host: host,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
