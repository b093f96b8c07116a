package service

import (
	"context"
	"fmt"
	"time"

	"dicehouse/config"
	"dicehouse/events"
	"dicehouse/models"
)

type matchingService struct {
	uowFactory UnitOfWorkFactory
}

// NewMatchingService creates a new matching service
func NewMatchingService(uowFactory UnitOfWorkFactory) MatchingService {
	return &matchingService{
		uowFactory: uowFactory,
	}
}

// PlaceBet scans host accounts in creation order for the first one whose
// bankroll can cover the bet under the ratio cap and that has an open offer.
// The host is debited, the offer's placeholder match is filled in and the
// offer removed, all in one transaction. When no host qualifies the bet is
// refused with the largest currently fundable bet as advisory data.
//
// The scan is linear over all hosts; fine at small host counts, a known
// bottleneck at large ones.
func (s *matchingService) PlaceBet(ctx context.Context, player string, amount int64, guess models.Guess) (*models.Match, error) {
	if guess != models.GuessEven && guess != models.GuessOdd {
		return nil, fmt.Errorf("guess must be even (0) or odd (1)")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive")
	}

	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetAllInCreationOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	var maxBankroll int64
	for _, account := range accounts {
		if account.CanCover(amount, cfg.MaxBetRatio) {
			offer, err := uow.OfferRepository().GetOldestByHost(ctx, account.Owner)
			if err != nil {
				return nil, fmt.Errorf("failed to look up offers for host %s: %w", account.Owner, err)
			}
			if offer == nil {
				continue
			}

			match, err := s.fillOffer(ctx, uow, account.Owner, offer, player, amount, guess)
			if err != nil {
				return nil, err
			}

			if err := uow.Commit(); err != nil {
				return nil, fmt.Errorf("failed to commit transaction: %w", err)
			}
			return match, nil
		}

		if account.Balance > maxBankroll {
			// Only hosts with an open offer count towards the advisory
			// maximum bet.
			offer, err := uow.OfferRepository().GetOldestByHost(ctx, account.Owner)
			if err != nil {
				return nil, fmt.Errorf("failed to look up offers for host %s: %w", account.Owner, err)
			}
			if offer != nil {
				maxBankroll = account.Balance
			}
		}
	}

	maxBet := maxBankroll / cfg.MaxBetRatio
	if maxBet < cfg.MinTransfer {
		return nil, &NoBetsAvailableError{}
	}
	return nil, &NoBetsAvailableError{MaxBet: maxBet}
}

// fillOffer funds the match from the host's bankroll, fills the mirrored
// placeholder record and removes the open offer.
func (s *matchingService) fillOffer(ctx context.Context, uow UnitOfWork, host string, offer *models.Offer, player string, amount int64, guess models.Guess) (*models.Match, error) {
	cfg := config.Get()

	// The ratio cap guarantees the debit never empties the account, so the
	// zero-balance offer cascade cannot touch the offer being filled.
	err := debitBalance(ctx, uow, host, amount, false, models.EntryTypeBetDebit, map[string]any{
		"commitment_key": offer.Key,
		"player":         player,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fund match: %w", err)
	}

	deadline := time.Now().Add(cfg.RevealTimeout)
	if err := uow.MatchRepository().Fill(ctx, offer.Key, guess, player, amount, deadline); err != nil {
		return nil, fmt.Errorf("failed to fill match: %w", err)
	}

	if err := uow.OfferRepository().Delete(ctx, offer.Key); err != nil {
		return nil, fmt.Errorf("failed to delete filled offer: %w", err)
	}

	uow.EventBus().Publish(events.BetMatchedEvent{
		Key:      offer.Key,
		Host:     host,
		Player:   player,
		Bet:      amount,
		Guess:    guess,
		Deadline: deadline,
	})

	return &models.Match{
		Key:      offer.Key,
		Host:     host,
		Hash:     offer.Hash,
		Guess:    guess,
		Player:   player,
		Bet:      amount,
		Deadline: deadline,
	}, nil
}
