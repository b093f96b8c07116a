package service

import (
	"context"
	"fmt"

	"dicehouse/events"
	"dicehouse/models"
)

// feeUnit is the smallest currency increment. A losing player is paid
// exactly one unit as an auditable loss notification, and the same unit is
// deducted from a winning player's payout to cover it.
const feeUnit = 1

type settlementService struct {
	uowFactory UnitOfWorkFactory
	transfers  TransferClient
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, transfers TransferClient) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		transfers:  transfers,
	}
}

// Reveal settles the match under the commitment's key. Anyone holding a
// source that hashes to the commitment may submit it. Revealing an untaken
// commitment just cleans up the offer and its placeholder match; revealing a
// live match pays the player, credits the host and deletes the match. In the
// win and lose branches alike, player payout plus host credit equals twice
// the bet.
func (s *settlementService) Reveal(ctx context.Context, commitment, source models.CommitmentHash) (*models.SettlementResult, error) {
	if models.HashSource(source) != commitment {
		return nil, fmt.Errorf("%w", ErrCommitmentMismatch)
	}

	key := models.DeriveKey(commitment)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("%w: commitment not found", ErrNotFound)
	}

	if match.IsPlaceholder() {
		// A reveal without a player is just another way to cancel: the open
		// offer still exists and needs cleaning up alongside the match.
		if err := uow.OfferRepository().Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to delete offer: %w", err)
		}
		if err := uow.MatchRepository().Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to delete placeholder match: %w", err)
		}

		uow.EventBus().Publish(events.CommitmentCancelledEvent{
			Key:  key,
			Host: match.Host,
		})

		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &models.SettlementResult{Key: key, Host: match.Host}, nil
	}

	winQuantity := match.Pot() - feeUnit

	outcome := models.ParityOf(source)
	won := outcome == match.Guess

	var playerPayout, hostPayout int64
	var message string
	if won {
		playerPayout = winQuantity
		hostPayout = feeUnit
		message = "Win!"
	} else {
		playerPayout = feeUnit
		hostPayout = winQuantity
		message = "Lose"
	}

	if err := s.transfers.Pay(ctx, match.Player, playerPayout, message); err != nil {
		return nil, fmt.Errorf("failed to pay player: %w", err)
	}

	// The host credit bypasses the minimum checks: it may recreate an
	// account well below the deposit minimum.
	err = creditBalance(ctx, uow, match.Host, hostPayout, false, models.EntryTypeHostPayout, map[string]any{
		"commitment_key": key,
		"player":         match.Player,
		"player_won":     won,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to credit host: %w", err)
	}

	if err := uow.MatchRepository().Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to delete match: %w", err)
	}

	uow.EventBus().Publish(events.MatchSettledEvent{
		Key:          key,
		Host:         match.Host,
		Player:       match.Player,
		Bet:          match.Bet,
		PlayerWon:    won,
		PlayerPayout: playerPayout,
		HostPayout:   hostPayout,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.SettlementResult{
		Key:          key,
		Settled:      true,
		Player:       match.Player,
		Host:         match.Host,
		PlayerWon:    won,
		PlayerPayout: playerPayout,
		HostPayout:   hostPayout,
		Message:      message,
	}, nil
}
