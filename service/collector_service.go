package service

import (
	"context"
	"fmt"
	"time"

	"dicehouse/events"
	"dicehouse/models"
)

type collectorService struct {
	uowFactory UnitOfWorkFactory
	transfers  TransferClient
}

// NewCollectorService creates a new timeout collector service
func NewCollectorService(uowFactory UnitOfWorkFactory, transfers TransferClient) CollectorService {
	return &collectorService{
		uowFactory: uowFactory,
		transfers:  transfers,
	}
}

// Collect pays the player the full pot of every match naming them whose
// reveal deadline has passed, then deletes those matches. The host forfeits
// entirely; no fee is deducted on a timeout. Matches not yet expired are
// left untouched, and having none to collect is not an error.
func (s *collectorService) Collect(ctx context.Context, player string) (*models.CollectResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().GetByPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches for player: %w", err)
	}

	now := time.Now()
	result := &models.CollectResult{Player: player}

	for _, match := range matches {
		if !match.IsExpired(now) {
			continue
		}

		payout := match.Pot()
		if err := s.transfers.Pay(ctx, player, payout, "Win! (Timeout)"); err != nil {
			return nil, fmt.Errorf("failed to pay timeout win: %w", err)
		}

		if err := uow.MatchRepository().Delete(ctx, match.Key); err != nil {
			return nil, fmt.Errorf("failed to delete collected match %d: %w", match.Key, err)
		}

		uow.EventBus().Publish(events.MatchCollectedEvent{
			Key:    match.Key,
			Host:   match.Host,
			Player: player,
			Payout: payout,
		})

		result.Collected++
		result.TotalPaid += payout
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}
