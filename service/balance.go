package service

import (
	"context"
	"fmt"

	"dicehouse/config"
	"dicehouse/events"
	"dicehouse/models"
)

// creditBalance adds shells to an owner's bankroll inside the caller's unit
// of work, creating the account if none exists. Account creation is gated on
// the minimum balance when enforceMin is set; existing accounts are credited
// unconditionally.
func creditBalance(ctx context.Context, uow UnitOfWork, owner string, amount int64, enforceMin bool, entryType models.EntryType, metadata map[string]any) error {
	cfg := config.Get()

	account, err := uow.AccountRepository().GetByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	var before, after int64
	if account == nil {
		if enforceMin && amount < cfg.MinBalance {
			return fmt.Errorf("%w: deposit of %d does not meet the minimum balance of %d", ErrBelowMinimum, amount, cfg.MinBalance)
		}
		if _, err := uow.AccountRepository().Create(ctx, owner, amount); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		before, after = 0, amount
	} else {
		before, after = account.Balance, account.Balance+amount
		if err := uow.AccountRepository().UpdateBalance(ctx, owner, after); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	return recordLedgerEntry(ctx, uow, &models.LedgerEntry{
		Owner:         owner,
		BalanceBefore: before,
		BalanceAfter:  after,
		ChangeAmount:  amount,
		EntryType:     entryType,
		Metadata:      metadata,
	})
}

// debitBalance removes shells from an owner's bankroll inside the caller's
// unit of work. A debit down to exactly zero deletes the account and, with
// it, every offer the host still has open together with its mirrored
// placeholder match (emptying a bankroll implicitly cancels all untaken
// offers). A partial debit with enforceMin set must leave at least the
// minimum balance and move at least the minimum transfer.
func debitBalance(ctx context.Context, uow UnitOfWork, owner string, amount int64, enforceMin bool, entryType models.EntryType, metadata map[string]any) error {
	cfg := config.Get()

	account, err := uow.AccountRepository().GetByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("%w: no account object found", ErrNotFound)
	}
	if amount > account.Balance {
		return fmt.Errorf("%w: have %d, need %d", ErrOverdrawn, account.Balance, amount)
	}

	result := account.Balance - amount
	if result == 0 {
		if err := uow.AccountRepository().Delete(ctx, owner); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		if err := cancelOpenOffers(ctx, uow, owner); err != nil {
			return err
		}
	} else {
		if enforceMin {
			if result < cfg.MinBalance {
				return fmt.Errorf("%w: withdrawal must either empty the account or leave at least the minimum balance of %d", ErrBelowMinimum, cfg.MinBalance)
			}
			if amount < cfg.MinTransfer {
				return fmt.Errorf("%w: withdrawals below the minimum transfer of %d are only allowed when emptying the account", ErrBelowMinimum, cfg.MinTransfer)
			}
		}
		if err := uow.AccountRepository().UpdateBalance(ctx, owner, result); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	return recordLedgerEntry(ctx, uow, &models.LedgerEntry{
		Owner:         owner,
		BalanceBefore: account.Balance,
		BalanceAfter:  result,
		ChangeAmount:  -amount,
		EntryType:     entryType,
		Metadata:      metadata,
	})
}

// cancelOpenOffers deletes every open offer of a host plus its mirrored
// match. Any match that still has a corresponding offer is by definition a
// placeholder, so no in-play check is needed.
func cancelOpenOffers(ctx context.Context, uow UnitOfWork, host string) error {
	offers, err := uow.OfferRepository().GetAllByHost(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get open offers: %w", err)
	}

	for _, offer := range offers {
		if err := uow.MatchRepository().Delete(ctx, offer.Key); err != nil {
			return fmt.Errorf("failed to delete placeholder match %d: %w", offer.Key, err)
		}
		if err := uow.OfferRepository().Delete(ctx, offer.Key); err != nil {
			return fmt.Errorf("failed to delete offer %d: %w", offer.Key, err)
		}
		uow.EventBus().Publish(events.CommitmentCancelledEvent{
			Key:  offer.Key,
			Host: host,
		})
	}

	return nil
}

// recordLedgerEntry writes the audit entry for a balance change and emits
// the matching event. This is the single exit point for all bankroll
// mutations.
func recordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if err := uow.LedgerEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangedEvent{
		Owner:        entry.Owner,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		ChangeAmount: entry.ChangeAmount,
		EntryType:    entry.EntryType,
	})

	return nil
}
