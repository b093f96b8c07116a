package service

import (
	"context"
	"fmt"

	"dicehouse/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	transfers  TransferClient
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, transfers TransferClient) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		transfers:  transfers,
	}
}

// Deposit credits a bankroll from a verified inbound transfer. Opening a new
// account requires the minimum balance; topping up an existing one does not.
func (s *ledgerService) Deposit(ctx context.Context, owner string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("must deposit a positive quantity")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := creditBalance(ctx, uow, owner, amount, true, models.EntryTypeDeposit, nil); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Withdraw debits the owner's bankroll and pays them through the external
// transfer service. Either the account is emptied, or the remainder must
// meet the minimum balance and the amount the minimum transfer. The payout
// and the debit succeed or fail together.
func (s *ledgerService) Withdraw(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("must withdraw a positive quantity")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := debitBalance(ctx, uow, to, amount, true, models.EntryTypeWithdrawal, nil); err != nil {
		return err
	}

	if err := s.transfers.Pay(ctx, to, amount, ""); err != nil {
		return fmt.Errorf("failed to pay withdrawal: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
