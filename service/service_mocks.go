package service

import (
	"context"

	"dicehouse/models"

	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, owner string, amount int64) error {
	args := m.Called(ctx, owner, amount)
	return args.Error(0)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, to string, amount int64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

// MockCommitmentService is a mock implementation of CommitmentService
type MockCommitmentService struct {
	mock.Mock
}

func (m *MockCommitmentService) Commit(ctx context.Context, host string, commitment models.CommitmentHash) error {
	args := m.Called(ctx, host, commitment)
	return args.Error(0)
}

func (m *MockCommitmentService) CancelCommit(ctx context.Context, host string, commitment models.CommitmentHash) error {
	args := m.Called(ctx, host, commitment)
	return args.Error(0)
}

// MockMatchingService is a mock implementation of MatchingService
type MockMatchingService struct {
	mock.Mock
}

func (m *MockMatchingService) PlaceBet(ctx context.Context, player string, amount int64, guess models.Guess) (*models.Match, error) {
	args := m.Called(ctx, player, amount, guess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

// MockSettlementService is a mock implementation of SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Reveal(ctx context.Context, commitment, source models.CommitmentHash) (*models.SettlementResult, error) {
	args := m.Called(ctx, commitment, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

// MockCollectorService is a mock implementation of CollectorService
type MockCollectorService struct {
	mock.Mock
}

func (m *MockCollectorService) Collect(ctx context.Context, player string) (*models.CollectResult, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectResult), args.Error(1)
}

// MockTransferHandler is a mock implementation of TransferHandler
type MockTransferHandler struct {
	mock.Mock
}

func (m *MockTransferHandler) HandleTransfer(ctx context.Context, transfer models.InboundTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}
