package service

import (
	"context"
	"time"

	"dicehouse/events"
	"dicehouse/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByOwner(ctx context.Context, owner string) (*models.Account, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, owner string, balance int64) (*models.Account, error) {
	args := m.Called(ctx, owner, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, owner string, newBalance int64) error {
	args := m.Called(ctx, owner, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAllInCreationOrder(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockOfferRepository is a mock implementation of OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) GetByKey(ctx context.Context, key int64) (*models.Offer, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetOldestByHost(ctx context.Context, host string) (*models.Offer, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetAllByHost(ctx context.Context, host string) ([]*models.Offer, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Offer), args.Error(1)
}

func (m *MockOfferRepository) Delete(ctx context.Context, key int64) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByKey(ctx context.Context, key int64) (*models.Match, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) Fill(ctx context.Context, key int64, guess models.Guess, player string, bet int64, deadline time.Time) error {
	args := m.Called(ctx, key, guess, player, bet, deadline)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByPlayer(ctx context.Context, player string) ([]*models.Match, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) Delete(ctx context.Context, key int64) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByOwner(ctx context.Context, owner string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, owner, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockTransferClient is a mock implementation of TransferClient
type MockTransferClient struct {
	mock.Mock
}

func (m *MockTransferClient) Pay(ctx context.Context, to string, amount int64, memo string) error {
	args := m.Called(ctx, to, amount, memo)
	return args.Error(0)
}

// RecordingEventPublisher collects published events for assertions
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields so tests can wire the repository mocks they care about.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo     AccountRepository
	offerRepo       OfferRepository
	matchRepo       MatchRepository
	ledgerEntryRepo LedgerEntryRepository
	eventBus        *RecordingEventPublisher
}

// SetRepositories wires the repository mocks into the unit of work
func (m *MockUnitOfWork) SetRepositories(accounts AccountRepository, offers OfferRepository, matches MatchRepository, entries LedgerEntryRepository) {
	m.accountRepo = accounts
	m.offerRepo = offers
	m.matchRepo = matches
	m.ledgerEntryRepo = entries
	m.eventBus = &RecordingEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) OfferRepository() OfferRepository {
	return m.offerRepo
}

func (m *MockUnitOfWork) MatchRepository() MatchRepository {
	return m.matchRepo
}

func (m *MockUnitOfWork) LedgerEntryRepository() LedgerEntryRepository {
	return m.ledgerEntryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events captured by the unit of work's bus
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
