package repository

import (
	"context"
	"testing"
	"time"

	"dicehouse/events"
	"dicehouse/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeCommitmentPublished, func(ctx context.Context, e events.Event) {
		received <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().Create(ctx, "hosta", 500000)
	require.NoError(t, err)
	uow.EventBus().Publish(events.CommitmentPublishedEvent{Key: 42, Host: "hosta"})

	// Nothing is visible outside the transaction before commit.
	outside := NewAccountRepository(testDB.DB)
	account, err := outside.GetByOwner(ctx, "hosta")
	require.NoError(t, err)
	assert.Nil(t, account)

	require.NoError(t, uow.Commit())

	account, err = outside.GetByOwner(ctx, "hosta")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, int64(500000), account.Balance)

	select {
	case e := <-received:
		event, ok := e.(events.CommitmentPublishedEvent)
		assert.True(t, ok)
		assert.Equal(t, int64(42), event.Key)
	case <-time.After(time.Second):
		t.Fatal("event was not flushed on commit")
	}
}

func TestUnitOfWork_RollbackDiscardsWorkAndEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeCommitmentPublished, func(ctx context.Context, e events.Event) {
		received <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().Create(ctx, "hosta", 500000)
	require.NoError(t, err)
	uow.EventBus().Publish(events.CommitmentPublishedEvent{Key: 42, Host: "hosta"})

	require.NoError(t, uow.Rollback())

	outside := NewAccountRepository(testDB.DB)
	account, err := outside.GetByOwner(ctx, "hosta")
	require.NoError(t, err)
	assert.Nil(t, account)

	select {
	case <-received:
		t.Fatal("event leaked from a rolled back transaction")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnitOfWork_RollbackAfterCommitIsHarmless(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().Create(ctx, "hosta", 500000)
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	// The deferred rollback in every service runs after commit; it must not
	// disturb the committed work.
	require.NoError(t, uow.Rollback())

	outside := NewAccountRepository(testDB.DB)
	account, err := outside.GetByOwner(ctx, "hosta")
	require.NoError(t, err)
	require.NotNil(t, account)
}

func TestUnitOfWork_RepositoriesPanicBeforeBegin(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	uow := factory.Create()

	assert.Panics(t, func() { uow.AccountRepository() })
	assert.Panics(t, func() { uow.MatchRepository() })
}
