package repository

import (
	"context"
	"testing"
	"time"

	"dicehouse/models"
	"dicehouse/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRepository_CreateAndGetByKey(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	t.Run("match not found", func(t *testing.T) {
		match, err := repo.GetByKey(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("placeholder round trip", func(t *testing.T) {
		offer := testutil.CreateTestOffer("hosta", 1)
		created := testutil.CreateTestPlaceholderMatch(offer)
		require.NoError(t, repo.Create(ctx, created))

		match, err := repo.GetByKey(ctx, offer.Key)
		require.NoError(t, err)
		require.NotNil(t, match)

		assert.Equal(t, offer.Key, match.Key)
		assert.Equal(t, "hosta", match.Host)
		assert.Equal(t, offer.Hash, match.Hash)
		assert.True(t, match.IsPlaceholder())
		assert.Equal(t, models.NoPlayer, match.Player)
		assert.Equal(t, int64(0), match.Bet)
	})
}

func TestMatchRepository_Fill(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	t.Run("fills a placeholder once", func(t *testing.T) {
		offer := testutil.CreateTestOffer("hosta", 2)
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPlaceholderMatch(offer)))

		deadline := time.Now().Add(5 * time.Minute)
		err := repo.Fill(ctx, offer.Key, models.GuessOdd, "playerb", 100, deadline)
		require.NoError(t, err)

		match, err := repo.GetByKey(ctx, offer.Key)
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.False(t, match.IsPlaceholder())
		assert.Equal(t, models.GuessOdd, match.Guess)
		assert.Equal(t, "playerb", match.Player)
		assert.Equal(t, int64(100), match.Bet)
		assert.WithinDuration(t, deadline, match.Deadline, time.Second)

		// A second bet must not overwrite a live match.
		err = repo.Fill(ctx, offer.Key, models.GuessEven, "playerc", 200, deadline)
		assert.Error(t, err)

		match, err = repo.GetByKey(ctx, offer.Key)
		require.NoError(t, err)
		assert.Equal(t, "playerb", match.Player)
	})

	t.Run("missing match", func(t *testing.T) {
		err := repo.Fill(ctx, 424242, models.GuessOdd, "playerb", 100, time.Now())
		assert.Error(t, err)
	})
}

func TestMatchRepository_GetByPlayer(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	deadline := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestLiveMatch("hosta", "playerb", 3, 100, deadline)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestLiveMatch("hostb", "playerb", 4, 250, deadline)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestLiveMatch("hosta", "playerc", 5, 100, deadline)))

	matches, err := repo.GetByPlayer(ctx, "playerb")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = repo.GetByPlayer(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchRepository_Delete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		match := testutil.CreateTestLiveMatch("hosta", "playerb", 6, 100, time.Now())
		require.NoError(t, repo.Create(ctx, match))

		err := repo.Delete(ctx, match.Key)
		require.NoError(t, err)

		got, err := repo.GetByKey(ctx, match.Key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing match", func(t *testing.T) {
		err := repo.Delete(ctx, 424242)
		assert.Error(t, err)
	})
}
