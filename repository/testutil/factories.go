package testutil

import (
	"crypto/sha256"
	"time"

	"dicehouse/models"
)

// CommitmentFor builds a deterministic commitment from a seed byte.
func CommitmentFor(seed byte) models.CommitmentHash {
	var source models.CommitmentHash
	source[0] = seed
	return sha256.Sum256(source[:])
}

// CreateTestOffer creates an open offer with default values
func CreateTestOffer(host string, seed byte) *models.Offer {
	hash := CommitmentFor(seed)
	return &models.Offer{
		Key:  models.DeriveKey(hash),
		Host: host,
		Hash: hash,
	}
}

// CreateTestPlaceholderMatch mirrors an offer in placeholder form
func CreateTestPlaceholderMatch(offer *models.Offer) *models.Match {
	return &models.Match{
		Key:      offer.Key,
		Host:     offer.Host,
		Hash:     offer.Hash,
		Guess:    models.NullGuess,
		Player:   models.NoPlayer,
		Bet:      0,
		Deadline: time.Now(),
	}
}

// CreateTestLiveMatch creates a match already taken by a player
func CreateTestLiveMatch(host, player string, seed byte, bet int64, deadline time.Time) *models.Match {
	hash := CommitmentFor(seed)
	return &models.Match{
		Key:      models.DeriveKey(hash),
		Host:     host,
		Hash:     hash,
		Guess:    models.GuessOdd,
		Player:   player,
		Bet:      bet,
		Deadline: deadline,
	}
}

// CreateTestLedgerEntry creates a ledger entry with default values
func CreateTestLedgerEntry(owner string, entryType models.EntryType) *models.LedgerEntry {
	return &models.LedgerEntry{
		Owner:         owner,
		BalanceBefore: 500000,
		BalanceAfter:  499900,
		ChangeAmount:  -100,
		EntryType:     entryType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}
