package models

import (
	"time"
)

// Guess is a player's parity call on the host's secret source.
type Guess int16

const (
	GuessEven Guess = 0
	GuessOdd  Guess = 1

	// NullGuess marks a placeholder match that no player has taken yet.
	NullGuess Guess = 0x7F
)

// NoPlayer is the player value of a placeholder match.
const NoPlayer = ""

// Match tracks one commitment from publication to resolution. It is created
// in placeholder form at commit time, mirrored 1:1 with the Offer under the
// same key, because the inbound bet transfer cannot allocate storage on the
// player's behalf. The matching engine only fills an existing record in.
type Match struct {
	Key       int64          `db:"key"`
	Host      string         `db:"host"`
	Hash      CommitmentHash `db:"hash"`
	Guess     Guess          `db:"guess"`
	Player    string         `db:"player"`
	Bet       int64          `db:"bet"`
	Deadline  time.Time      `db:"deadline"`
	CreatedAt time.Time      `db:"created_at"`
}

// IsPlaceholder reports whether the match is still waiting for a player.
// A placeholder match always has a live Offer under the same key.
func (m *Match) IsPlaceholder() bool {
	return m.Guess == NullGuess
}

// IsExpired reports whether the reveal deadline has passed. Placeholder
// matches never expire; their deadline field is meaningless.
func (m *Match) IsExpired(now time.Time) bool {
	return !m.IsPlaceholder() && now.After(m.Deadline)
}

// Pot is the full amount at stake: the player's bet plus the host's stake.
func (m *Match) Pot() int64 {
	return 2 * m.Bet
}

// ParityOf extracts the outcome of a revealed source: the lowest bit of its
// last byte.
func ParityOf(source CommitmentHash) Guess {
	return Guess(source[len(source)-1] & 1)
}

// SettlementResult describes the outcome of a reveal.
type SettlementResult struct {
	Key          int64
	Settled      bool // false when the reveal only cleaned up an untaken offer
	Player       string
	Host         string
	PlayerWon    bool
	PlayerPayout int64
	HostPayout   int64
	Message      string
}

// CollectResult summarizes a timeout collection pass.
type CollectResult struct {
	Player    string
	Collected int
	TotalPaid int64
}
