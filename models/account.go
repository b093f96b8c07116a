package models

import (
	"time"
)

// Account is a host's bankroll. A row exists iff the balance is positive;
// the account is deleted the instant its balance reaches exactly zero.
type Account struct {
	ID        int64     `db:"id"`
	Owner     string    `db:"owner"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}

// MaxBet returns the largest bet this bankroll can cover under the
// bet-to-bankroll ratio cap.
func (a *Account) MaxBet(ratio int64) int64 {
	return a.Balance / ratio
}

// CanCover reports whether a bet of the given amount fits under the ratio cap.
func (a *Account) CanCover(amount, ratio int64) bool {
	return a.MaxBet(ratio) >= amount
}
