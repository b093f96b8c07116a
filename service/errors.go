package service

import (
	"errors"
	"fmt"
)

// Protocol error kinds. Every failure aborts the whole triggering operation
// with no partial state change; callers retry with corrected input.
var (
	// ErrInvalidAsset rejects transfers denominated in anything but the
	// configured asset.
	ErrInvalidAsset = errors.New("unexpected asset")

	// ErrBelowMinimum rejects amounts under the minimum transfer or the
	// minimum account balance.
	ErrBelowMinimum = errors.New("minimum quantity not met")

	// ErrNoBankroll rejects commitments from hosts with no deposit balance.
	ErrNoBankroll = errors.New("bankroll is zero")

	// ErrReservedSource rejects the commitment whose key equals the
	// null-source sentinel: its secret is public knowledge.
	ErrReservedSource = errors.New("a zeroed-out source is not an acceptable commitment seed")

	// ErrDuplicateCommitment rejects a commitment whose key collides with a
	// live one.
	ErrDuplicateCommitment = errors.New("commitment already exists or was generated from a bad seed")

	// ErrNotFound reports a missing account, offer or match.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyInPlay rejects cancelling a commitment a player has taken.
	ErrAlreadyInPlay = errors.New("already in play")

	// ErrCommitmentMismatch rejects a reveal whose source does not hash to
	// the commitment.
	ErrCommitmentMismatch = errors.New("source does not hash to the commitment")

	// ErrOverdrawn rejects debits exceeding the current balance.
	ErrOverdrawn = errors.New("overdrawn balance")

	// ErrInvalidMemo rejects inbound transfers with an unrecognized memo.
	ErrInvalidMemo = errors.New("memo must be: 'odd', 'even' or 'deposit'")
)

// NoBetsAvailableError reports that no host had both sufficient bankroll and
// an open offer. MaxBet carries the largest currently fundable bet as
// advisory data for the caller's retry; it is zero when even the largest
// falls under the minimum transfer.
type NoBetsAvailableError struct {
	MaxBet int64
}

func (e *NoBetsAvailableError) Error() string {
	if e.MaxBet > 0 {
		return fmt.Sprintf("the current maximum bet is %d", e.MaxBet)
	}
	return "no bets available"
}
