package models

import (
	"strings"
)

// Memo is the decoded intent of an inbound transfer's memo string.
type Memo int

const (
	MemoDeposit Memo = iota
	MemoBetEven
	MemoBetOdd
)

// ParseMemo decodes a transfer memo, case-insensitively. "deposit" funds a
// host bankroll; "odd"/"1" and "even"/"0" are parity bets. Anything else is
// refused, which must reject the whole inbound transfer.
func ParseMemo(s string) (Memo, bool) {
	switch strings.ToLower(s) {
	case "deposit":
		return MemoDeposit, true
	case "odd", "1":
		return MemoBetOdd, true
	case "even", "0":
		return MemoBetEven, true
	default:
		return 0, false
	}
}

// Guess returns the parity guess a bet memo encodes.
func (m Memo) Guess() (Guess, bool) {
	switch m {
	case MemoBetOdd:
		return GuessOdd, true
	case MemoBetEven:
		return GuessEven, true
	default:
		return 0, false
	}
}

// InboundTransfer is a notification from the external ledger transfer
// service that value moved into the protocol's custody.
type InboundTransfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}
