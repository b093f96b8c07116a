package models

import (
	"time"
)

// EntryType represents the kind of balance change behind a ledger entry.
type EntryType string

const (
	EntryTypeDeposit    EntryType = "deposit"
	EntryTypeWithdrawal EntryType = "withdrawal"
	EntryTypeBetDebit   EntryType = "bet_debit"
	EntryTypeHostPayout EntryType = "host_payout"
)

// LedgerEntry is the audit record written for every bankroll mutation.
type LedgerEntry struct {
	ID            int64          `db:"id"`
	Owner         string         `db:"owner"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	ChangeAmount  int64          `db:"change_amount"`
	EntryType     EntryType      `db:"entry_type"`
	Metadata      map[string]any `db:"metadata"`
	CreatedAt     time.Time      `db:"created_at"`
}
