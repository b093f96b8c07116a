package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dicehouse/database"
	"dicehouse/models"
)

// LedgerEntryRepository implements the service.LedgerEntryRepository interface
type LedgerEntryRepository struct {
	q queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository with a transaction
func newLedgerEntryRepositoryWithTx(tx queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Record creates a new ledger entry
func (r *LedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries
		(owner, balance_before, balance_after, change_amount, entry_type, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.Owner,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.ChangeAmount,
		entry.EntryType,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for %s: %w", entry.Owner, err)
	}

	return nil
}

// GetByOwner returns the most recent entries for an owner
func (r *LedgerEntryRepository) GetByOwner(ctx context.Context, owner string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, owner, balance_before, balance_after, change_amount, entry_type, metadata, created_at
		FROM ledger_entries
		WHERE owner = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for %s: %w", owner, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var metadataJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.Owner,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.ChangeAmount,
			&entry.EntryType,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entry metadata: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
