package repository

import (
	"context"
	"fmt"

	"dicehouse/database"
	"dicehouse/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByOwner retrieves an account by owner, or nil if none exists
func (r *AccountRepository) GetByOwner(ctx context.Context, owner string) (*models.Account, error) {
	query := `
		SELECT id, owner, balance, created_at
		FROM accounts
		WHERE owner = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, owner).Scan(
		&account.ID,
		&account.Owner,
		&account.Balance,
		&account.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for %s: %w", owner, err)
	}

	return &account, nil
}

// Create creates an account seeded with the given balance
func (r *AccountRepository) Create(ctx context.Context, owner string, balance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (owner, balance)
		VALUES ($1, $2)
		RETURNING id, owner, balance, created_at
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, owner, balance).Scan(
		&account.ID,
		&account.Owner,
		&account.Balance,
		&account.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create account for %s: %w", owner, err)
	}

	return &account, nil
}

// UpdateBalance sets an account's balance to a new positive value
func (r *AccountRepository) UpdateBalance(ctx context.Context, owner string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE owner = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, owner)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", owner, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for %s not found", owner)
	}

	return nil
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, owner string) error {
	query := `
		DELETE FROM accounts
		WHERE owner = $1
	`

	result, err := r.q.Exec(ctx, query, owner)
	if err != nil {
		return fmt.Errorf("failed to delete account for %s: %w", owner, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for %s not found", owner)
	}

	return nil
}

// GetAllInCreationOrder returns every account, oldest first
func (r *AccountRepository) GetAllInCreationOrder(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, owner, balance, created_at
		FROM accounts
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.Owner,
			&account.Balance,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
