package repository

import (
	"context"
	"fmt"
	"time"

	"dicehouse/database"
	"dicehouse/models"

	"github.com/jackc/pgx/v5"
)

// MatchRepository implements the service.MatchRepository interface
type MatchRepository struct {
	q queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepositoryWithTx creates a new match repository with a transaction
func newMatchRepositoryWithTx(tx queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

// Create inserts a match record
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (key, host, hash, guess, player, bet, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		match.Key,
		match.Host,
		match.Hash[:],
		match.Guess,
		match.Player,
		match.Bet,
		match.Deadline,
	).Scan(&match.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create match %d: %w", match.Key, err)
	}

	return nil
}

// GetByKey retrieves a match by commitment key, or nil if none exists
func (r *MatchRepository) GetByKey(ctx context.Context, key int64) (*models.Match, error) {
	query := `
		SELECT key, host, hash, guess, player, bet, deadline, created_at
		FROM matches
		WHERE key = $1
	`

	match, err := scanMatch(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", key, err)
	}

	return match, nil
}

// Fill turns a placeholder into a live match. The guard on the current guess
// value keeps a filled match from ever being overwritten by a second bet.
func (r *MatchRepository) Fill(ctx context.Context, key int64, guess models.Guess, player string, bet int64, deadline time.Time) error {
	query := `
		UPDATE matches
		SET guess = $1, player = $2, bet = $3, deadline = $4
		WHERE key = $5 AND guess = $6
	`

	result, err := r.q.Exec(ctx, query, guess, player, bet, deadline, key, models.NullGuess)
	if err != nil {
		return fmt.Errorf("failed to fill match %d: %w", key, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %d is missing or already filled", key)
	}

	return nil
}

// GetByPlayer returns all matches naming the player
func (r *MatchRepository) GetByPlayer(ctx context.Context, player string) ([]*models.Match, error) {
	query := `
		SELECT key, host, hash, guess, player, bet, deadline, created_at
		FROM matches
		WHERE player = $1
	`

	rows, err := r.q.Query(ctx, query, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches for player %s: %w", player, err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}

// Delete removes a match by key
func (r *MatchRepository) Delete(ctx context.Context, key int64) error {
	query := `
		DELETE FROM matches
		WHERE key = $1
	`

	result, err := r.q.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", key, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %d not found", key)
	}

	return nil
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var match models.Match
	var hash []byte

	err := row.Scan(
		&match.Key,
		&match.Host,
		&hash,
		&match.Guess,
		&match.Player,
		&match.Bet,
		&match.Deadline,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	copy(match.Hash[:], hash)
	return &match, nil
}
