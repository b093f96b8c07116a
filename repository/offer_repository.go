package repository

import (
	"context"
	"fmt"

	"dicehouse/database"
	"dicehouse/models"

	"github.com/jackc/pgx/v5"
)

// OfferRepository implements the service.OfferRepository interface
type OfferRepository struct {
	q queryable
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *database.DB) *OfferRepository {
	return &OfferRepository{q: db.Pool}
}

// newOfferRepositoryWithTx creates a new offer repository with a transaction
func newOfferRepositoryWithTx(tx queryable) *OfferRepository {
	return &OfferRepository{q: tx}
}

// Create inserts a new open offer
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	query := `
		INSERT INTO offers (key, host, hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, offer.Key, offer.Host, offer.Hash[:]).Scan(
		&offer.ID,
		&offer.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create offer %d: %w", offer.Key, err)
	}

	return nil
}

// GetByKey retrieves an offer by commitment key, or nil if none exists
func (r *OfferRepository) GetByKey(ctx context.Context, key int64) (*models.Offer, error) {
	query := `
		SELECT id, key, host, hash, created_at
		FROM offers
		WHERE key = $1
	`

	offer, err := scanOffer(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer %d: %w", key, err)
	}

	return offer, nil
}

// GetOldestByHost returns the host's earliest open offer, or nil
func (r *OfferRepository) GetOldestByHost(ctx context.Context, host string) (*models.Offer, error) {
	query := `
		SELECT id, key, host, hash, created_at
		FROM offers
		WHERE host = $1
		ORDER BY id ASC
		LIMIT 1
	`

	offer, err := scanOffer(r.q.QueryRow(ctx, query, host))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get oldest offer for host %s: %w", host, err)
	}

	return offer, nil
}

// GetAllByHost returns every open offer of a host, oldest first
func (r *OfferRepository) GetAllByHost(ctx context.Context, host string) ([]*models.Offer, error) {
	query := `
		SELECT id, key, host, hash, created_at
		FROM offers
		WHERE host = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get offers for host %s: %w", host, err)
	}
	defer rows.Close()

	var offers []*models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}

	return offers, nil
}

// Delete removes an offer by key
func (r *OfferRepository) Delete(ctx context.Context, key int64) error {
	query := `
		DELETE FROM offers
		WHERE key = $1
	`

	result, err := r.q.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete offer %d: %w", key, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("offer %d not found", key)
	}

	return nil
}

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var offer models.Offer
	var hash []byte

	err := row.Scan(
		&offer.ID,
		&offer.Key,
		&offer.Host,
		&hash,
		&offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	copy(offer.Hash[:], hash)
	return &offer, nil
}
