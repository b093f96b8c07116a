package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// BeginSerializable opens a transaction at serializable isolation. Every
// protocol operation runs inside one of these: the correctness argument
// depends on whole-operation atomicity, not fine-grained locking.
func (db *DB) BeginSerializable(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
}
