package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// CommitmentHash is the full sha256 commitment to a host's secret source.
type CommitmentHash [32]byte

// HashSource computes the commitment for a secret source.
func HashSource(source CommitmentHash) CommitmentHash {
	return sha256.Sum256(source[:])
}

// DeriveKey truncates a commitment to the 64-bit key that offers and matches
// are looked up by. Two live commitments must not share a key; a collision is
// rejected at commit time rather than overwritten.
func DeriveKey(hash CommitmentHash) int64 {
	return int64(binary.BigEndian.Uint64(hash[:8]))
}

// ZeroSourceKey is the key derived from hashing an all-zero secret source.
// Commitments with this key are refused: the matching secret is public
// knowledge, so anyone could reveal it and pick the outcome.
var ZeroSourceKey = DeriveKey(sha256.Sum256(make([]byte, 32)))

// ParseCommitmentHash decodes a hex-encoded 32-byte hash.
func ParseCommitmentHash(s string) (CommitmentHash, error) {
	var h CommitmentHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("hash must be %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h CommitmentHash) String() string {
	return hex.EncodeToString(h[:])
}

// Offer is a published commitment that no player has taken yet. Every offer
// has a mirrored placeholder Match under the same key.
type Offer struct {
	ID        int64          `db:"id"`
	Key       int64          `db:"key"`
	Host      string         `db:"host"`
	Hash      CommitmentHash `db:"hash"`
	CreatedAt time.Time      `db:"created_at"`
}
