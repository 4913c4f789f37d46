package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict means the key was already used for a different estimate request.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")

// IdempotencyRecord ties a client-supplied Idempotency-Key to the estimate it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	EstimateID  int64
	CreatedAt   time.Time
}

// IdempotencyStore remembers which estimate a retried create request already produced.
type IdempotencyStore interface {
	// Get returns nil, nil for unknown keys.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save stores the record. An existing key with the same hash and estimate is
	// returned as is; any other existing record comes back with ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
