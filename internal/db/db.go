package db

import (
	"context"
	"time"
)

// Store is the Redis-side facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	KVStore
	QueueStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// QueueStore provides list-backed FIFO queue operations.
type QueueStore interface {
	Push(ctx context.Context, key string, value []byte) error
	// Pop blocks up to timeout for the next value. Returns ErrQueueEmpty on timeout.
	Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error)
}
