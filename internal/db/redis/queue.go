package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/resumatch-io/resumatch/internal/db"
)

// Push appends a value to the tail of a list-backed queue.
func (s *Store) Push(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Rpush().Key(key).Element(string(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

// Pop blocks up to timeout for the next queued value (BLPOP).
// Returns db.ErrQueueEmpty when the timeout elapses without a value.
func (s *Store) Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	cmd := s.b().Blpop().Key(key).Timeout(timeout.Seconds()).Build()
	vals, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrQueueEmpty
		}
		return nil, &db.Error{Op: db.OpBLPop, Err: err}
	}
	// BLPOP replies [key, value].
	if len(vals) < 2 {
		return nil, db.ErrQueueEmpty
	}
	return []byte(vals[1]), nil
}
