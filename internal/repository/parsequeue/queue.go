// Package parsequeue is a durable FIFO of resume ids awaiting parsing,
// backed by a Redis list. Delivery is at-least-once; the parse operation
// is idempotent, so a redelivered id just re-parses the same resume.
package parsequeue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resumatch-io/resumatch/internal/db"
)

// Queue enqueues and dequeues resume ids.
type Queue struct {
	store db.QueueStore
	key   string
}

func New(store db.QueueStore, keyPrefix string) *Queue {
	return &Queue{
		store: store,
		key:   keyPrefix + "parse_queue",
	}
}

// Enqueue appends a resume id to the tail of the queue.
func (q *Queue) Enqueue(ctx context.Context, resumeID uuid.UUID) error {
	if err := q.store.Push(ctx, q.key, []byte(resumeID.String())); err != nil {
		return fmt.Errorf("enqueue resume %s: %w", resumeID, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next resume id.
// Returns db.ErrQueueEmpty when nothing arrived in time.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (uuid.UUID, error) {
	data, err := q.store.Pop(ctx, q.key, timeout)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(string(data))
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed queue entry %q: %w", data, err)
	}
	return id, nil
}
