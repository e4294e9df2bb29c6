package parse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/db"
	"github.com/resumatch-io/resumatch/internal/domain"
)

type mockDequeuer struct {
	mu    sync.Mutex
	ids   []uuid.UUID
	taken []uuid.UUID
}

func (m *mockDequeuer) Dequeue(ctx context.Context, _ time.Duration) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ids) == 0 {
		// emulate a short BLPOP timeout so the loop can observe cancellation
		select {
		case <-ctx.Done():
			return uuid.Nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
			return uuid.Nil, db.ErrQueueEmpty
		}
	}
	id := m.ids[0]
	m.ids = m.ids[1:]
	m.taken = append(m.taken, id)
	return id, nil
}

func TestWorker_DrainsQueue(t *testing.T) {
	store := &mockResumeStore{resume: domain.Resume{FilePath: "/tmp/resume.pdf"}}
	svc := newTestService(store,
		&mockExtractor{text: "Python engineer."},
		&mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}})

	q := &mockDequeuer{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	w := NewWorker(svc, q, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	deadline := time.After(2 * time.Second)
	for {
		q.mu.Lock()
		done := len(q.taken) == 2
		q.mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("worker did not drain the queue in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	w.Wait()

	if store.saved == nil {
		t.Fatal("expected parses to persist")
	}
}

func TestNewWorker_MinimumOneWorker(t *testing.T) {
	w := NewWorker(nil, nil, 0, zap.NewNop())
	if w.workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", w.workers)
	}
}
