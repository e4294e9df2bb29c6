package parse

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/db"
)

const dequeueBlock = 5 * time.Second

// Worker drains the parse queue. Each entry is parsed with the same
// Service the synchronous path uses, so async and sync parses are
// byte-for-byte identical in effect.
type Worker struct {
	service *Service
	queue   Dequeuer
	workers int
	logger  *zap.Logger

	wg sync.WaitGroup
}

func NewWorker(service *Service, queue Dequeuer, workers int, logger *zap.Logger) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		service: service,
		queue:   queue,
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker goroutines. They exit when ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run(ctx)
		}()
	}
}

// Wait blocks until all workers have exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		id, err := w.queue.Dequeue(ctx, dequeueBlock)
		if err != nil {
			if errors.Is(err, db.ErrQueueEmpty) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warn("parse queue dequeue failed", zap.Error(err))
			// backoff so a dead Redis does not spin the loop
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if _, err := w.service.Parse(ctx, id); err != nil {
			w.logger.Error("async resume parse failed",
				zap.String("resume_id", id.String()),
				zap.Error(err))
		}
	}
}
