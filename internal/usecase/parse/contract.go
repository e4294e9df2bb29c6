package parse

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/resumatch-io/resumatch/internal/domain"
)

// ResumeStore is the storage contract for the parse flow.
type ResumeStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Resume, error)
	SaveParsed(ctx context.Context, rs domain.Resume) error
}

// TextExtractor converts a resume file into plain text. It never fails;
// unreadable files come back as "".
type TextExtractor interface {
	Text(path string) string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Dequeuer is the consuming side of the parse queue.
type Dequeuer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (uuid.UUID, error)
}
