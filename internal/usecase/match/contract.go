package match

import (
	"context"

	"github.com/google/uuid"

	"github.com/resumatch-io/resumatch/internal/domain"
)

// ResumeStore reads the resume being matched.
type ResumeStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Resume, error)
}

// JobStore lists the postings that participate in matching.
type JobStore interface {
	ListActive(ctx context.Context) ([]domain.Job, error)
}

// MatchStore persists computed matches and serves them back.
type MatchStore interface {
	UpsertBatch(ctx context.Context, matches []domain.Match) error
	ListForResume(ctx context.Context, resumeID uuid.UUID) ([]domain.Match, error)
}

// Embedder vectorizes job text. Behind a cache in production wiring.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
