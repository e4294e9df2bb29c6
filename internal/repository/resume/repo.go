// Package resume persists candidate resume records in Postgres.
package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumatch-io/resumatch/internal/domain"
)

// Repository stores resume records and their parsed derivatives.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, pool *pgxpool.Pool) (*Repository, error) {
	r := &Repository{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure resumes schema: %w", err)
	}
	return r, nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	file_path TEXT NOT NULL,
	parsed_text TEXT NOT NULL DEFAULT '',
	extracted_skills TEXT NOT NULL DEFAULT '',
	extracted_education TEXT NOT NULL DEFAULT '',
	extracted_experience TEXT NOT NULL DEFAULT '',
	embedding_vector TEXT NOT NULL DEFAULT '',
	embedding_model TEXT NOT NULL DEFAULT '',
	is_parsed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
-- backfill for older schemas
ALTER TABLE resumes ADD COLUMN IF NOT EXISTS embedding_model TEXT NOT NULL DEFAULT '';
`)
	return err
}

// Get returns the resume record by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Resume, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, file_path, parsed_text, extracted_skills,
	extracted_education, extracted_experience, embedding_vector,
	embedding_model, is_parsed
FROM resumes WHERE id = $1
`, id)

	var rs domain.Resume
	err := row.Scan(&rs.ID, &rs.UserID, &rs.FilePath, &rs.ParsedText,
		&rs.ExtractedSkills, &rs.ExtractedEducation, &rs.ExtractedExperience,
		&rs.EmbeddingVector, &rs.EmbeddingModel, &rs.IsParsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resume{}, domain.ErrResumeNotFound
		}
		return domain.Resume{}, fmt.Errorf("get resume %s: %w", id, err)
	}
	return rs, nil
}

// SaveParsed writes all parsed fields in a single statement so a reader
// never observes a half-parsed record.
func (r *Repository) SaveParsed(ctx context.Context, rs domain.Resume) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE resumes SET
	parsed_text = $2,
	extracted_skills = $3,
	extracted_education = $4,
	extracted_experience = $5,
	embedding_vector = $6,
	embedding_model = $7,
	is_parsed = TRUE,
	updated_at = now()
WHERE id = $1
`, rs.ID, rs.ParsedText, rs.ExtractedSkills, rs.ExtractedEducation,
		rs.ExtractedExperience, rs.EmbeddingVector, rs.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("save parsed resume %s: %w", rs.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResumeNotFound
	}
	return nil
}
