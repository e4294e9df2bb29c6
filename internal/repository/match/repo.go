// Package match persists resume-to-job match results in Postgres.
package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumatch-io/resumatch/internal/domain"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, pool *pgxpool.Pool) (*Repository, error) {
	r := &Repository{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure matches schema: %w", err)
	}
	return r, nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS matches (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	candidate_id UUID NOT NULL,
	job_id UUID NOT NULL,
	resume_id UUID NOT NULL,
	match_score DOUBLE PRECISION NOT NULL,
	matching_skills TEXT NOT NULL DEFAULT '',
	skill_gaps TEXT NOT NULL DEFAULT '',
	recommendation TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (candidate_id, job_id, resume_id)
);
`)
	return err
}

// UpsertBatch writes match results in one round trip. Existing rows keep
// their status: re-matching refreshes scores, never recruiter decisions.
func (r *Repository) UpsertBatch(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(`
INSERT INTO matches (candidate_id, job_id, resume_id, match_score,
	matching_skills, skill_gaps, recommendation, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (candidate_id, job_id, resume_id) DO UPDATE SET
	match_score = EXCLUDED.match_score,
	matching_skills = EXCLUDED.matching_skills,
	skill_gaps = EXCLUDED.skill_gaps,
	recommendation = EXCLUDED.recommendation,
	updated_at = now()
`, m.CandidateID, m.JobID, m.ResumeID, m.MatchScore,
			m.MatchingSkills, m.SkillGaps, m.Recommendation, domain.StatusPending)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range matches {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert match: %w", err)
		}
	}
	return nil
}

// ListForResume returns the stored matches of one resume, best first.
func (r *Repository) ListForResume(ctx context.Context, resumeID uuid.UUID) ([]domain.Match, error) {
	rows, err := r.pool.Query(ctx, `
SELECT candidate_id, job_id, resume_id, match_score, matching_skills,
	skill_gaps, recommendation, status, created_at, updated_at
FROM matches WHERE resume_id = $1
ORDER BY match_score DESC
`, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list matches for resume %s: %w", resumeID, err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.CandidateID, &m.JobID, &m.ResumeID,
			&m.MatchScore, &m.MatchingSkills, &m.SkillGaps,
			&m.Recommendation, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}
