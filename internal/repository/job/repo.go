// Package job reads job postings from Postgres. Postings are owned by the
// external web layer; the matching core only lists the active ones.
package job

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumatch-io/resumatch/internal/domain"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, pool *pgxpool.Pool) (*Repository, error) {
	r := &Repository{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure jobs schema: %w", err)
	}
	return r, nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	skills_required TEXT NOT NULL DEFAULT '',
	requirements TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`)
	return err
}

// ListActive returns all active postings in stable order. Ordering here is
// insertion order; it decides nothing about ranking but keeps score ties
// deterministic for the caller's stable sort.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, description, skills_required, requirements, is_active
FROM jobs WHERE is_active
ORDER BY created_at, id
`)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Description,
			&j.SkillsRequired, &j.Requirements, &j.IsActive); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
