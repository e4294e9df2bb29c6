// Package match ranks active job postings against a parsed resume by
// blending embedding similarity with skill overlap.
package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/domain"
	"github.com/resumatch-io/resumatch/internal/metrics"
)

// Score blend: embedding similarity carries 70%, skill overlap 30%.
const (
	similarityWeight = 0.7
	skillWeight      = 0.3

	MinTopK = 1
	MaxTopK = 50
)

// Messages returned alongside an empty match list.
const (
	msgNotParsed    = "No matches found or resume not parsed yet"
	msgNeedsReparse = "resume embeddings are stale, re-parse required"
)

// Result is the outcome of one find-matches call. Message is set only
// when Matches is empty for a non-error reason.
type Result struct {
	Matches []domain.ScoredJob
	Message string
}

// Service computes and persists resume-to-job matches.
type Service struct {
	resumes  ResumeStore
	jobs     JobStore
	matches  MatchStore
	embedder Embedder
	model    string
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Service. timeout bounds one FindMatches call end to end;
// zero means unbounded.
func New(
	resumes ResumeStore,
	jobs JobStore,
	matches MatchStore,
	embedder Embedder,
	model string,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		resumes:  resumes,
		jobs:     jobs,
		matches:  matches,
		embedder: embedder,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// FindMatches ranks all active jobs for the resume and returns the top K.
// topK outside [1,50] is clamped, never rejected. A resume that is missing,
// unparsed, or embedded by a different model yields an empty result with a
// message rather than an error. Persistence failures are logged, not
// surfaced: ranking results are still valid without the write.
func (s *Service) FindMatches(ctx context.Context, resumeID uuid.UUID, topK int) (Result, error) {
	topK = clampTopK(topK)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rs, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		if errors.Is(err, domain.ErrResumeNotFound) {
			metrics.MatchRequestsTotal.WithLabelValues("not_ready").Inc()
			return Result{Message: msgNotParsed}, nil
		}
		metrics.MatchRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("get resume: %w", err)
	}
	if !rs.IsParsed {
		metrics.MatchRequestsTotal.WithLabelValues("not_ready").Inc()
		return Result{Message: msgNotParsed}, nil
	}
	if rs.EmbeddingModel != "" && rs.EmbeddingModel != s.model {
		metrics.MatchRequestsTotal.WithLabelValues("not_ready").Inc()
		return Result{Message: msgNeedsReparse}, nil
	}

	resumeVec := s.resumeVector(rs)
	resumeSkills := domain.ParseSkillSet(rs.ExtractedSkills)

	jobs, err := s.jobs.ListActive(ctx)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("list active jobs: %w", err)
	}

	scored := make([]domain.ScoredJob, 0, len(jobs))
	for i := range jobs {
		scored = append(scored, s.scoreJob(ctx, &jobs[i], resumeVec, resumeSkills))
	}

	// Stable sort keeps listing order among equal scores deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	for _, m := range scored {
		metrics.MatchScore.Observe(m.MatchScore)
	}

	s.persist(ctx, rs, scored)

	metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()
	return Result{Matches: scored}, nil
}

// ListStored returns the matches previously persisted for the resume,
// best score first. Recruiter status transitions made since the last
// re-match are visible here.
func (s *Service) ListStored(ctx context.Context, resumeID uuid.UUID) ([]domain.Match, error) {
	records, err := s.matches.ListForResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list matches for resume: %w", err)
	}
	return records, nil
}

// resumeVector decodes the stored embedding, falling back to a zero vector
// for missing or corrupt data. With a zero vector every similarity is 0 and
// ranking rests on skill overlap alone.
func (s *Service) resumeVector(rs domain.Resume) []float32 {
	vec, err := domain.DecodeVector(rs.EmbeddingVector)
	if err != nil {
		s.logger.Warn("corrupt resume embedding, using zero vector",
			zap.String("resume_id", rs.ID.String()),
			zap.Error(err))
		return domain.ZeroVector(domain.EmbeddingDimensions)
	}
	if len(vec) == 0 {
		return domain.ZeroVector(domain.EmbeddingDimensions)
	}
	return vec
}

func (s *Service) scoreJob(
	ctx context.Context, job *domain.Job,
	resumeVec []float32, resumeSkills domain.SkillSet,
) domain.ScoredJob {
	var similarity float64
	emb, err := s.embedder.Embed(ctx, job.Text())
	if err != nil {
		s.logger.Warn("job embedding failed, similarity set to 0",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	} else {
		similarity = domain.CosineSimilarity(resumeVec, emb.Embedding)
	}

	jobSkills := domain.ParseSkillSet(job.SkillsRequired)
	matching := resumeSkills.Intersect(jobSkills)
	gaps := jobSkills.Diff(resumeSkills)

	var skillRatio float64
	if len(jobSkills) > 0 {
		skillRatio = float64(len(matching)) / float64(len(jobSkills))
	}

	score := (similarity*similarityWeight + skillRatio*skillWeight) * 100

	return domain.ScoredJob{
		JobID:          job.ID,
		Title:          job.Title,
		MatchScore:     round2(score),
		MatchingSkills: matching.Join(),
		SkillGaps:      gaps.Join(),
		Recommendation: recommendation(score, len(matching), gaps),
	}
}

// recommendation tiers on the unrounded score so 79.996 does not round its
// way into the top tier.
func recommendation(score float64, matchingCount int, gaps domain.SkillSet) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("Excellent match! You have %d matching skills.", matchingCount)
	case score >= 60:
		var gapText string
		if len(gaps) > 0 {
			suggestions := gaps.Sorted()
			if len(suggestions) > 3 {
				suggestions = suggestions[:3]
			}
			gapText = "Consider improving: " + strings.Join(suggestions, ", ")
		}
		return "Good match with room for improvement. " + gapText
	default:
		return "Moderate match. Significant skill development needed."
	}
}

// persist upserts the returned matches. Recruiter status transitions are
// insert-only defaults and never overwritten by a re-match.
func (s *Service) persist(ctx context.Context, rs domain.Resume, scored []domain.ScoredJob) {
	if len(scored) == 0 {
		return
	}
	records := make([]domain.Match, 0, len(scored))
	for _, m := range scored {
		records = append(records, domain.Match{
			CandidateID:    rs.UserID,
			JobID:          m.JobID,
			ResumeID:       rs.ID,
			MatchScore:     m.MatchScore,
			MatchingSkills: m.MatchingSkills,
			SkillGaps:      m.SkillGaps,
			Recommendation: m.Recommendation,
			Status:         domain.StatusPending,
		})
	}
	if err := s.matches.UpsertBatch(ctx, records); err != nil {
		s.logger.Error("failed to persist matches",
			zap.String("resume_id", rs.ID.String()),
			zap.Error(err))
	}
}

func clampTopK(k int) int {
	if k < MinTopK {
		return MinTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
