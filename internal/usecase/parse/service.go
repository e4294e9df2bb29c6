// Package parse implements the resume parsing pipeline: text extraction,
// feature derivation, embedding generation, and the single persistence
// write that flips is_parsed.
package parse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/domain"
	"github.com/resumatch-io/resumatch/internal/domain/feature"
	"github.com/resumatch-io/resumatch/internal/metrics"
)

// PlaceholderText substitutes for resumes whose file produced no text.
// The record still parses; downstream matching degrades gracefully.
const PlaceholderText = "Text extraction failed or empty file"

// Service runs the parse pipeline for one resume at a time.
// Parse is idempotent: re-running it on the same unchanged file converges
// to the same stored state, which makes at-least-once queue delivery safe.
type Service struct {
	resumes   ResumeStore
	extractor TextExtractor
	embedder  Embedder
	model     string
	timeout   time.Duration
	logger    *zap.Logger
}

func New(
	resumes ResumeStore,
	extractor TextExtractor,
	embedder Embedder,
	model string,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		resumes:   resumes,
		extractor: extractor,
		embedder:  embedder,
		model:     model,
		timeout:   timeout,
		logger:    logger,
	}
}

// Parse extracts, analyzes, and embeds the resume, then persists all
// derived fields in a single write. Extraction and embedding failures
// degrade into placeholder output instead of failing the operation; only
// a missing record or a failed write is an error.
func (s *Service) Parse(ctx context.Context, resumeID uuid.UUID) (domain.ParseResult, error) {
	rs, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		metrics.ParseTotal.WithLabelValues("error").Inc()
		return domain.ParseResult{}, fmt.Errorf("get resume: %w", err)
	}

	result := s.analyze(ctx, rs.FilePath)

	rs.ParsedText = result.Text
	rs.ExtractedSkills = strings.Join(result.Skills, ", ")
	rs.ExtractedEducation = result.Education
	rs.ExtractedExperience = result.Experience
	rs.EmbeddingVector = domain.EncodeVector(result.Embedding)
	rs.EmbeddingModel = s.model
	rs.IsParsed = true

	if err := s.resumes.SaveParsed(ctx, rs); err != nil {
		metrics.ParseTotal.WithLabelValues("error").Inc()
		return domain.ParseResult{}, fmt.Errorf("save parsed resume: %w", err)
	}

	status := "ok"
	if result.Note != "" {
		status = "degraded"
		s.logger.Warn("resume parsed with degradation",
			zap.String("resume_id", resumeID.String()),
			zap.String("note", result.Note))
	}
	metrics.ParseTotal.WithLabelValues(status).Inc()

	return result, nil
}

// analyze runs the non-persisting part of the pipeline.
func (s *Service) analyze(ctx context.Context, filePath string) domain.ParseResult {
	var result domain.ParseResult

	result.Text = s.extractor.Text(filePath)
	if strings.TrimSpace(result.Text) == "" {
		result.Text = PlaceholderText
		result.Note = "text extraction failed or empty file"
	}

	result.Skills = feature.Skills(result.Text)
	result.Education = feature.Education(result.Text)
	result.Experience = feature.Experience(result.Text)

	embCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		embCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	emb, err := s.embedder.Embed(embCtx, result.Text)
	if err != nil {
		s.logger.Warn("embedding generation failed", zap.Error(err))
		if result.Note != "" {
			result.Note += "; "
		}
		result.Note += "embedding generation failed"
		return result
	}
	result.Embedding = emb.Embedding
	return result
}
