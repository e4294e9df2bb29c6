// Package chi exposes the parsing and matching pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/domain"
	healthuc "github.com/resumatch-io/resumatch/internal/usecase/health"
	matchuc "github.com/resumatch-io/resumatch/internal/usecase/match"
	parseuc "github.com/resumatch-io/resumatch/internal/usecase/parse"
)

// Enqueuer is the producing side of the parse queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, resumeID uuid.UUID) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	parser        *parseuc.Service
	matcher       *matchuc.Service
	queue         Enqueuer // nil when async parsing is disabled
	health        *healthuc.Service
	defaultTopK   int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. queue may be nil; async parse
// requests are then rejected.
func NewServer(
	parser *parseuc.Service,
	matcher *matchuc.Service,
	queue Enqueuer,
	health *healthuc.Service,
	defaultTopK int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		parser:      parser,
		matcher:     matcher,
		queue:       queue,
		health:      health,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrResumeNotFound, http.StatusNotFound, "resume_not_found"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"),
	}
	return s
}

// Register mounts all routes onto the router. Middlewares are applied by
// the caller before registration.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1/resumes/{resumeID}", func(r chi.Router) {
		r.Post("/parse", s.ParseResume)
		r.Post("/matches", s.FindMatches)
		r.Get("/matches", s.ListMatches)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type parseRequest struct {
	Async bool `json:"async"`
}

type parsedData struct {
	Text               string   `json:"text"`
	Skills             []string `json:"skills"`
	Education          string   `json:"education"`
	Experience         string   `json:"experience"`
	EmbeddingGenerated bool     `json:"embedding_generated"`
	Note               string   `json:"note,omitempty"`
}

type parseResponse struct {
	Status     string      `json:"status"`
	ResumeID   uuid.UUID   `json:"resume_id"`
	ParsedData *parsedData `json:"parsed_data,omitempty"`
}

// ParseResume handles POST /api/v1/resumes/{resumeID}/parse.
// An empty body means a synchronous parse.
func (s *Server) ParseResume(w http.ResponseWriter, r *http.Request) {
	resumeID, ok := s.resumeID(w, r)
	if !ok {
		return
	}

	var req parseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if req.Async {
		if s.queue == nil {
			writeError(w, http.StatusBadRequest, "async_disabled", "Async parsing is not enabled")
			return
		}
		if err := s.queue.Enqueue(r.Context(), resumeID); err != nil {
			s.logger.Error("failed to enqueue parse task", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "queue_unavailable", "Failed to enqueue parse task")
			return
		}
		writeJSON(w, http.StatusAccepted, parseResponse{Status: "queued", ResumeID: resumeID})
		return
	}

	result, err := s.parser.Parse(r.Context(), resumeID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Status:   "success",
		ResumeID: resumeID,
		ParsedData: &parsedData{
			Text:               result.Text,
			Skills:             result.Skills,
			Education:          result.Education,
			Experience:         result.Experience,
			EmbeddingGenerated: result.Embedding != nil,
			Note:               result.Note,
		},
	})
}

// matchRequest distinguishes an absent top_k from an explicit zero. The
// default applies only when the field is missing; an explicit 0 is clamped
// by the matcher.
type matchRequest struct {
	TopK *int `json:"top_k"`
}

type matchItem struct {
	JobID          uuid.UUID `json:"job_id"`
	Title          string    `json:"title"`
	MatchScore     float64   `json:"match_score"`
	MatchingSkills string    `json:"matching_skills"`
	SkillGaps      string    `json:"skill_gaps"`
	Recommendation string    `json:"recommendation"`
}

type matchResponse struct {
	Status   string      `json:"status"`
	ResumeID uuid.UUID   `json:"resume_id"`
	Matches  []matchItem `json:"matches"`
	Message  string      `json:"message,omitempty"`
}

// FindMatches handles POST /api/v1/resumes/{resumeID}/matches.
func (s *Server) FindMatches(w http.ResponseWriter, r *http.Request) {
	resumeID, ok := s.resumeID(w, r)
	if !ok {
		return
	}

	var req matchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	result, err := s.matcher.FindMatches(r.Context(), resumeID, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]matchItem, len(result.Matches))
	for i, m := range result.Matches {
		items[i] = matchItem{
			JobID:          m.JobID,
			Title:          m.Title,
			MatchScore:     m.MatchScore,
			MatchingSkills: m.MatchingSkills,
			SkillGaps:      m.SkillGaps,
			Recommendation: m.Recommendation,
		}
	}

	writeJSON(w, http.StatusOK, matchResponse{
		Status:   "success",
		ResumeID: resumeID,
		Matches:  items,
		Message:  result.Message,
	})
}

type storedMatchItem struct {
	JobID          uuid.UUID `json:"job_id"`
	MatchScore     float64   `json:"match_score"`
	MatchingSkills string    `json:"matching_skills"`
	SkillGaps      string    `json:"skill_gaps"`
	Recommendation string    `json:"recommendation"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type storedMatchResponse struct {
	Status   string            `json:"status"`
	ResumeID uuid.UUID         `json:"resume_id"`
	Count    int               `json:"count"`
	Matches  []storedMatchItem `json:"matches"`
}

// ListMatches handles GET /api/v1/resumes/{resumeID}/matches. It serves
// the persisted matches of the last ranking run, including recruiter
// status, without recomputing anything.
func (s *Server) ListMatches(w http.ResponseWriter, r *http.Request) {
	resumeID, ok := s.resumeID(w, r)
	if !ok {
		return
	}

	records, err := s.matcher.ListStored(r.Context(), resumeID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]storedMatchItem, len(records))
	for i, m := range records {
		items[i] = storedMatchItem{
			JobID:          m.JobID,
			MatchScore:     m.MatchScore,
			MatchingSkills: m.MatchingSkills,
			SkillGaps:      m.SkillGaps,
			Recommendation: m.Recommendation,
			Status:         m.Status,
			UpdatedAt:      m.UpdatedAt,
		}
	}

	writeJSON(w, http.StatusOK, storedMatchResponse{
		Status:   "success",
		ResumeID: resumeID,
		Count:    len(items),
		Matches:  items,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) resumeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "resumeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid resume id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody tolerates an absent body; malformed JSON is an error.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrResumeNotFound,
		domain.ErrResumeNotParsed,
		domain.ErrEmbeddingProviderError,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
