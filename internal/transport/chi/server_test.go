package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resumatch-io/resumatch/internal/domain"
	"github.com/resumatch-io/resumatch/internal/metrics"
	healthuc "github.com/resumatch-io/resumatch/internal/usecase/health"
	matchuc "github.com/resumatch-io/resumatch/internal/usecase/match"
	parseuc "github.com/resumatch-io/resumatch/internal/usecase/parse"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks wired through the real usecase services ---

type fakeResumeStore struct {
	resumes map[uuid.UUID]domain.Resume
}

func (f *fakeResumeStore) Get(_ context.Context, id uuid.UUID) (domain.Resume, error) {
	rs, ok := f.resumes[id]
	if !ok {
		return domain.Resume{}, domain.ErrResumeNotFound
	}
	return rs, nil
}

func (f *fakeResumeStore) SaveParsed(_ context.Context, rs domain.Resume) error {
	if _, ok := f.resumes[rs.ID]; !ok {
		return domain.ErrResumeNotFound
	}
	f.resumes[rs.ID] = rs
	return nil
}

type fakeExtractor struct{ text string }

func (f *fakeExtractor) Text(_ string) string { return f.text }

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

type fakeJobStore struct{ jobs []domain.Job }

func (f *fakeJobStore) ListActive(_ context.Context) ([]domain.Job, error) { return f.jobs, nil }

type fakeMatchStore struct{ saved []domain.Match }

func (f *fakeMatchStore) UpsertBatch(_ context.Context, m []domain.Match) error {
	f.saved = append(f.saved, m...)
	return nil
}

func (f *fakeMatchStore) ListForResume(_ context.Context, resumeID uuid.UUID) ([]domain.Match, error) {
	var out []domain.Match
	for _, m := range f.saved {
		if m.ResumeID == resumeID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeEnqueuer struct{ ids []uuid.UUID }

func (f *fakeEnqueuer) Enqueue(_ context.Context, id uuid.UUID) error {
	f.ids = append(f.ids, id)
	return nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

const testModel = "all-MiniLM-L6-v2"

type testEnv struct {
	resumes *fakeResumeStore
	matches *fakeMatchStore
	queue   *fakeEnqueuer
	router  *chi.Mux
}

func newTestEnv(t *testing.T, jobs []domain.Job, dbErr error) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	resumes := &fakeResumeStore{resumes: make(map[uuid.UUID]domain.Resume)}
	matches := &fakeMatchStore{}
	queue := &fakeEnqueuer{}

	parser := parseuc.New(resumes, &fakeExtractor{text: "Python developer. Bachelor degree."},
		&fakeEmbedder{}, testModel, time.Second, logger)
	matcher := matchuc.New(resumes, &fakeJobStore{jobs: jobs}, matches, &fakeEmbedder{}, testModel, time.Minute, logger)
	health := healthuc.New(&fakePinger{err: dbErr}, nil, nil)

	srv := NewServer(parser, matcher, queue, health, 10, logger)
	r := chi.NewRouter()
	srv.Register(r)

	return &testEnv{resumes: resumes, matches: matches, queue: queue, router: r}
}

func (e *testEnv) addResume(parsed bool) uuid.UUID {
	id := uuid.New()
	rs := domain.Resume{
		ID:       id,
		UserID:   uuid.New(),
		FilePath: "/tmp/resume.pdf",
	}
	if parsed {
		rs.ExtractedSkills = "python"
		rs.EmbeddingVector = domain.EncodeVector([]float32{1, 0})
		rs.EmbeddingModel = testModel
		rs.IsParsed = true
	}
	e.resumes.resumes[id] = rs
	return id
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestParseResume_Sync(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	id := env.addResume(false)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/parse", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != "success" || resp.ResumeID != id {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.ParsedData == nil || len(resp.ParsedData.Skills) == 0 {
		t.Errorf("expected parsed data with skills, got %+v", resp.ParsedData)
	}

	if !env.resumes.resumes[id].IsParsed {
		t.Error("expected resume marked parsed")
	}
}

func TestParseResume_Async(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	id := env.addResume(false)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/parse", `{"async":true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.queue.ids) != 1 || env.queue.ids[0] != id {
		t.Errorf("expected id enqueued, got %v", env.queue.ids)
	}
	if env.resumes.resumes[id].IsParsed {
		t.Error("async request must not parse inline")
	}
}

func TestParseResume_UnknownResume(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+uuid.NewString()+"/parse", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != "resume_not_found" {
		t.Errorf("unexpected error code: %q", resp.Code)
	}
}

func TestParseResume_BadID(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/api/v1/resumes/not-a-uuid/parse", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseResume_MalformedBody(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	id := env.addResume(false)
	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/parse", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFindMatches_OK(t *testing.T) {
	jobs := []domain.Job{{
		ID:             uuid.New(),
		Title:          "Backend Engineer",
		SkillsRequired: "python",
		IsActive:       true,
	}}
	env := newTestEnv(t, jobs, nil)
	id := env.addResume(true)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/matches", `{"top_k":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != "success" || len(resp.Matches) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	m := resp.Matches[0]
	if m.Title != "Backend Engineer" || m.MatchScore != 100.0 {
		t.Errorf("unexpected match: %+v", m)
	}
	if len(env.matches.saved) != 1 {
		t.Errorf("expected match persisted, got %d", len(env.matches.saved))
	}
}

func TestFindMatches_DefaultTopK(t *testing.T) {
	var jobs []domain.Job
	for i := 0; i < 15; i++ {
		jobs = append(jobs, domain.Job{
			ID:             uuid.New(),
			Title:          "j",
			SkillsRequired: "python",
			IsActive:       true,
		})
	}
	env := newTestEnv(t, jobs, nil)
	id := env.addResume(true)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Matches) != 10 {
		t.Errorf("expected default top 10, got %d", len(resp.Matches))
	}
}

func TestFindMatches_ExplicitZeroTopK(t *testing.T) {
	var jobs []domain.Job
	for i := 0; i < 3; i++ {
		jobs = append(jobs, domain.Job{
			ID:             uuid.New(),
			Title:          "j",
			SkillsRequired: "python",
			IsActive:       true,
		})
	}
	env := newTestEnv(t, jobs, nil)
	id := env.addResume(true)

	// An explicit 0 clamps to 1; only an absent field gets the default.
	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/matches", `{"top_k":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Matches) != 1 {
		t.Errorf("expected 1 match for explicit top_k=0, got %d", len(resp.Matches))
	}
}

func TestListMatches_ReturnsStoredRecords(t *testing.T) {
	jobs := []domain.Job{{
		ID:             uuid.New(),
		Title:          "Backend Engineer",
		SkillsRequired: "python",
		IsActive:       true,
	}}
	env := newTestEnv(t, jobs, nil)
	id := env.addResume(true)

	// Ranking persists; the GET surface serves what was stored.
	if rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/matches", ""); rec.Code != http.StatusOK {
		t.Fatalf("ranking failed: %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/resumes/"+id.String()+"/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp storedMatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Count != 1 || len(resp.Matches) != 1 {
		t.Fatalf("expected 1 stored match, got %+v", resp)
	}
	m := resp.Matches[0]
	if m.JobID != jobs[0].ID || m.Status != domain.StatusPending {
		t.Errorf("unexpected stored match: %+v", m)
	}
}

func TestListMatches_EmptyForUnmatchedResume(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	id := env.addResume(true)

	rec := env.do(t, http.MethodGet, "/api/v1/resumes/"+id.String()+"/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp storedMatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Count != 0 || len(resp.Matches) != 0 {
		t.Errorf("expected empty stored list, got %+v", resp)
	}
}

func TestFindMatches_NotParsed(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	id := env.addResume(false)

	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+id.String()+"/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Matches) != 0 {
		t.Errorf("expected no matches, got %d", len(resp.Matches))
	}
	if resp.Message == "" {
		t.Error("expected explanatory message")
	}
}

func TestFindMatches_UnknownResume(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/api/v1/resumes/"+uuid.NewString()+"/matches", "")
	// Missing resume is a soft outcome for matching, mirroring the empty
	// result contract rather than a 404.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Matches) != 0 || resp.Message == "" {
		t.Errorf("expected empty result with message, got %+v", resp)
	}
}

func TestHealth_OK(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealth_Degraded(t *testing.T) {
	env := newTestEnv(t, nil, context.DeadlineExceeded)
	rec := env.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
