package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/resume"
)

const sampleResume = `Jane Doe
jane@example.com
SUMMARY:
Backend engineer.
EXPERIENCE:
Senior Engineer
Acme Corp • Remote • 01/2020 - Present
• Built a billing platform in Go
SKILLS:
Go, PostgreSQL`

type fakeLLM struct {
	response string
	chunks   []string
	err      error
}

func (f *fakeLLM) GenerateContent(context.Context, llm.Request) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) StreamContent(_ context.Context, _ llm.Request, onChunk func(string) error) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	var sb strings.Builder
	for _, c := range f.chunks {
		sb.WriteString(c)
		if err := onChunk(c); err != nil {
			return sb.String(), err
		}
	}
	return sb.String(), nil
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

type memStore struct {
	mu   sync.Mutex
	gens map[uuid.UUID]*db.Generation
	err  error
}

func newMemStore() *memStore {
	return &memStore{gens: make(map[uuid.UUID]*db.Generation)}
}

func (m *memStore) SaveGeneration(_ context.Context, g *db.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[g.ID] = g
	return nil
}

func (m *memStore) GetGeneration(_ context.Context, id uuid.UUID) (*db.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gens[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return g, nil
}

func (m *memStore) ListGenerations(_ context.Context, limit int) ([]db.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []db.Generation
	for _, g := range m.gens {
		if len(out) == limit {
			break
		}
		out = append(out, *g)
	}
	return out, nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	log := zaptest.NewLogger(t)
	s := New(Config{Port: 0, RateLimit: 1000, RateBurst: 1000}, pipeline.NewAssembler(nil, log), log, opts...)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestTemplates(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Default   string `json:"default"`
		Templates []struct {
			Name      string `json:"name"`
			TwoColumn bool   `json:"two_column"`
			Colors    struct {
				Primary string `json:"primary"`
			} `json:"colors"`
		} `json:"templates"`
	}
	decodeBody(t, rec, &body)

	assert.Equal(t, "modern", body.Default)
	var names []string
	for _, tpl := range body.Templates {
		names = append(names, tpl.Name)
		assert.True(t, strings.HasPrefix(tpl.Colors.Primary, "#"))
		assert.Equal(t, tpl.Name == "modern-sidebar", tpl.TwoColumn)
	}
	assert.Equal(t, []string{"classic", "executive", "modern", "modern-sidebar"}, names)
}

func TestSegment(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/segment", SegmentRequest{Text: sampleResume})
	require.Equal(t, http.StatusOK, rec.Code)

	var out resume.Outline
	decodeBody(t, rec, &out)
	var names []resume.SectionName
	for _, s := range out.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []resume.SectionName{
		resume.SectionHeader, resume.SectionSummary, resume.SectionExperience, resume.SectionSkills,
	}, names)
	assert.Len(t, out.Sections[2].Blocks, 1)
}

func TestSegment_BadRequests(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/segment", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "invalid JSON")

	rec = do(t, s, http.MethodPost, "/segment", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Text")
}

func TestRender(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/render", RenderRequest{Text: sampleResume, Template: "executive"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Professional_Resume_executive.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "executive", rec.Header().Get("X-Template"))
	assert.Equal(t, "1", rec.Header().Get("X-Page-Count"))
	_, err := uuid.Parse(rec.Header().Get("X-Generation-Id"))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestRender_UnknownTemplateFallsBack(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/render", RenderRequest{Text: sampleResume, Template: "neon"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "modern", rec.Header().Get("X-Template"))
}

func TestRender_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/render", RenderRequest{Text: "  \n "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, pipeline.ErrEmptyResume.Error(), errorMessage(t, rec))

	rec = do(t, s, http.MethodPost, "/render", RenderRequest{Text: "x", Template: strings.Repeat("t", 65)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTailor(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, WithLLM(&fakeLLM{response: sampleResume}), WithHistory(store))

	rec := do(t, s, http.MethodPost, "/tailor", TailorRequest{
		ResumeText:     "Jane Doe\nEngineer",
		JobDescription: "Go engineer",
		Template:       "classic",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result pipeline.RunResult
	decodeBody(t, rec, &result)
	assert.Equal(t, sampleResume, result.TailoredText)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "classic", result.Documents[0].Template)

	saved, err := store.GetGeneration(context.Background(), result.Documents[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.PDF)
}

func TestTailor_PDFFormat(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{response: sampleResume}))

	rec := do(t, s, http.MethodPost, "/tailor?format=pdf", TailorRequest{ResumeText: "Jane", JobDescription: "Go"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestTailor_Validation(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{response: sampleResume}))

	tests := []struct {
		name    string
		req     TailorRequest
		status  int
		message string
	}{
		{"missing resume", TailorRequest{JobDescription: "Go"}, http.StatusBadRequest, llm.ErrMissingResume.Error()},
		{"missing job", TailorRequest{ResumeText: "Jane"}, http.StatusBadRequest, llm.ErrMissingJobDescription.Error()},
		{"bad job url", TailorRequest{ResumeText: "Jane", JobURL: "not a url"}, http.StatusBadRequest, "JobURL"},
		{"job url without fetcher", TailorRequest{ResumeText: "Jane", JobURL: "https://example.com/job"}, http.StatusServiceUnavailable, "job URL fetching"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/tailor", tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.message)
		})
	}
}

func TestTailor_NoLLM(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/tailor", TailorRequest{ResumeText: "Jane", JobDescription: "Go"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "language model is not configured on this server", errorMessage(t, rec))
}

func TestTailor_ModelFailureIsHidden(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{err: errors.New("quota exceeded for key AIza...")}))
	rec := do(t, s, http.MethodPost, "/tailor", TailorRequest{ResumeText: "Jane", JobDescription: "Go"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}

func multipartRequest(t *testing.T, path string, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTailor_MultipartUpload(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{response: sampleResume}))
	req := multipartRequest(t, "/tailor", map[string]string{"job_description": "Go engineer"},
		"resume.txt", []byte("Jane Doe\r\nEngineer at Acme\r\n"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result pipeline.RunResult
	decodeBody(t, rec, &result)
	assert.Equal(t, "txt", string(result.Resume.Format))
}

func TestTailor_UnsupportedUpload(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{response: sampleResume}))
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	req := multipartRequest(t, "/tailor", map[string]string{"job_description": "Go"}, "photo.png", png)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Unsupported file type")
}

func TestAnalyze_Streams(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{chunks: []string{"Matched: Go", ", SQL"}}))

	rec := do(t, s, http.MethodPost, "/analyze", TailorRequest{ResumeText: "Jane", JobDescription: "Go"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: chunk\n"))
	assert.Contains(t, body, `data: {"text":"Matched: Go"}`)
	assert.Contains(t, body, "event: complete\ndata: {\"analysis\":\"Matched: Go, SQL\"}\n\n")
}

func TestAnalyze_StreamError(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{err: errors.New("stream broke")}))

	rec := do(t, s, http.MethodPost, "/analyze", TailorRequest{ResumeText: "Jane", JobDescription: "Go"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error\n")
	assert.Contains(t, rec.Body.String(), "stream broke")
}

func TestAnalyze_ValidatesBeforeStreaming(t *testing.T) {
	s := newTestServer(t, WithLLM(&fakeLLM{}))
	rec := do(t, s, http.MethodPost, "/analyze", TailorRequest{JobDescription: "Go"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestGenerations(t *testing.T) {
	store := newMemStore()
	gen := &db.Generation{ID: uuid.New(), Template: "classic", Filename: "Professional_Resume_classic.pdf", Pages: 1, PDF: []byte("%PDF-1.3")}
	noPDF := &db.Generation{ID: uuid.New(), Template: "modern"}
	require.NoError(t, store.SaveGeneration(context.Background(), gen))
	require.NoError(t, store.SaveGeneration(context.Background(), noPDF))
	s := newTestServer(t, WithHistory(store))

	rec := do(t, s, http.MethodGet, "/generations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListGenerationsResponse
	decodeBody(t, rec, &list)
	assert.Equal(t, 2, list.Count)

	rec = do(t, s, http.MethodGet, "/generations?limit=1", nil)
	decodeBody(t, rec, &list)
	assert.Equal(t, 1, list.Count)

	rec = do(t, s, http.MethodGet, "/generations/"+gen.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "PDF")
	var got db.Generation
	decodeBody(t, rec, &got)
	assert.Equal(t, gen.ID, got.ID)

	rec = do(t, s, http.MethodGet, "/generations/"+gen.ID.String()+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = do(t, s, http.MethodGet, "/generations/"+noPDF.ID.String()+"/pdf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerations_Errors(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, WithHistory(store))

	tests := []struct {
		path   string
		status int
	}{
		{"/generations/not-a-uuid", http.StatusBadRequest},
		{"/generations/" + uuid.NewString(), http.StatusNotFound},
		{"/generations/" + uuid.NewString() + "/pdf", http.StatusNotFound},
		{"/generations?limit=0", http.StatusBadRequest},
		{"/generations?limit=abc", http.StatusBadRequest},
		{"/generations?limit=201", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, s, http.MethodGet, tt.path, nil).Code)
		})
	}

	store.err = errors.New("connection reset")
	rec := do(t, s, http.MethodGet, "/generations", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}

func TestGenerations_NoHistory(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/generations", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	log := zaptest.NewLogger(t)
	s := New(Config{RateLimit: 0.01, RateBurst: 1}, pipeline.NewAssembler(nil, log), log)
	t.Cleanup(s.Close)

	rec := do(t, s, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(t, s, http.MethodGet, "/templates", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("Retry-After"))

	// Health checks are never limited
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodOptions, "/render", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ErrValidation{Field: "text", Message: "required"}, http.StatusBadRequest},
		{llm.ErrMissingResume, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", llm.ErrMissingJobDescription), http.StatusBadRequest},
		{pipeline.ErrEmptyResume, http.StatusUnprocessableEntity},
		{db.ErrNotFound, http.StatusNotFound},
		{&ErrUnavailable{Feature: "x"}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
}
