package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// maxUploadBytes caps multipart résumé uploads.
const maxUploadBytes = 10 << 20

// TailorRequest is the body of /tailor and /analyze. Multipart requests
// carry the same fields as form values plus a "resume" file.
type TailorRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Template       string `json:"template,omitempty" validate:"omitempty,max=64"`
	CandidateName  string `json:"candidate_name,omitempty" validate:"omitempty,max=200"`
}

// readTailorRequest accepts JSON or a multipart form with a résumé file.
func (s *Server) readTailorRequest(w http.ResponseWriter, r *http.Request) (*TailorRequest, error) {
	var req TailorRequest
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := s.decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid multipart form: " + err.Error()}
	}
	req = TailorRequest{
		ResumeText:     r.FormValue("resume_text"),
		JobDescription: r.FormValue("job_description"),
		JobURL:         r.FormValue("job_url"),
		Template:       r.FormValue("template"),
		CandidateName:  r.FormValue("candidate_name"),
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}

	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return &req, nil
	}
	if err != nil {
		return nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	text, _, err := ingestion.Ingest(header.Filename, data)
	if err != nil {
		return nil, err
	}
	req.ResumeText = text
	return &req, nil
}

func (s *Server) checkTailorInputs(req *TailorRequest) error {
	if s.llm == nil {
		return &ErrUnavailable{Feature: "language model"}
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return llm.ErrMissingResume
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		if req.JobURL == "" {
			return llm.ErrMissingJobDescription
		}
		if s.fetcher == nil {
			return &ErrUnavailable{Feature: "job URL fetching"}
		}
		if err := fetch.ValidateURL(req.JobURL); err != nil {
			return &ErrValidation{Field: "job_url", Message: err.Error()}
		}
	}
	return nil
}

// handleTailor rewrites the résumé for the job and renders the result.
// With ?format=pdf the first document is returned instead of JSON.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	req, err := s.readTailorRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkTailorInputs(req); err != nil {
		s.fail(w, r, err)
		return
	}

	runner := pipeline.NewRunner(s.llm, s.assembler, s.log,
		pipeline.WithFetcher(s.fetcher),
		pipeline.WithHistory(s.history),
	)
	result, err := runner.Run(r.Context(), pipeline.RunOptions{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
		Template:       req.Template,
		CandidateName:  req.CandidateName,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" && len(result.Documents) > 0 {
		doc := result.Documents[0]
		s.pdfResponse(w, doc.ID.String(), doc.Filename, doc.Template, doc.Pages, doc.Data)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyze streams a keyword analysis as server-sent events: "chunk"
// events carry text, "complete" the full analysis, "error" a failure.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.readTailorRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkTailorInputs(req); err != nil {
		s.fail(w, r, err)
		return
	}

	jobText, err := s.jobText(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis, err := llm.AnalyzeKeywords(r.Context(), s.llm, req.ResumeText, jobText, sse.WriteChunk)
	if err != nil {
		s.log.Warn("keyword analysis failed", zap.Error(err))
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(map[string]string{"analysis": analysis})
}

func (s *Server) jobText(ctx context.Context, req *TailorRequest) (string, error) {
	if text := strings.TrimSpace(req.JobDescription); text != "" {
		return text, nil
	}
	job, err := s.fetcher.JobDescription(ctx, req.JobURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	return job.Text, nil
}
