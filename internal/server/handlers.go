package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/resume"
	"github.com/jonathan/resume-tailor/internal/templates"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 2 << 20

// SegmentRequest represents the request body for /segment
type SegmentRequest struct {
	Text string `json:"text" validate:"required"`
}

// RenderRequest represents the request body for /render
type RenderRequest struct {
	Text          string `json:"text" validate:"required"`
	Template      string `json:"template,omitempty" validate:"omitempty,max=64"`
	CandidateName string `json:"candidate_name,omitempty" validate:"omitempty,max=200"`
}

// TemplatesResponse represents the response for /templates
type TemplatesResponse struct {
	Default   string                  `json:"default"`
	Templates []templates.StylePreset `json:"templates"`
}

// decodeJSON reads and validates a JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, TemplatesResponse{
		Default:   templates.DefaultTemplate,
		Templates: s.assembler.Registry().Presets(),
	})
}

// handleSegment returns the sections and entry blocks of résumé text.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req SegmentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume.Parse(req.Text).Outline())
}

// handleRender renders résumé text with one template and returns the PDF.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.assembler.Generate(r.Context(), pipeline.Request{
		Text:          req.Text,
		Template:      req.Template,
		CandidateName: req.CandidateName,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.pdfResponse(w, res.ID.String(), res.Filename, res.Template, res.Pages, res.Data)
}

func (s *Server) pdfResponse(w http.ResponseWriter, id, filename, template string, pages int, data []byte) {
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Generation-Id", id)
	h.Set("X-Template", template)
	if pages > 0 {
		h.Set("X-Page-Count", strconv.Itoa(pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
