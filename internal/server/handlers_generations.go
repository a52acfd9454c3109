package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
)

const maxListLimit = 200

// ListGenerationsResponse represents the response for /generations
type ListGenerationsResponse struct {
	Generations []db.Generation `json:"generations"`
	Count       int             `json:"count"`
}

func (s *Server) requireHistory(w http.ResponseWriter, r *http.Request) bool {
	if s.history == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "generation history"})
		return false
	}
	return true
}

func (s *Server) generationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w, r) {
		return
	}

	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	gens, err := s.history.ListGenerations(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if gens == nil {
		gens = []db.Generation{}
	}
	s.jsonResponse(w, http.StatusOK, ListGenerationsResponse{Generations: gens, Count: len(gens)})
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w, r) {
		return
	}
	id, ok := s.generationID(w, r)
	if !ok {
		return
	}

	gen, err := s.history.GetGeneration(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gen)
}

func (s *Server) handleGenerationPDF(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w, r) {
		return
	}
	id, ok := s.generationID(w, r)
	if !ok {
		return
	}

	gen, err := s.history.GetGeneration(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(gen.PDF) == 0 {
		s.errorResponse(w, http.StatusNotFound, "No PDF stored for this generation")
		return
	}
	s.pdfResponse(w, gen.ID.String(), gen.Filename, gen.Template, gen.Pages, gen.PDF)
}
