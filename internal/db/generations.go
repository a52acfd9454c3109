package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultListLimit caps ListGenerations when no limit is given.
const DefaultListLimit = 50

// Generation is a stored résumé generation.
type Generation struct {
	ID           uuid.UUID `json:"id"`
	Template     string    `json:"template"`
	Filename     string    `json:"filename"`
	Pages        int       `json:"pages"`
	Candidate    string    `json:"candidate,omitempty"`
	ResumeHash   string    `json:"resume_hash,omitempty"`
	TailoredText string    `json:"tailored_text,omitempty"`
	Location     string    `json:"location,omitempty"`
	PDF          []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaveGeneration inserts g, or replaces the row with the same id. A zero
// CreatedAt is filled by the database.
func (db *DB) SaveGeneration(ctx context.Context, g *Generation) error {
	if g.ID == uuid.Nil {
		return fmt.Errorf("generation id is required")
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO generations (id, template, filename, pages, candidate, resume_hash, tailored_text, location, pdf)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   template = $2, filename = $3, pages = $4, candidate = $5, resume_hash = $6,
		   tailored_text = $7, location = $8, pdf = $9
		 RETURNING created_at`,
		g.ID, g.Template, g.Filename, g.Pages, g.Candidate, g.ResumeHash, g.TailoredText, g.Location, g.PDF,
	).Scan(&g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save generation: %w", err)
	}
	return nil
}

// GetGeneration returns the generation with id, including its PDF bytes.
func (db *DB) GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error) {
	var g Generation
	err := db.pool.QueryRow(ctx,
		`SELECT id, template, filename, pages, candidate, resume_hash, tailored_text, location, pdf, created_at
		 FROM generations WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Template, &g.Filename, &g.Pages, &g.Candidate, &g.ResumeHash,
		&g.TailoredText, &g.Location, &g.PDF, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return &g, nil
}

// ListGenerations returns the newest generations first, without text or
// PDF bytes.
func (db *DB) ListGenerations(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, template, filename, pages, candidate, resume_hash, location, created_at
		 FROM generations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.ID, &g.Template, &g.Filename, &g.Pages, &g.Candidate,
			&g.ResumeHash, &g.Location, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return out, nil
}

// DeleteGeneration removes the generation with id.
func (db *DB) DeleteGeneration(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM generations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
