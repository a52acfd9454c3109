package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Artifact is a finished document ready to be stored.
type Artifact struct {
	ID       uuid.UUID
	Filename string
	Owner    string
	Data     []byte
}

// Exporter stores a finished document and returns where it went.
type Exporter interface {
	Export(ctx context.Context, a Artifact) (string, error)
}

// Remover is implemented by exporters that can delete what they exported.
type Remover interface {
	Remove(ctx context.Context, a Artifact) error
}

// FileExporter writes documents into a directory. Files are written to a
// temporary name and renamed, so a failed write never leaves a partial PDF.
type FileExporter struct {
	Dir string
}

// NewFileExporter creates the directory if needed.
func NewFileExporter(dir string) (*FileExporter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ExportError{Message: fmt.Sprintf("failed to create output directory %s", dir), Cause: err}
	}
	return &FileExporter{Dir: dir}, nil
}

func (e *FileExporter) Export(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if a.Filename == "" || filepath.Base(a.Filename) != a.Filename {
		return "", &ExportError{Message: fmt.Sprintf("invalid filename %q", a.Filename)}
	}

	tmp, err := os.CreateTemp(e.Dir, ".resume-*.pdf.tmp")
	if err != nil {
		return "", &ExportError{Message: "failed to create temporary file", Cause: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", &ExportError{Message: "failed to write document", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &ExportError{Message: "failed to close document", Cause: err}
	}

	dest := filepath.Join(e.Dir, a.Filename)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", &ExportError{Message: fmt.Sprintf("failed to move document to %s", dest), Cause: err}
	}
	return dest, nil
}

// Remove deletes the exported file. A missing file is not an error.
func (e *FileExporter) Remove(_ context.Context, a Artifact) error {
	err := os.Remove(filepath.Join(e.Dir, filepath.Base(a.Filename)))
	if err != nil && !os.IsNotExist(err) {
		return &ExportError{Message: fmt.Sprintf("failed to remove %s", a.Filename), Cause: err}
	}
	return nil
}

// MultiExporter exports to every exporter in turn and returns the first
// location. When one fails, the exports already made are removed through
// Remover where the exporter supports it.
type MultiExporter []Exporter

func (m MultiExporter) Export(ctx context.Context, a Artifact) (string, error) {
	var first string
	for i, e := range m {
		loc, err := e.Export(ctx, a)
		if err != nil {
			return "", multierr.Append(err, m[:i].remove(context.WithoutCancel(ctx), a))
		}
		if i == 0 {
			first = loc
		}
	}
	return first, nil
}

func (m MultiExporter) remove(ctx context.Context, a Artifact) error {
	var errs error
	for _, e := range m {
		if r, ok := e.(Remover); ok {
			errs = multierr.Append(errs, r.Remove(ctx, a))
		}
	}
	return errs
}
