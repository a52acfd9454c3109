package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/templates"
)

func TestRenderCommand_WritesPDF(t *testing.T) {
	t.Setenv("RESUME_TAILOR_S3_BUCKET", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "resume.txt", sampleResume)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "", "render", path, "--template", templates.Classic, "--out", outDir, "--name", "Jane Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "GENERATED DOCUMENTS")

	data, err := os.ReadFile(filepath.Join(outDir, pipeline.Filename(templates.Classic)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderCommand_AllTemplates(t *testing.T) {
	t.Setenv("RESUME_TAILOR_S3_BUCKET", "")
	outDir := t.TempDir()

	_, err := execute(t, sampleResume, "render", "--template", "all", "--out", outDir, "--name", "")
	require.NoError(t, err)

	for _, name := range templates.Default().Names() {
		assert.FileExists(t, filepath.Join(outDir, pipeline.Filename(name)))
	}
}

func TestRenderCommand_EmptyResume(t *testing.T) {
	_, err := execute(t, "   \n", "render", "--template", templates.Modern, "--out", t.TempDir(), "--name", "")
	assert.Error(t, err)
}
