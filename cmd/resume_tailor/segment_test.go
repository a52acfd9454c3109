package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-tailor/internal/resume"
)

func sectionNames(outline resume.Outline) []resume.SectionName {
	var names []resume.SectionName
	for _, s := range outline.Sections {
		names = append(names, s.Name)
	}
	return names
}

func TestSegmentCommand_JSONFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", sampleResume)

	out, err := execute(t, "", "segment", path, "--format", "json")
	require.NoError(t, err)

	var outline resume.Outline
	require.NoError(t, json.Unmarshal([]byte(out), &outline))
	assert.Equal(t, []resume.SectionName{
		resume.SectionHeader, resume.SectionSummary, resume.SectionExperience,
		resume.SectionSkills, resume.SectionEducation,
	}, sectionNames(outline))
}

func TestSegmentCommand_YAMLFromStdin(t *testing.T) {
	out, err := execute(t, sampleResume, "segment", "--format", "yaml")
	require.NoError(t, err)

	var outline resume.Outline
	require.NoError(t, yaml.Unmarshal([]byte(out), &outline))
	require.NotEmpty(t, outline.Sections)
	assert.Equal(t, resume.SectionHeader, outline.Sections[0].Name)
	assert.Contains(t, outline.Sections[0].Lines, "Jane Doe")
}

func TestSegmentCommand_Text(t *testing.T) {
	out, err := execute(t, sampleResume, "segment", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "SEGMENTED SECTIONS")
	assert.Contains(t, out, "EXPERIENCE")
}

func TestSegmentCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "segment", filepath.Join(t.TempDir(), "missing.txt"), "--format", "json")
	assert.Error(t, err)

	_, err = execute(t, sampleResume, "segment", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestWriteOutline_EmptyOutline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutline(&buf, resume.Parse("").Outline(), "json"))
	assert.JSONEq(t, `{"sections": []}`, buf.String())
}
