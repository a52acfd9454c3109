package ingestion

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRuns       = regexp.MustCompile(`[ \t\f\v]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text while keeping its line structure:
// NFC composition, LF line endings, collapsed inner whitespace and at most
// one blank line between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFC.String(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := excessiveBlanks.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses runs of spaces inside it. Leading
// indentation is dropped since the segmenter ignores it.
func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u2007', '\u202f':
			return ' '
		case '\u200b', '\ufeff', '\u00ad':
			return -1
		}
		return r
	}, line)

	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return spaceRuns.ReplaceAllString(line, " ")
}

// IsBulletLine reports whether line starts with a list marker.
func IsBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"- ", "* ", "• ", "· ", "◦ ", "▪ "} {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// IngestFile extracts the text of the résumé at path together with
// metadata describing the upload.
func IngestFile(path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, readFailure("", "file not found", err)
		}
		return "", nil, readFailure("", "failed to read file", err)
	}
	return Ingest(filepath.Base(path), data)
}

// Ingest is IngestFile for an in-memory upload.
func Ingest(filename string, data []byte) (string, *Metadata, error) {
	text, format, err := extract(filename, data)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(text, filename, format), nil
}
