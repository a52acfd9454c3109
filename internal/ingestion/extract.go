package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format is a supported résumé file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
)

var (
	xmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	paragraphEnd    = regexp.MustCompile(`</w:p>|<w:br/>|<w:br [^>]*/>`)
	tabElement      = regexp.MustCompile(`<w:tab/>|<w:tab [^>]*/>`)
	inlineSpaceRuns = regexp.MustCompile(`[ \t]+`)
)

// DetectFormat sniffs data and reports which supported format it holds.
// The filename extension is only consulted when sniffing is inconclusive.
func DetectFormat(filename string, data []byte) (Format, error) {
	mtype := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case isMIME(mtype, mimePDF):
		return FormatPDF, nil
	case isMIME(mtype, mimeDOCX):
		return FormatDOCX, nil
	case mtype.Is(mimeZip) && ext == ".docx":
		return FormatDOCX, nil
	case isMIME(mtype, mimeText):
		return FormatText, nil
	}
	return "", unsupported(mtype.String())
}

func isMIME(m *mimetype.MIME, want string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

// Extract reads the file at path and returns its cleaned text.
func Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", readFailure("", "failed to read file", err)
	}
	return ExtractBytes(filepath.Base(path), data)
}

// ExtractBytes returns the cleaned text of an uploaded file. An upload
// with no extractable text is an error.
func ExtractBytes(filename string, data []byte) (string, error) {
	text, _, err := extract(filename, data)
	return text, err
}

func extract(filename string, data []byte) (string, Format, error) {
	format, err := DetectFormat(filename, data)
	if err != nil {
		return "", "", err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = ExtractPDF(data)
	case FormatDOCX:
		raw, err = ExtractDOCX(data)
	default:
		raw = string(data)
	}
	if err != nil {
		return "", format, err
	}

	text := CleanText(raw)
	if text == "" {
		return "", format, noText(format)
	}
	return text, format, nil
}

// ExtractPDF returns the text of every page, one page per line group.
func ExtractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", readFailure(FormatPDF, "Failed to parse PDF. Please try a text-based PDF or convert to DOCX format.", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", readFailure(FormatPDF, "Failed to parse PDF. Please try a text-based PDF or convert to DOCX format.", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", readFailure(FormatPDF, fmt.Sprintf("failed to read page %d", i), err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ExtractDOCX returns the paragraph text of a Word document.
func ExtractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", readFailure(FormatDOCX, "Failed to parse Word document. Please try a different format.", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent()), nil
}

// documentXMLText flattens WordprocessingML into lines, one per paragraph.
func documentXMLText(xml string) string {
	xml = paragraphEnd.ReplaceAllString(xml, "\n")
	xml = tabElement.ReplaceAllString(xml, "\t")
	xml = xmlTagPattern.ReplaceAllString(xml, "")
	xml = html.UnescapeString(xml)

	lines := strings.Split(xml, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRuns.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
