package resume

import (
	"regexp"
	"strings"
)

// LineKind tags the role a line plays for the segmenter and block splitter.
type LineKind int

const (
	// Continuation lines belong to whatever section or block is open.
	Continuation LineKind = iota
	// Heading lines open a section and are not content themselves.
	Heading
	// BlockStart lines close the current entry block and open a new one.
	BlockStart
)

func (k LineKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case BlockStart:
		return "block-start"
	default:
		return "continuation"
	}
}

// Classification is the result of classifying a single trimmed line.
type Classification struct {
	Kind LineKind
	// Section, Label and Remainder are set for Heading lines only.
	Section   SectionName
	Label     string
	Remainder string
}

var (
	headingPattern = regexp.MustCompile(`(?i)^(WORK EXPERIENCE|PROFESSIONAL EXPERIENCE|EMPLOYMENT HISTORY|EXPERIENCE|EDUCATION|SKILLS|PROJECTS|CERTIFICATIONS|AWARDS|SUMMARY|PROFILE|OBJECTIVE):\s*(.*)$`)
	headerMarker   = regexp.MustCompile(`(?i)^HEADER:?$`)

	// Company • Location • MM/YYYY[ - MM/YYYY| - Present]
	jobTitlePattern = regexp.MustCompile(`(?i)^[\w\s.,&-]+ • [\w\s.,&-]+ • \d{2}/\d{4}(?: - \d{2}/\d{4}| - Present)?$`)
	// Program or institution name.
	educationTitlePattern = regexp.MustCompile(`(?i)^[A-Z0-9][\w\s.,&-]*?$`)
	// Project name with an optional parenthesised clause, e.g. "Tracker (Go, Postgres)".
	projectTitlePattern = regexp.MustCompile(`(?i)^[A-Z0-9][\w\s.,&-]*?(?: \([\w\s.,&\-]+\))?$`)
)

// ClassifyHeading reports whether line opens a section. The line must
// already be trimmed.
func ClassifyHeading(line string) Classification {
	if headerMarker.MatchString(line) {
		return Classification{Kind: Heading, Section: SectionHeader}
	}
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return Classification{Kind: Continuation}
	}
	label := strings.ToUpper(m[1])
	return Classification{
		Kind:      Heading,
		Section:   aliases[label],
		Label:     label,
		Remainder: strings.TrimSpace(m[2]),
	}
}

// ClassifyBlockLine reports whether line starts a new entry block within
// section. hasContent tells whether the block being accumulated already
// holds lines; the first line of a section never forces a new block.
func ClassifyBlockLine(section SectionName, line string, hasContent bool) Classification {
	if hasContent && isEntryTitle(section, line) {
		return Classification{Kind: BlockStart}
	}
	return Classification{Kind: Continuation}
}

func isEntryTitle(section SectionName, line string) bool {
	switch section {
	case SectionExperience:
		return jobTitlePattern.MatchString(line)
	case SectionEducation:
		return !IsBullet(line) && educationTitlePattern.MatchString(line)
	case SectionProjects:
		return !IsBullet(line) && projectTitlePattern.MatchString(line)
	default:
		return false
	}
}

// IsBullet reports whether line begins with a bullet marker (•, - or *).
func IsBullet(line string) bool {
	return strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

// StripBullet removes a leading bullet marker and surrounding space.
func StripBullet(line string) string {
	for _, marker := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return strings.TrimSpace(line)
}
