// Package resume segments tailored résumé text into sections and entry blocks.
package resume

// SectionName is the canonical name of a résumé section.
type SectionName string

// Canonical section names. Aliases (PROFILE, WORK EXPERIENCE, ...) map onto these.
const (
	SectionHeader         SectionName = "HEADER"
	SectionSummary        SectionName = "SUMMARY"
	SectionExperience     SectionName = "EXPERIENCE"
	SectionEducation      SectionName = "EDUCATION"
	SectionSkills         SectionName = "SKILLS"
	SectionProjects       SectionName = "PROJECTS"
	SectionCertifications SectionName = "CERTIFICATIONS"
	SectionAwards         SectionName = "AWARDS"
)

// aliases maps every recognised heading (upper-cased) to its canonical section.
var aliases = map[string]SectionName{
	"SUMMARY":                 SectionSummary,
	"PROFILE":                 SectionSummary,
	"OBJECTIVE":               SectionSummary,
	"EXPERIENCE":              SectionExperience,
	"WORK EXPERIENCE":         SectionExperience,
	"PROFESSIONAL EXPERIENCE": SectionExperience,
	"EMPLOYMENT HISTORY":      SectionExperience,
	"EDUCATION":               SectionEducation,
	"SKILLS":                  SectionSkills,
	"PROJECTS":                SectionProjects,
	"CERTIFICATIONS":          SectionCertifications,
	"AWARDS":                  SectionAwards,
}

// BlockSections are the sections whose lines are grouped into entry blocks.
var BlockSections = []SectionName{SectionExperience, SectionProjects, SectionEducation}

// Section holds the lines that belong to one canonical section.
type Section struct {
	Name SectionName
	// Heading is the heading as it appeared in the text, upper-cased
	// (e.g. "PROFILE" for a SUMMARY section). Empty for an implicit HEADER.
	Heading string
	Lines   []string
}

// Label returns the text used when the section heading is drawn.
func (s *Section) Label() string {
	if s.Heading != "" {
		return s.Heading
	}
	return string(s.Name)
}

// Sections is an ordered mapping of canonical section name to its lines.
// At most one Section exists per canonical name.
type Sections struct {
	order  []SectionName
	byName map[SectionName]*Section
}

func newSections() *Sections {
	return &Sections{byName: make(map[SectionName]*Section)}
}

// open selects a section, creating it on first use. A repeated heading
// keeps the existing section so later lines are appended to it.
func (s *Sections) open(name SectionName, heading string) *Section {
	if sec, ok := s.byName[name]; ok {
		return sec
	}
	sec := &Section{Name: name, Heading: heading}
	s.byName[name] = sec
	s.order = append(s.order, name)
	return sec
}

// Get returns the section with the given canonical name.
func (s *Sections) Get(name SectionName) (*Section, bool) {
	sec, ok := s.byName[name]
	return sec, ok
}

// Lines returns the lines of a section, or nil if it is absent.
func (s *Sections) Lines(name SectionName) []string {
	if sec, ok := s.byName[name]; ok {
		return sec.Lines
	}
	return nil
}

// Has reports whether the section exists and holds at least one line.
func (s *Sections) Has(name SectionName) bool {
	return len(s.Lines(name)) > 0
}

// Names returns the section names in order of first appearance.
func (s *Sections) Names() []SectionName {
	out := make([]SectionName, len(s.order))
	copy(out, s.order)
	return out
}

// Ordered returns the sections in order of first appearance.
func (s *Sections) Ordered() []*Section {
	out := make([]*Section, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Map returns a copy of the sections keyed by canonical name.
func (s *Sections) Map() map[SectionName][]string {
	out := make(map[SectionName][]string, len(s.byName))
	for name, sec := range s.byName {
		lines := make([]string, len(sec.Lines))
		copy(lines, sec.Lines)
		out[name] = lines
	}
	return out
}

// LineCount returns the total number of content lines across all sections.
func (s *Sections) LineCount() int {
	n := 0
	for _, sec := range s.byName {
		n += len(sec.Lines)
	}
	return n
}
