package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalFixture = "HEADER\nJane Doe\njane@x.com\nSUMMARY:\nLed teams.\nEXPERIENCE:\nAcme • Remote • 01/2020 - Present\nEngineer\n• Shipped X"

func TestSegment_CanonicalFixture(t *testing.T) {
	sections := Segment(canonicalFixture)

	assert.Equal(t, map[SectionName][]string{
		SectionHeader:     {"Jane Doe", "jane@x.com"},
		SectionSummary:    {"Led teams."},
		SectionExperience: {"Acme • Remote • 01/2020 - Present", "Engineer", "• Shipped X"},
	}, sections.Map())
	assert.Equal(t, []SectionName{SectionHeader, SectionSummary, SectionExperience}, sections.Names())
}

func TestSegment_NoHeadingsPutsEverythingInHeader(t *testing.T) {
	text := "Jane Doe\n\n  jane@x.com  \nSenior engineer with ten years\n\n\nGo, SQL"

	sections := Segment(text)

	assert.Equal(t, []SectionName{SectionHeader}, sections.Names())
	assert.Equal(t, []string{"Jane Doe", "jane@x.com", "Senior engineer with ten years", "Go, SQL"},
		sections.Lines(SectionHeader))
}

func TestSegment_EveryNonBlankLineAssignedOnce(t *testing.T) {
	text := strings.Join([]string{
		"Jane Doe",
		"",
		"Profile:",
		"Builder of things",
		"Skills:",
		"Go",
		"   ",
		"Education:",
		"BSc Physics",
		"MIT, 2012",
		"Awards:",
		"Hackathon winner",
	}, "\n")

	sections := Segment(text)

	var all []string
	for _, sec := range sections.Ordered() {
		for _, line := range sec.Lines {
			assert.NotEmpty(t, strings.TrimSpace(line), "blank line leaked into %s", sec.Name)
			all = append(all, line)
		}
	}
	assert.ElementsMatch(t, []string{"Jane Doe", "Builder of things", "Go", "BSc Physics", "MIT, 2012", "Hackathon winner"}, all)
}

func TestSegment_AliasesMapToCanonicalNames(t *testing.T) {
	tests := []struct {
		heading string
		want    SectionName
	}{
		{"SUMMARY:", SectionSummary},
		{"profile:", SectionSummary},
		{"Objective:", SectionSummary},
		{"Work Experience:", SectionExperience},
		{"PROFESSIONAL EXPERIENCE:", SectionExperience},
		{"Employment History:", SectionExperience},
		{"Projects:", SectionProjects},
		{"CERTIFICATIONS:", SectionCertifications},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			sections := Segment(tt.heading + "\ncontent")

			sec, ok := sections.Get(tt.want)
			require.True(t, ok)
			assert.Equal(t, []string{"content"}, sec.Lines)
			assert.Equal(t, strings.ToUpper(strings.TrimSuffix(tt.heading, ":")), sec.Heading)
		})
	}
}

func TestSegment_HeadingRequiresColonAtLineStart(t *testing.T) {
	sections := Segment("Skills\nMy skills: Go\nI list EXPERIENCE: here")

	assert.Equal(t, []SectionName{SectionHeader}, sections.Names())
	assert.Len(t, sections.Lines(SectionHeader), 3)
}

func TestSegment_InlineHeadingTextIsKept(t *testing.T) {
	sections := Segment("SKILLS: Go, SQL\nKubernetes")

	assert.Equal(t, []string{"Go, SQL", "Kubernetes"}, sections.Lines(SectionSkills))
	assert.False(t, sections.Has(SectionHeader))
}

func TestSegment_DuplicateHeadingAppends(t *testing.T) {
	text := "EXPERIENCE:\nFirst • Remote • 01/2020\nEDUCATION:\nBSc\nEXPERIENCE:\nSecond • Remote • 01/2021"

	sections := Segment(text)

	assert.Equal(t, []string{"First • Remote • 01/2020", "Second • Remote • 01/2021"}, sections.Lines(SectionExperience))
	assert.Equal(t, []SectionName{SectionExperience, SectionEducation}, sections.Names())
}

func TestSegment_EmptyHeadingSectionIsKeptButNotPresent(t *testing.T) {
	sections := Segment("Jane\nAWARDS:")

	_, ok := sections.Get(SectionAwards)
	assert.True(t, ok)
	assert.False(t, sections.Has(SectionAwards))
}

func TestSegment_EmptyInput(t *testing.T) {
	sections := Segment("\n \n\t")

	assert.Empty(t, sections.Names())
	assert.Zero(t, sections.LineCount())
}

func TestSegment_CRLFInput(t *testing.T) {
	sections := Segment("Jane\r\nSKILLS:\r\nGo\r\n")

	assert.Equal(t, []string{"Jane"}, sections.Lines(SectionHeader))
	assert.Equal(t, []string{"Go"}, sections.Lines(SectionSkills))
}

func TestSection_Label(t *testing.T) {
	sections := Segment("Jane\nPROFILE:\nx")

	hdr, _ := sections.Get(SectionHeader)
	sum, _ := sections.Get(SectionSummary)
	assert.Equal(t, "HEADER", hdr.Label())
	assert.Equal(t, "PROFILE", sum.Label())
}

func TestClassifyHeading(t *testing.T) {
	tests := []struct {
		line string
		kind LineKind
		sec  SectionName
	}{
		{"HEADER", Heading, SectionHeader},
		{"header:", Heading, SectionHeader},
		{"EDUCATION:", Heading, SectionEducation},
		{"Education: MIT", Heading, SectionEducation},
		{"EDUCATION", Continuation, ""},
		{"Header information", Continuation, ""},
		{"Acme • Remote • 01/2020", Continuation, ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c := ClassifyHeading(tt.line)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.sec, c.Section)
		})
	}
}

func TestLineKind_String(t *testing.T) {
	assert.Equal(t, "heading", Heading.String())
	assert.Equal(t, "block-start", BlockStart.String())
	assert.Equal(t, "continuation", Continuation.String())
}

func TestParse_CanonicalFixture(t *testing.T) {
	doc := Parse(canonicalFixture)

	require.False(t, doc.Empty())
	require.Len(t, doc.Blocks[SectionExperience], 1)
	assert.Equal(t, []string{"Acme • Remote • 01/2020 - Present", "Engineer", "• Shipped X"},
		doc.Blocks[SectionExperience][0].Lines)
	assert.NotContains(t, doc.Blocks, SectionProjects)
}

func TestParse_Empty(t *testing.T) {
	assert.True(t, Parse("").Empty())
	assert.True(t, (*Document)(nil).Empty())
}
