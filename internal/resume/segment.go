package resume

import "strings"

// Segment splits résumé text into sections. Lines before the first
// recognised heading belong to HEADER; blank lines are dropped; heading
// lines are not content, but text after a heading's colon is kept as the
// first line of that section.
func Segment(text string) *Sections {
	sections := newSections()
	current := sections.open(SectionHeader, "")

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		c := ClassifyHeading(line)
		if c.Kind == Heading {
			current = sections.open(c.Section, c.Label)
			if c.Remainder != "" {
				current.Lines = append(current.Lines, c.Remainder)
			}
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	// HEADER is implicit; drop it again if nothing landed there.
	if hdr, ok := sections.byName[SectionHeader]; ok && len(hdr.Lines) == 0 {
		sections.remove(SectionHeader)
	}
	return sections
}

func (s *Sections) remove(name SectionName) {
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
