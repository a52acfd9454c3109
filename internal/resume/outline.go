package resume

// Outline is a serialisable view of a parsed document.
type Outline struct {
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}

// OutlineSection is one section of an Outline. Blocks is set for block
// sections only.
type OutlineSection struct {
	Name   SectionName `json:"name" yaml:"name"`
	Label  string      `json:"label" yaml:"label"`
	Lines  []string    `json:"lines" yaml:"lines"`
	Blocks [][]string  `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// Outline returns the sections in order of first appearance.
func (d *Document) Outline() Outline {
	out := Outline{Sections: []OutlineSection{}}
	if d.Empty() {
		return out
	}
	for _, s := range d.Sections.Ordered() {
		if len(s.Lines) == 0 {
			continue
		}
		os := OutlineSection{Name: s.Name, Label: s.Label(), Lines: s.Lines}
		for _, b := range d.Blocks[s.Name] {
			os.Blocks = append(os.Blocks, b.Lines)
		}
		out.Sections = append(out.Sections, os)
	}
	return out
}
