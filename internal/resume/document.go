package resume

// Document is a segmented résumé together with the entry blocks of its
// EXPERIENCE, PROJECTS and EDUCATION sections.
type Document struct {
	Sections *Sections
	Blocks   map[SectionName][]Block
}

// Parse segments text and splits every block section that is present.
func Parse(text string) *Document {
	sections := Segment(text)
	return &Document{
		Sections: sections,
		Blocks:   SplitAll(sections),
	}
}

// SplitAll runs SplitBlocks over each block section present in sections.
func SplitAll(sections *Sections) map[SectionName][]Block {
	blocks := make(map[SectionName][]Block)
	for _, name := range BlockSections {
		if lines := sections.Lines(name); len(lines) > 0 {
			blocks[name] = SplitBlocks(name, lines)
		}
	}
	return blocks
}

// Empty reports whether the document holds no content at all.
func (d *Document) Empty() bool {
	return d == nil || d.Sections == nil || d.Sections.LineCount() == 0
}
