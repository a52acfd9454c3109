package resume

import "strings"

// Block is one entry within EXPERIENCE, PROJECTS or EDUCATION: a job,
// a project or a degree.
type Block struct {
	Lines []string
}

// Title returns the first line (company • location • dates, project name
// or program name).
func (b Block) Title() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0]
}

// Subtitle returns the second line, if any.
func (b Block) Subtitle() (string, bool) {
	if len(b.Lines) < 2 {
		return "", false
	}
	return b.Lines[1], true
}

// Details returns every line after the subtitle.
func (b Block) Details() []string {
	if len(b.Lines) < 3 {
		return nil
	}
	return b.Lines[2:]
}

// SplitBlocks groups the lines of a section into entry blocks. Lines are
// never lost, duplicated or reordered: concatenating the blocks yields the
// non-blank input lines. Sections without a block heuristic become a
// single block.
func SplitBlocks(section SectionName, lines []string) []Block {
	var blocks []Block
	var current []string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if ClassifyBlockLine(section, line, len(current) > 0).Kind == BlockStart {
			blocks = append(blocks, Block{Lines: current})
			current = []string{line}
			continue
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		blocks = append(blocks, Block{Lines: current})
	}
	return blocks
}
