package rendering

import "strings"

// Wrap breaks text into lines no wider than width, splitting on whitespace.
// A word wider than width on its own is broken between runes.
func Wrap(text string, width float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if measure(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		if measure(word) <= width {
			line = word
			continue
		}
		pieces := breakWord(word, width, measure)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits a single word into pieces that fit width. Every piece
// holds at least one rune.
func breakWord(word string, width float64, measure func(string) float64) []string {
	var pieces []string
	var current []rune
	for _, r := range word {
		if len(current) > 0 && measure(string(append(current, r))) > width {
			pieces = append(pieces, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	return append(pieces, string(current))
}
