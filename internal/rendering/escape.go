package rendering

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// EncodeWinAnsi converts UTF-8 text into the Windows-1252 byte string the
// PDF core fonts expect. Runes outside the code page become '?'.
func EncodeWinAnsi(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\t':
			result.WriteByte(' ')
			continue
		case '‐', '‑':
			result.WriteByte('-')
			continue
		}
		if r < 0x80 {
			result.WriteByte(byte(r))
			continue
		}
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			result.WriteByte(b)
			continue
		}
		result.WriteByte('?')
	}

	return result.String()
}
