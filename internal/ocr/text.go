package ocr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CollapseHanSpaces removes whitespace runs that sit between two Han runes.
// Tesseract's Chinese models separate every glyph with a space; spaces next to
// Latin text or punctuation are kept.
func CollapseHanSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	var prev rune = -1
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
			prev = r
			i += size
			continue
		}

		j := i
		for j < len(line) {
			rr, s := utf8.DecodeRuneInString(line[j:])
			if !unicode.IsSpace(rr) {
				break
			}
			j += s
		}
		next, _ := utf8.DecodeRuneInString(line[j:])
		if !(j < len(line) && isHan(prev) && isHan(next)) {
			b.WriteString(line[i:j])
		}
		i = j
	}
	return b.String()
}

func isHan(r rune) bool {
	return r >= 0 && unicode.Is(unicode.Han, r)
}
