// Package ingredient turns recognized label text into candidate ingredient
// phrases and decides which of them look like food additives.
package ingredient

import (
	"strings"
	"unicode/utf8"

	"github.com/timmy/foodlens/internal/domain"
)

// isDelimiter reports whether r separates two phrases: ASCII and fullwidth
// commas and semicolons, the ASCII colon, and newlines.
func isDelimiter(r rune) bool {
	switch r {
	case ',', '，', ';', '；', ':', '\n':
		return true
	}
	return false
}

// stripLabel drops a leading "label: " prefix from an OCR line. Both the ASCII
// and the fullwidth colon mark a label; only the first one counts.
func stripLabel(line string) string {
	if i := strings.IndexAny(line, ":："); i >= 0 {
		_, size := utf8.DecodeRuneInString(line[i:])
		line = line[i+size:]
	}
	return strings.TrimSpace(line)
}

// FullText joins the recognized regions into one newline-separated block,
// removing label prefixes and skipping lines that end up empty.
func FullText(regions []domain.RecognizedRegion) string {
	lines := make([]string, 0, len(regions))
	for _, region := range regions {
		line := stripLabel(region.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// SplitPhrases cuts text on the phrase delimiters and returns the trimmed,
// non-empty chunks in order. Duplicates are kept.
func SplitPhrases(text string) []string {
	chunks := strings.FieldsFunc(text, isDelimiter)
	phrases := make([]string, 0, len(chunks))
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		phrases = append(phrases, c)
	}
	return phrases
}

// Segment builds the full label text from OCR regions and splits it into
// candidate phrases.
// Parameters:
//   - regions: OCR lines in reading order; may be empty.
//
// Returns:
//   - string: newline-joined, label-stripped text ("" for no regions).
//   - []string: ordered phrases, never nil.
func Segment(regions []domain.RecognizedRegion) (string, []string) {
	fullText := FullText(regions)
	return fullText, SplitPhrases(fullText)
}
