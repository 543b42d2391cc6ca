// Package textclean strips presentation noise from OCR output and model answers.
//
// The same line rules apply to both inputs so a label dump and a generated
// answer end up in the same plain-text shape: markup characters removed,
// lines trimmed, blank lines dropped.
package textclean

import (
	"regexp"
	"strings"
)

// noiseRe matches emphasis and markup symbols: asterisks, hashes, backticks and
// hyphens (which models use as bullets).
var noiseRe = regexp.MustCompile("[*#`-]+")

// Normalize removes noise characters from every line, trims each line and drops
// the ones left empty. Surviving lines keep their order and are joined by "\n".
// Normalize is idempotent.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(noiseRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// CleanResponse prepares a raw model answer for display.
// It must stay byte-for-byte equivalent to Normalize.
func CleanResponse(answer string) string {
	return Normalize(answer)
}
