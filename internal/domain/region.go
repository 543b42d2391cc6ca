package domain

import "strings"

// RecognizedRegion is one OCR hit: the tokens recognized on a single spatial line,
// in reading order.
type RecognizedRegion struct {
	Tokens     []string `json:"tokens"`
	Confidence float64  `json:"confidence,omitempty"`
}

// NewRegion builds a region holding line as its only token, so the text
// reaches segmentation unchanged, spaces included.
func NewRegion(line string, confidence float64) RecognizedRegion {
	return RecognizedRegion{
		Tokens:     []string{line},
		Confidence: confidence,
	}
}

// Text joins the region tokens into one line.
func (r RecognizedRegion) Text() string {
	return strings.Join(r.Tokens, "")
}
