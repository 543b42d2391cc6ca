// Package ocr turns label photos into recognized text lines.
package ocr

import (
	"context"
	"errors"

	"github.com/timmy/foodlens/internal/domain"
)

// Recognizer extracts text lines from an encoded image.
// Regions are returned in reading order, one per printed line.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]domain.RecognizedRegion, error)
	Name() string
}

// ErrEmptyImage is returned when no image bytes were supplied.
var ErrEmptyImage = errors.New("ocr: empty image")
