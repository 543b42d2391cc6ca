// Package tesseract runs the local Tesseract engine through cgo.
// Only the application wiring imports it, so packages that work against
// ocr.Recognizer build without the native headers.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/ocr"
)

// Recognizer creates a fresh client per call since gosseract clients are not goroutine-safe.
type Recognizer struct {
	languages      []string
	tessdataPrefix string
}

type Config struct {
	Languages      []string
	TessdataPrefix string
}

var _ ocr.Recognizer = (*Recognizer)(nil)

func New(cfg *Config) *Recognizer {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"chi_sim", "eng"}
	}
	return &Recognizer{
		languages:      langs,
		tessdataPrefix: cfg.TessdataPrefix,
	}
}

func (t *Recognizer) Name() string {
	return "tesseract"
}

// Recognize returns one region per text line with confidence scaled to [0,1].
// Spaces between Chinese glyphs are removed; other spacing is kept.
func (t *Recognizer) Recognize(ctx context.Context, image []byte) ([]domain.RecognizedRegion, error) {
	if len(image) == 0 {
		return nil, ocr.ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	regions := make([]domain.RecognizedRegion, 0, len(boxes))
	for _, box := range boxes {
		line := strings.TrimSpace(ocr.CollapseHanSpaces(box.Word))
		if line == "" {
			continue
		}
		regions = append(regions, domain.NewRegion(line, box.Confidence/100))
	}
	return regions, nil
}
