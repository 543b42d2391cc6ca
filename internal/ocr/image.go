package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for images outside the accepted format list.
var ErrUnsupportedFormat = errors.New("ocr: unsupported image format")

// Image is an upload that passed format checks and is ready for recognition.
type Image struct {
	Data   []byte
	Format string // png or jpeg after preparation
	Width  int
	Height int
}

// DetectFormat sniffs the encoded format ("png", "jpeg", "webp", ...).
func DetectFormat(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return format, nil
}

// PrepareImage checks data against the accepted formats and transcodes
// anything other than PNG or JPEG to PNG. "jpg" and "jpeg" are equivalent.
func PrepareImage(data []byte, accepted []string) (*Image, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	if !formatAccepted(format, accepted) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if format == "png" || format == "jpeg" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read image header: %w", err)
		}
		return &Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to transcode %s to png: %w", format, err)
	}
	bounds := img.Bounds()
	return &Image{Data: buf.Bytes(), Format: "png", Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func formatAccepted(format string, accepted []string) bool {
	for _, a := range accepted {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "jpg" {
			a = "jpeg"
		}
		if a == format {
			return true
		}
	}
	return false
}

func mimeType(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
