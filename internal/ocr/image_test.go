package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func encodeBMP(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{name: "png", data: encodePNG(t), want: "png"},
		{name: "jpeg", data: encodeJPEG(t), want: "jpeg"},
		{name: "bmp", data: encodeBMP(t), want: "bmp"},
		{name: "empty", data: nil, wantErr: ErrEmptyImage},
		{name: "garbage", data: []byte("not an image"), wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepareImage(t *testing.T) {
	defaults := []string{"png", "jpg", "jpeg"}

	t.Run("png passes through", func(t *testing.T) {
		data := encodePNG(t)
		img, err := PrepareImage(data, defaults)
		require.NoError(t, err)
		assert.Equal(t, "png", img.Format)
		assert.Equal(t, data, img.Data)
		assert.Equal(t, 4, img.Width)
		assert.Equal(t, 3, img.Height)
	})

	t.Run("jpg alias accepts jpeg", func(t *testing.T) {
		img, err := PrepareImage(encodeJPEG(t), []string{"JPG"})
		require.NoError(t, err)
		assert.Equal(t, "jpeg", img.Format)
	})

	t.Run("bmp rejected by default", func(t *testing.T) {
		_, err := PrepareImage(encodeBMP(t), defaults)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("bmp transcoded when accepted", func(t *testing.T) {
		img, err := PrepareImage(encodeBMP(t), []string{"bmp"})
		require.NoError(t, err)
		assert.Equal(t, "png", img.Format)
		assert.Equal(t, 4, img.Width)

		format, err := DetectFormat(img.Data)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})
}
