package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/irielink/internal/apperr"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 120, 40, 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestProcessOutputsJPEG(t *testing.T) {
	for name, data := range map[string][]byte{
		"jpeg": encodeJPEG(t, 64, 48),
		"png":  encodePNG(t, 64, 48),
	} {
		t.Run(name, func(t *testing.T) {
			photo, err := Process(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, "image/jpeg", photo.MIME)

			w, h := decodedSize(t, photo.Data)
			assert.Equal(t, 64, w)
			assert.Equal(t, 48, h)
		})
	}
}

func TestProcessShrinksLargePhotos(t *testing.T) {
	photo, err := Process(bytes.NewReader(encodePNG(t, 1600, 400)))
	require.NoError(t, err)

	w, h := decodedSize(t, photo.Data)
	assert.Equal(t, MaxSide, w)
	assert.Equal(t, 200, h)
}

func TestProcessRejectsOtherContent(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("definitely not a photo"),
		"gif":  []byte("GIF89a\x01\x00\x01\x00"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Process(bytes.NewReader(data))
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestProcessRejectsOversizedUpload(t *testing.T) {
	data := make([]byte, MaxUploadBytes+10)
	copy(data, encodeJPEG(t, 8, 8))

	_, err := Process(bytes.NewReader(data))
	assert.True(t, apperr.IsValidation(err))
}
