// Package imaging prepares uploaded item photos for storage.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/erazemk/irielink/internal/apperr"
)

// MaxUploadBytes caps the size of an accepted photo upload.
const MaxUploadBytes = 8 << 20

// MaxSide is the longest edge of a stored photo in pixels.
const MaxSide = 800

const jpegQuality = 82

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a processed photo ready to store.
type Photo struct {
	Data []byte
	MIME string
}

// Process checks that r holds a JPEG or PNG by its content, shrinks it to fit
// within MaxSide and re-encodes it as JPEG. Rejected uploads are validation
// errors.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, apperr.New(apperr.CodeValidation, "photo is too large")
	}

	if detected := http.DetectContentType(data); !acceptedTypes[detected] {
		return nil, apperr.New(apperr.CodeValidation, "photo must be a JPEG or PNG image").
			WithDetails(map[string]string{"photo": detected})
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, "photo could not be decoded")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fit(img, MaxSide), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// fit scales img down, keeping its aspect ratio, so that neither side exceeds
// limit. Smaller images are returned as is.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	scale := float64(limit) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale))
	dh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
