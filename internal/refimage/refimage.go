// Package refimage normalizes uploaded reference images before they are sent
// to the vision model.
package refimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"thumbgenius/internal/gemini"
)

const (
	DefaultMaxDimension = 1536
	jpegQuality         = 85
)

var ErrNotImage = errors.New("reference is not a supported image")

// Prepare decodes data, scales it down so the longest edge fits maxDim and
// re-encodes it as JPEG. JPEG input that already fits is passed through.
func Prepare(data []byte, declaredMime string, maxDim int) (gemini.ImageInput, error) {
	if len(data) == 0 {
		return gemini.ImageInput{}, ErrNotImage
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		sniffed := http.DetectContentType(data)
		return gemini.ImageInput{}, fmt.Errorf("%w (declared %q, sniffed %q): %v", ErrNotImage, declaredMime, sniffed, err)
	}

	bounds := img.Bounds()
	width, height := fitDimensions(bounds.Dx(), bounds.Dy(), maxDim)
	if format == "jpeg" && width == bounds.Dx() && height == bounds.Dy() {
		return gemini.ImageInput{Data: data, MimeType: "image/jpeg"}, nil
	}

	// JPEG has no alpha, so transparent regions are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return gemini.ImageInput{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return gemini.ImageInput{Data: buf.Bytes(), MimeType: "image/jpeg"}, nil
}

func fitDimensions(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	if width >= height {
		scaled := height * maxDim / width
		return maxDim, max(scaled, 1)
	}
	scaled := width * maxDim / height
	return max(scaled, 1), maxDim
}
