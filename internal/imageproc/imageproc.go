// Package imageproc normalizes uploaded pictures to an opaque JPEG.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	DefaultQuality = 85

	// maxPixels caps decoded dimensions so a tiny file cannot expand into gigabytes.
	maxPixels = 50_000_000
)

var (
	ErrDecode   = errors.New("could not decode image")
	ErrTooLarge = errors.New("image dimensions too large")
)

// Background is the colour transparent pixels are flattened onto.
var Background color.Color = color.White

// NormalizeJPEG decodes r (jpeg or png), applies EXIF orientation, flattens any
// transparency onto Background and re-encodes as JPEG at the given quality.
func NormalizeJPEG(r io.Reader, quality int) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var buf bytes.Buffer
	err = imaging.Encode(&buf, Flatten(img, Background), imaging.JPEG, imaging.JPEGQuality(clampQuality(quality)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Flatten composites img over an opaque bg, dropping the alpha channel.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return canvas
}

func clampQuality(q int) int {
	switch {
	case q <= 0:
		return DefaultQuality
	case q > 100:
		return 100
	default:
		return q
	}
}
