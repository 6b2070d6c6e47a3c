// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compositing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	// Register decoders for the formats the app accepts. WebP decodes
	// but has no stdlib encoder, so WebP sources re-encode as PNG.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality matches the original export quality.
const DefaultJPEGQuality = 95

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDecode marks source bytes that are not a valid image.
	ErrDecode = errors.New("image decode failed")

	// ErrUnsupportedFormat marks an image format with no registered codec.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// =============================================================================
// CROP RECTANGLE
// =============================================================================

// minCropFraction keeps clamped crop rectangles non-degenerate.
const minCropFraction = 0.001

// Rect is a crop rectangle in fractional [0,1] coordinates relative to
// the image's natural width and height.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp returns an in-bounds rectangle: x,y in [0,1], width and height
// positive, and x+width <= 1, y+height <= 1. Oversized rectangles are
// shifted back rather than shrunk to zero.
func (r Rect) Clamp() Rect {
	x := clampF(r.X, 0, 1)
	y := clampF(r.Y, 0, 1)
	w := clampF(r.Width, minCropFraction, 1)
	h := clampF(r.Height, minCropFraction, 1)
	if x+w > 1 {
		x = 1 - w
	}
	if y+h > 1 {
		y = 1 - h
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// pixels converts the clamped rectangle to pixel coordinates for an
// image of the given natural dimensions. The result is at least one
// pixel in each direction and never exceeds the image bounds.
func (r Rect) pixels(width, height int) image.Rectangle {
	c := r.Clamp()
	x0 := int(math.Round(c.X * float64(width)))
	y0 := int(math.Round(c.Y * float64(height)))
	w := int(math.Round(c.Width * float64(width)))
	h := int(math.Round(c.Height * float64(height)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if x0+w > width {
		x0 = width - w
	}
	if y0+h > height {
		y0 = height - h
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	return image.Rect(x0, y0, x0+w, y0+h)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// RENDER
// =============================================================================

// Render decodes the base image, applies an optional crop, evaluates
// the filter expression and encodes the result. The output mime type is
// the source's where an encoder exists, else image/png.
//
// A decode failure aborts only this render; nothing else is mutated.
func Render(base []byte, expr Expression, crop *Rect) ([]byte, string, error) {
	img, mimeType, err := RenderImage(base, expr, crop)
	if err != nil {
		return nil, "", err
	}
	return Encode(img, mimeType, DefaultJPEGQuality)
}

// RenderImage is Render without the final encode, for callers that
// still need to draw on the raster (watermark stamping).
func RenderImage(base []byte, expr Expression, crop *Rect) (*image.NRGBA, string, error) {
	src, format, err := image.Decode(bytes.NewReader(base))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	nrgba := imaging.Clone(src)
	if crop != nil {
		b := nrgba.Bounds()
		nrgba = imaging.Crop(nrgba, crop.pixels(b.Dx(), b.Dy()))
	}
	nrgba = applyExpression(nrgba, expr)
	return nrgba, mimeFromFormat(format), nil
}

// mimeFromFormat maps a decoded format name to the mime type used for
// re-encoding. Formats without an encoder fall back to PNG.
func mimeFromFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// Encode serializes a raster to the requested mime type, falling back
// to PNG for anything without an encoder. Returns the mime type
// actually used.
func Encode(img image.Image, mimeType string, jpegQuality int) ([]byte, string, error) {
	var buf bytes.Buffer
	switch mimeType {
	case "image/jpeg", "image/jpg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	case "image/gif":
		if err := imaging.Encode(&buf, img, imaging.GIF); err != nil {
			return nil, "", fmt.Errorf("encode gif: %w", err)
		}
		return buf.Bytes(), "image/gif", nil
	default:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
}
