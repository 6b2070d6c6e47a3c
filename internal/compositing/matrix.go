// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compositing

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// colorMat is a 4x5 affine color matrix (rows R,G,B,A; the fifth column
// is an offset in [0,1] space). All color operations except blur reduce
// to one of these, so consecutive terms compose into a single per-pixel
// pass.
type colorMat [20]float64

func identityMat() colorMat {
	return colorMat{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// mul returns a∘b: b is applied first, then a.
func mul(a, b colorMat) colorMat {
	var out colorMat
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			if col == 4 {
				sum += a[row*5+4]
			}
			out[row*5+col] = sum
		}
	}
	return out
}

// =============================================================================
// PER-OPERATION MATRICES
// =============================================================================

// Luma coefficients from the W3C filter-effects shorthand definitions.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

func brightnessMat(v float64) colorMat {
	v = math.Max(v, 0)
	return colorMat{
		v, 0, 0, 0, 0,
		0, v, 0, 0, 0,
		0, 0, v, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func contrastMat(v float64) colorMat {
	v = math.Max(v, 0)
	o := 0.5 - 0.5*v
	return colorMat{
		v, 0, 0, 0, o,
		0, v, 0, 0, o,
		0, 0, v, 0, o,
		0, 0, 0, 1, 0,
	}
}

func saturateMat(s float64) colorMat {
	s = math.Max(s, 0)
	return colorMat{
		lumaR + (1-lumaR)*s, lumaG * (1 - s), lumaB * (1 - s), 0, 0,
		lumaR * (1 - s), lumaG + (1-lumaG)*s, lumaB * (1 - s), 0, 0,
		lumaR * (1 - s), lumaG * (1 - s), lumaB + (1-lumaB)*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// grayscaleMat(1) is full luma conversion; amounts interpolate linearly
// from identity, matching the CSS shorthand.
func grayscaleMat(amount float64) colorMat {
	return saturateMat(1 - clampF(amount, 0, 1))
}

func sepiaMat(amount float64) colorMat {
	a := clampF(amount, 0, 1)
	t := 1 - a
	return colorMat{
		0.393 + 0.607*t, 0.769 * a, 0.189 * a, 0, 0,
		0.349 * a, 0.686 + 0.314*t, 0.168 * a, 0, 0,
		0.272 * a, 0.534 * a, 0.131 + 0.869*t, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func invertMat(amount float64) colorMat {
	a := clampF(amount, 0, 1)
	s := 1 - 2*a
	return colorMat{
		s, 0, 0, 0, a,
		0, s, 0, 0, a,
		0, 0, s, 0, a,
		0, 0, 0, 1, 0,
	}
}

func hueRotateMat(degrees float64) colorMat {
	rad := degrees * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	return colorMat{
		lumaR + c*(1-lumaR) - s*lumaR, lumaG - c*lumaG - s*lumaG, lumaB - c*lumaB + s*(1-lumaB), 0, 0,
		lumaR - c*lumaR + s*0.143, lumaG + c*(1-lumaG) + s*0.140, lumaB - c*lumaB - s*0.283, 0, 0,
		lumaR - c*lumaR - s*(1-lumaR), lumaG - c*lumaG + s*lumaG, lumaB + c*(1-lumaB) + s*lumaB, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func termMatrix(t Term) colorMat {
	switch t.Op {
	case OpBrightness:
		return brightnessMat(t.Value)
	case OpContrast:
		return contrastMat(t.Value)
	case OpSaturate:
		return saturateMat(t.Value)
	case OpHueRotate:
		return hueRotateMat(t.Value)
	case OpSepia:
		return sepiaMat(t.Value)
	case OpGrayscale:
		return grayscaleMat(t.Value)
	case OpInvert:
		return invertMat(t.Value)
	default:
		return identityMat()
	}
}

// =============================================================================
// EVALUATION
// =============================================================================

// applyExpression evaluates terms in order. Color terms compose into a
// pending matrix that is flushed in one pixel pass; blur flushes the
// pending matrix first so operation order is preserved.
func applyExpression(img *image.NRGBA, expr Expression) *image.NRGBA {
	m := identityMat()
	pending := false

	flush := func() {
		if pending {
			img = applyMatrix(img, m)
			m = identityMat()
			pending = false
		}
	}

	for _, t := range expr.Terms {
		if t.Op == OpBlur {
			flush()
			if t.Value > 0 {
				img = imaging.Blur(img, t.Value)
			}
			continue
		}
		m = mul(termMatrix(t), m)
		pending = true
	}
	flush()
	return img
}

func applyMatrix(img *image.NRGBA, m colorMat) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r := float64(c.R) / 255
		g := float64(c.G) / 255
		b := float64(c.B) / 255
		a := float64(c.A) / 255
		return color.NRGBA{
			R: to8(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]),
			G: to8(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]),
			B: to8(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]),
			A: to8(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]),
		}
	})
}

func to8(v float64) uint8 {
	return uint8(math.Round(clampF(v, 0, 1) * 255))
}
