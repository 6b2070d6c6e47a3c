// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compositing

import (
	"strconv"
	"strings"

	"github.com/revofoto/revofoto/internal/model"
)

// =============================================================================
// OPERATIONS
// =============================================================================

// Op names a single color operation.
type Op string

const (
	OpBrightness Op = "brightness"
	OpContrast   Op = "contrast"
	OpSaturate   Op = "saturate"
	OpHueRotate  Op = "hue-rotate"
	OpSepia      Op = "sepia"
	OpGrayscale  Op = "grayscale"
	OpInvert     Op = "invert"
	OpBlur       Op = "blur"
)

// Term is one resolved operation. Value semantics depend on the op:
// a multiplier for brightness/contrast/saturate, an amount in [0,1]
// for sepia/grayscale/invert, degrees for hue-rotate, pixels for blur.
type Term struct {
	Op    Op
	Value float64
}

// Expression is an ordered list of resolved operations. Structural
// equality is expression equality.
type Expression struct {
	Terms []Term
}

// Equal reports structural equality with another expression.
func (e Expression) Equal(other Expression) bool {
	if len(e.Terms) != len(other.Terms) {
		return false
	}
	for i, t := range e.Terms {
		if t != other.Terms[i] {
			return false
		}
	}
	return true
}

// String renders the expression in CSS filter shorthand, useful for
// logging and for UI layers that preview via CSS.
func (e Expression) String() string {
	parts := make([]string, 0, len(e.Terms))
	for _, t := range e.Terms {
		v := strconv.FormatFloat(t.Value, 'g', -1, 64)
		switch t.Op {
		case OpHueRotate:
			parts = append(parts, string(t.Op)+"("+v+"deg)")
		case OpBlur:
			parts = append(parts, string(t.Op)+"("+v+"px)")
		default:
			parts = append(parts, string(t.Op)+"("+v+")")
		}
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// BUILDER
// =============================================================================

// BuildExpression turns adjustment state into an expression. Pure and
// stable: identical arguments always yield a structurally identical
// result.
//
// Brightness and contrast are always present (100 = no-op multiplier of
// 1). The basic filter contributes one full-strength term. The social
// filter contributes its coefficient terms scaled by intensity/100; a
// NONE filter or zero intensity contributes nothing at all.
func BuildExpression(basic model.ImageFilter, brightness, contrast int, social model.SocialFilter, intensity int) Expression {
	terms := []Term{
		{Op: OpBrightness, Value: float64(brightness) / 100},
		{Op: OpContrast, Value: float64(contrast) / 100},
	}

	switch basic {
	case model.FilterSepia:
		terms = append(terms, Term{Op: OpSepia, Value: 1})
	case model.FilterGrayscale:
		terms = append(terms, Term{Op: OpGrayscale, Value: 1})
	case model.FilterInvert:
		terms = append(terms, Term{Op: OpInvert, Value: 1})
	case model.FilterBlur:
		terms = append(terms, Term{Op: OpBlur, Value: 1})
	}

	terms = append(terms, socialTerms(social, intensity)...)
	return Expression{Terms: terms}
}
