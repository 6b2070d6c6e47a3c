// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compositing renders a gallery entry's base image and its
// declarative adjustment parameters into a flattened raster.
//
// The pipeline has three stages: a pure expression builder that turns
// the adjustment state (basic filter, brightness/contrast, social
// filter + intensity) into an ordered list of color operations, a
// deterministic evaluator that applies the operations as composed
// color matrices (blur is the one convolution step), and a mime-aware
// encoder with a PNG fallback. Crop rectangles arrive as fractional
// [0,1] coordinates and are clamped before use.
//
// Social filters are not per-pixel LUTs: each name maps to a small set
// of linear coefficient pairs scaled by intensity/100. That trades
// visual fidelity for a real-time, data-table implementation.
//
// # Key Types
//
//   - Expression: ordered, resolved color operations
//   - Rect: fractional crop rectangle with clamping
//   - Editor: glues rendering to the media registry and watermark cache
//
// # Usage
//
//	expr := compositing.BuildExpression(model.FilterNone, 120, 90, model.SocialVintage, 60)
//	out, mime, err := compositing.Render(srcBytes, expr, nil)
package compositing
