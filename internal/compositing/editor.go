// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compositing

import (
	"context"
	"fmt"

	"github.com/revofoto/revofoto/internal/media"
	"github.com/revofoto/revofoto/internal/model"
	"github.com/revofoto/revofoto/internal/watermark"
)

// Editor glues the render pipeline to the media registry and the
// watermark cache. Every method applies its composite atomically: on
// error the input entry is returned unchanged.
type Editor struct {
	Registry    *media.Registry
	Watermark   *watermark.Cache
	JPEGQuality int
}

// NewEditor creates an editor with the default export quality.
func NewEditor(reg *media.Registry, wm *watermark.Cache) *Editor {
	return &Editor{Registry: reg, Watermark: wm, JPEGQuality: DefaultJPEGQuality}
}

// Crop renders the entry's uncropped baseline through the given
// fractional rectangle and returns the entry with the crop applied.
// The baseline reference is untouched so the crop can be undone.
func (ed *Editor) Crop(entry model.GalleryEntry, rect Rect) (model.GalleryEntry, error) {
	baseRef := entry.UncroppedEnhancedRef
	if baseRef == "" {
		baseRef = entry.EnhancedRef
	}
	data, _, err := ed.Registry.Resolve(baseRef)
	if err != nil {
		return entry, fmt.Errorf("resolve crop source: %w", err)
	}

	out, mimeType, err := Render(data, Expression{}, &rect)
	if err != nil {
		return entry, fmt.Errorf("render crop: %w", err)
	}

	ref := ed.Registry.Mint(out, mimeType)
	return entry.ApplyCrop(ref), nil
}

// Rebase registers a server-generated image and rebases the entry on
// it, resetting manual adjustments (see model.ApplyServerFilterResult).
func (ed *Editor) Rebase(entry model.GalleryEntry, data []byte, mimeType string, filter model.AIFilter) model.GalleryEntry {
	ref := ed.Registry.Mint(data, mimeType)
	return entry.ApplyServerFilterResult(ref, mimeType, filter)
}

// Export flattens the entry's enhanced image through its adjustment
// parameters, stamps the watermark, and encodes the final bytes. The
// preview path never stamps; only exports do.
func (ed *Editor) Export(ctx context.Context, entry model.GalleryEntry) ([]byte, string, error) {
	data, _, err := ed.Registry.Resolve(entry.EnhancedRef)
	if err != nil {
		return nil, "", fmt.Errorf("resolve export source: %w", err)
	}

	expr := BuildExpression(
		entry.AppliedFilter,
		entry.AppliedBrightness,
		entry.AppliedContrast,
		entry.AppliedSocialFilter,
		entry.AppliedSocialIntensity,
	)

	img, mimeType, err := RenderImage(data, expr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("render export: %w", err)
	}
	if entry.ImageMimeType != "" {
		mimeType = entry.ImageMimeType
	}

	if ed.Watermark != nil {
		img, err = ed.Watermark.Stamp(ctx, img)
		if err != nil {
			return nil, "", fmt.Errorf("stamp watermark: %w", err)
		}
	}

	quality := ed.JPEGQuality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return Encode(img, mimeType, quality)
}
