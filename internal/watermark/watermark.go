// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watermark stamps the brand mark onto exported images.
//
// The mark asset is loaded once per process through a Cache: the first
// caller triggers the load, concurrent callers share the same in-flight
// fetch, and a failed attempt is not cached so a later call may retry.
// Stamping happens only at export/download time; previews stay clean.
package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	_ "image/jpeg"
	_ "image/png"
)

// Placement constants. The mark is drawn at half its natural size,
// capped at a tenth of the canvas width (absolute cap 63.5px), inset
// from the bottom-right corner.
const (
	sizeReduction = 0.5
	widthFraction = 0.10
	absoluteCapPx = 127 * sizeReduction
	marginPx      = 32.0
	opacity       = 0.5
)

// ErrAssetUnavailable marks a watermark asset that could not be loaded.
var ErrAssetUnavailable = errors.New("watermark asset unavailable")

// LoaderFunc fetches and decodes the watermark asset.
type LoaderFunc func(ctx context.Context) (image.Image, error)

// =============================================================================
// CACHE
// =============================================================================

// Cache memoizes the watermark asset. The zero value is unusable; use
// NewCache.
type Cache struct {
	loader LoaderFunc
	group  singleflight.Group

	mu    sync.Mutex
	asset image.Image
}

// NewCache creates a cache around the given loader.
func NewCache(loader LoaderFunc) *Cache {
	return &Cache{loader: loader}
}

// Get returns the watermark asset, loading it on first use. Concurrent
// first callers share one in-flight load. Errors are returned but not
// cached, so the next call retries.
func (c *Cache) Get(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	if c.asset != nil {
		img := c.asset
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("asset", func() (any, error) {
		img, err := c.loader(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
		}
		c.mu.Lock()
		c.asset = img
		c.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// =============================================================================
// LOADERS
// =============================================================================

// NewHTTPLoader fetches the asset from a URL.
func NewHTTPLoader(url string, client *http.Client) LoaderFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) (image.Image, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode watermark: %w", err)
		}
		return img, nil
	}
}

// NewFileLoader reads the asset from disk.
func NewFileLoader(path string) LoaderFunc {
	return func(ctx context.Context) (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode watermark: %w", err)
		}
		return img, nil
	}
}

// =============================================================================
// STAMPING
// =============================================================================

// Stamp draws the watermark bottom-right on the canvas at half opacity
// and returns the composited raster. The canvas is assumed to already
// have its filter expression applied; the mark itself is never
// filtered. Geometry bounds:
//
//	width  <= min(0.10*W, 63.5)
//	margin <= min(32, W/4, H/4)
func (c *Cache) Stamp(ctx context.Context, canvas *image.NRGBA) (*image.NRGBA, error) {
	mark, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}

	w := float64(canvas.Bounds().Dx())
	h := float64(canvas.Bounds().Dy())

	markW := float64(mark.Bounds().Dx()) * sizeReduction
	markH := float64(mark.Bounds().Dy()) * sizeReduction

	maxW := math.Min(w*widthFraction, absoluteCapPx)
	if markW > maxW {
		scale := maxW / markW
		markW = maxW
		markH *= scale
	}

	// Tiny canvases must not push the mark out of frame.
	margin := math.Min(marginPx, math.Min(w/4, h/4))

	pw := int(math.Max(1, math.Round(markW)))
	ph := int(math.Max(1, math.Round(markH)))
	scaled := imaging.Resize(mark, pw, ph, imaging.Lanczos)

	x := int(math.Round(w - float64(pw) - margin))
	y := int(math.Round(h - float64(ph) - margin))

	return imaging.Overlay(canvas, scaled, image.Pt(x, y), opacity), nil
}
