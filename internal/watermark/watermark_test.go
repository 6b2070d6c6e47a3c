// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
)

func solidMark(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func whiteCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func TestCache_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		calls.Add(1)
		return solidMark(10, 10, color.NRGBA{A: 255}), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background()); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Subsequent call hits the memoized asset.
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Loader ran %d times, want 1", n)
	}
}

func TestCache_FailureNotCached(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("network down")
		}
		return solidMark(10, 10, color.NRGBA{A: 255}), nil
	})

	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrAssetUnavailable) {
		t.Fatalf("First Get = %v, want ErrAssetUnavailable", err)
	}
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Retry should succeed, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("Loader ran %d times, want 2", n)
	}
}

func TestStamp_BottomRightBlend(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		return solidMark(127, 127, color.NRGBA{A: 255}), nil
	})

	canvas := whiteCanvas(1000, 800)
	out, err := cache.Stamp(context.Background(), canvas)
	if err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	if out.Bounds() != canvas.Bounds() {
		t.Errorf("Stamp changed canvas bounds: %v", out.Bounds())
	}

	// Mark lands inside the bottom-right corner, inset by the margin.
	// A black mark over white at half opacity reads mid-gray.
	inMark := out.NRGBAAt(1000-33-10, 800-33-10)
	if inMark.R > 180 {
		t.Errorf("Pixel under mark = %+v, expected darkened", inMark)
	}

	// Far corners stay untouched.
	clean := out.NRGBAAt(5, 5)
	if clean.R != 255 || clean.G != 255 || clean.B != 255 {
		t.Errorf("Pixel away from mark = %+v, want white", clean)
	}
}

func TestStamp_CapsWidthOnNarrowCanvas(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		return solidMark(400, 100, color.NRGBA{A: 255}), nil
	})

	// 10% of 300px = 30px, well under the absolute cap. The mark must
	// stay inside the frame with its reduced margin.
	canvas := whiteCanvas(300, 200)
	out, err := cache.Stamp(context.Background(), canvas)
	if err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}

	// Left two-thirds of the canvas is untouched by a 30px-wide mark.
	clean := out.NRGBAAt(150, 150)
	if clean.R != 255 {
		t.Errorf("Pixel left of mark region = %+v, want white", clean)
	}
}

func TestStamp_TinyCanvasKeepsMarkInFrame(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		return solidMark(127, 127, color.NRGBA{A: 255}), nil
	})

	canvas := whiteCanvas(40, 40)
	out, err := cache.Stamp(context.Background(), canvas)
	if err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}

	// Margin shrinks to W/4 = 10px, so some pixel in the lower-right
	// quadrant must be blended.
	blended := false
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			if out.NRGBAAt(x, y).R < 250 {
				blended = true
			}
		}
	}
	if !blended {
		t.Error("Mark fell outside a tiny canvas")
	}
}

func TestStamp_LoaderFailurePropagates(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (image.Image, error) {
		return nil, errors.New("no asset")
	})

	_, err := cache.Stamp(context.Background(), whiteCanvas(100, 100))
	if !errors.Is(err, ErrAssetUnavailable) {
		t.Errorf("Stamp = %v, want ErrAssetUnavailable", err)
	}
}
