// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package aitools defines the contracts for external AI image and
// video services, plus the prompt catalog for the named AI filters.
//
// The application never talks to a provider directly; callers inject
// implementations of the tool funcs. That keeps the pipeline testable
// and provider-agnostic.
package aitools

import (
	"context"

	"github.com/revofoto/revofoto/internal/model"
)

// =============================================================================
// TOOL CONTRACTS
// =============================================================================

// ImageTool produces a new image from a source image and a prompt.
// Returned bytes are a complete encoded image with the given mime type.
type ImageTool func(ctx context.Context, image []byte, mimeType, prompt string) (out []byte, outMime string, err error)

// VideoTool produces an encoded video from a source image and prompt.
type VideoTool func(ctx context.Context, image []byte, mimeType, prompt string) (out []byte, outMime string, err error)

// ToolError carries a human-readable reason from a failed tool call,
// suitable for surfacing in a chat message.
type ToolError struct {
	Tool   string
	Reason string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return e.Tool + ": " + e.Reason + ": " + e.Err.Error()
	}
	return e.Tool + ": " + e.Reason
}

func (e *ToolError) Unwrap() error { return e.Err }

// =============================================================================
// AI FILTER CATALOG
// =============================================================================

// FilterSpec pairs an AI filter with its display name and the prompt
// sent to the image service.
type FilterSpec struct {
	Name   string
	Value  model.AIFilter
	Prompt string
}

// Filters lists every AI filter in menu order.
var Filters = []FilterSpec{
	{
		Name:   "None",
		Value:  model.AIFilterNone,
		Prompt: "",
	},
	{
		Name:  "Cinematic",
		Value: model.AIFilterCinematic,
		Prompt: "Redraw this image with a cinematic style. Use teal and orange " +
			"color grading, add a light film grain and a subtle vignette. The " +
			"lighting should be dramatic, with high contrast between highlights " +
			"and shadows to create depth and a film-like mood.",
	},
	{
		Name:  "Vintage Film",
		Value: model.AIFilterVintageFilm,
		Prompt: "Transform this image to look like a 1970s film photograph. " +
			"Apply a warm sepia tone, slightly desaturate the colors, increase " +
			"midtone contrast and add visible film grain. Highlight areas should " +
			"carry a faint yellow glow.",
	},
	{
		Name:  "Dramatic B&W",
		Value: model.AIFilterDramaticBW,
		Prompt: "Convert this image to high-contrast black and white. Create deep " +
			"blacks and bright whites, emphasizing textures and shapes. The result " +
			"should be powerful and evocative, similar to an Ansel Adams photograph.",
	},
	{
		Name:  "Gourmet",
		Value: model.AIFilterGourmetFood,
		Prompt: "Enhance this food image to look like professional gourmet " +
			"photography. Boost color saturation and vibrance, sharpen to bring out " +
			"textures, and adjust the lighting to create appetizing specular " +
			"highlights. The background should be slightly blurred to focus on the " +
			"main dish.",
	},
	{
		Name:  "Neon Punk",
		Value: model.AIFilterNeonPunk,
		Prompt: "Apply a cyberpunk style to this image. Add neon color highlights " +
			"(pink, cyan, purple) on light sources and reflections. Increase overall " +
			"contrast, making shadows darker and deeper. The scene should feel " +
			"nocturnal and urban, with a futuristic touch.",
	},
}

// PromptFor returns the prompt for a filter, empty for NONE or unknown.
func PromptFor(filter model.AIFilter) string {
	for _, f := range Filters {
		if f.Value == filter {
			return f.Prompt
		}
	}
	return ""
}

// NameFor returns the display name for a filter, empty when unknown.
func NameFor(filter model.AIFilter) string {
	for _, f := range Filters {
		if f.Value == filter {
			return f.Name
		}
	}
	return ""
}
