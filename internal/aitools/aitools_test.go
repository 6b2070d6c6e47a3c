// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package aitools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/revofoto/revofoto/internal/model"
)

func TestPromptFor(t *testing.T) {
	require.Empty(t, PromptFor(model.AIFilterNone), "NONE has no prompt")
	require.Empty(t, PromptFor(model.AIFilter("BOGUS")), "unknown filter has no prompt")

	for _, f := range []model.AIFilter{
		model.AIFilterCinematic,
		model.AIFilterVintageFilm,
		model.AIFilterDramaticBW,
		model.AIFilterGourmetFood,
		model.AIFilterNeonPunk,
	} {
		require.NotEmpty(t, PromptFor(f), "filter %s must have a prompt", f)
		require.NotEmpty(t, NameFor(f), "filter %s must have a display name", f)
	}
}

func TestFiltersMenuOrder(t *testing.T) {
	require.NotEmpty(t, Filters)
	require.Equal(t, model.AIFilterNone, Filters[0].Value, "NONE leads the menu")
}

func TestToolError(t *testing.T) {
	inner := errors.New("status 503")
	err := &ToolError{Tool: "image", Reason: "service unavailable", Err: inner}

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "image")
	require.Contains(t, err.Error(), "service unavailable")

	bare := &ToolError{Tool: "video", Reason: "quota exceeded"}
	require.Equal(t, "video: quota exceeded", bare.Error())
}
