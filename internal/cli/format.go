// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/revofoto/revofoto/internal/aitools"
	"github.com/revofoto/revofoto/internal/model"
)

// FormatConversationList formats stored conversations as a table with
// ID, last-modified time, message count, and title.
func FormatConversationList(convs []*model.Conversation) string {
	if len(convs) == 0 {
		return "No conversations found.\n"
	}

	var sb strings.Builder
	sb.WriteString("Conversations:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(formatPadded("ID", 12) + " " + formatPadded("Modified", 20) + " " + formatPadded("Messages", 8) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, c := range convs {
		idStr := c.ID
		if len(idStr) > 12 {
			idStr = idStr[:12]
		}
		sb.WriteString(formatPadded(idStr, 12) + " " +
			formatPadded(c.LastModified.Format("2006-01-02 15:04"), 20) + " " +
			formatPadded(fmt.Sprintf("%d", len(c.Messages)), 8) + " " +
			truncateString(c.Title, 40) + "\n")
	}
	return sb.String()
}

// FormatGalleryList formats gallery entries with their adjustment state.
func FormatGalleryList(g *model.Gallery) string {
	if g == nil || g.Len() == 0 {
		return "Gallery is empty.\n"
	}

	var sb strings.Builder
	sb.WriteString("Gallery:\n")
	sb.WriteString("-----------------------------------------------------\n")

	for i, e := range g.Entries {
		sb.WriteString(fmt.Sprintf("[%d] %s  %s\n", i,
			e.Timestamp.Format("2006-01-02 15:04"),
			truncateString(e.PromptUsed, 50)))

		var adj []string
		if e.AppliedBrightness != model.DefaultBrightness {
			adj = append(adj, fmt.Sprintf("brightness %d%%", e.AppliedBrightness))
		}
		if e.AppliedContrast != model.DefaultContrast {
			adj = append(adj, fmt.Sprintf("contrast %d%%", e.AppliedContrast))
		}
		if e.AppliedFilter != model.FilterNone {
			adj = append(adj, "filter "+string(e.AppliedFilter))
		}
		if e.AppliedSocialFilter != model.SocialNone {
			adj = append(adj, fmt.Sprintf("social %s @%d%%", e.AppliedSocialFilter, e.AppliedSocialIntensity))
		}
		if e.AppliedAIFilter != model.AIFilterNone {
			name := aitools.NameFor(e.AppliedAIFilter)
			if name == "" {
				name = string(e.AppliedAIFilter)
			}
			adj = append(adj, "ai "+name)
		}
		if len(adj) > 0 {
			sb.WriteString("    adjustments: " + strings.Join(adj, ", ") + "\n")
		}
	}
	return sb.String()
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
// Uses rune-based truncation for proper Unicode handling.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatPadded pads a string to the specified width with spaces.
func formatPadded(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(runes))
}
