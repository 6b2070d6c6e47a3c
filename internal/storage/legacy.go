// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/revofoto/revofoto/internal/model"
)

// =============================================================================
// LEGACY FLAT-JSON STORE
// =============================================================================

// A prior version serialized everything to one JSON file with media
// embedded as data URIs and timestamps as RFC3339 strings. The first
// load against an empty database imports it, persists the result, and
// deletes the file. Because the file is gone afterwards the upgrade
// runs exactly once.

type legacyConversation struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	LastModified string          `json:"lastModified"`
	Messages     []legacyMessage `json:"messages"`
}

type legacyMessage struct {
	ID            string   `json:"id"`
	Sender        string   `json:"sender"`
	Type          string   `json:"type"`
	Timestamp     string   `json:"timestamp"`
	Text          string   `json:"text"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	VideoURL      string   `json:"videoUrl,omitempty"`
	AudioURL      string   `json:"audioUrl,omitempty"`
	ImageMimeType string   `json:"imageMimeType,omitempty"`
	PromptUsed    string   `json:"promptUsed,omitempty"`
	HistoryID     string   `json:"historyId,omitempty"`
}

// migrateLegacy imports the legacy flat file when present. Missing
// file means nothing to do.
func (s *Store) migrateLegacy(ctx context.Context) error {
	data, err := os.ReadFile(s.legacyPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read legacy store: %w", err)
	}

	var legacy []legacyConversation
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to parse legacy store: %w", err)
	}

	convs := make([]*model.Conversation, 0, len(legacy))
	for _, lc := range legacy {
		convs = append(convs, convertLegacy(lc))
	}

	if err := s.SaveConversations(ctx, convs); err != nil {
		return fmt.Errorf("failed to import legacy store: %w", err)
	}
	if err := os.Remove(s.legacyPath); err != nil {
		return fmt.Errorf("failed to remove legacy store: %w", err)
	}

	s.log.Info("migrated legacy conversation store",
		slog.Int("conversations", len(convs)))
	return nil
}

// convertLegacy maps one legacy conversation onto the model. Data-URI
// media references pass through untouched; SaveConversations decodes
// them to blobs.
func convertLegacy(lc legacyConversation) *model.Conversation {
	conv := &model.Conversation{
		ID:           lc.ID,
		Title:        lc.Title,
		LastModified: parseLegacyTime(lc.LastModified),
		Messages:     make([]*model.Message, 0, len(lc.Messages)),
	}
	if conv.Title == "" {
		conv.Title = model.DefaultTitle
	}

	for _, lm := range lc.Messages {
		msg := &model.Message{
			ID:            lm.ID,
			Sender:        model.Sender(lm.Sender),
			Type:          model.MessageType(lm.Type),
			Timestamp:     parseLegacyTime(lm.Timestamp),
			Content:       lm.Text,
			ImageRefs:     lm.ImageURLs,
			VideoRef:      lm.VideoURL,
			AudioRef:      lm.AudioURL,
			ImageMimeType: lm.ImageMimeType,
			PromptUsed:    lm.PromptUsed,
			HistoryID:     lm.HistoryID,
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv
}

func parseLegacyTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now()
}
