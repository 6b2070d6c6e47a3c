// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/revofoto/revofoto/internal/model"
)

// =============================================================================
// SAVE
// =============================================================================

// SaveConversations writes a full snapshot of every conversation:
// delete all rows, insert all rows, in one transaction. Transient
// loading indicators are never written. A media reference that can no
// longer be resolved is logged and persists empty; the message itself
// is always written.
func (s *Store) SaveConversations(ctx context.Context, convs []*model.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"message_images", "messages", "conversations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, conv := range convs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (id, position, title, last_modified)
			VALUES (?, ?, ?, ?)
		`, conv.ID, pos, conv.Title, conv.LastModified.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}

		if err := s.insertMessages(ctx, tx, conv); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (s *Store) insertMessages(ctx context.Context, tx *sql.Tx, conv *model.Conversation) error {
	for pos, msg := range conv.PersistableMessages() {
		images, video, videoMime, audio, audioMime := s.resolveMessageMedia(msg)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, position, sender, type,
				timestamp, content, image_mime_type, prompt_used, history_id,
				video, video_mime, audio, audio_mime)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, msg.ID, conv.ID, pos, string(msg.Sender), string(msg.Type),
			msg.Timestamp.UnixMilli(), msg.Content, msg.ImageMimeType,
			msg.PromptUsed, msg.HistoryID, video, videoMime, audio, audioMime)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}

		for i, img := range images {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO message_images (message_id, position, data, mime_type)
				VALUES (?, ?, ?, ?)
			`, msg.ID, i, img.data, img.mime)
			if err != nil {
				return fmt.Errorf("failed to insert message image: %w", err)
			}
		}
	}
	return nil
}

type resolvedBlob struct {
	data []byte
	mime string
}

// resolveMessageMedia flattens every media reference on a message to
// bytes. An unresolvable reference degrades on its own: a dead image
// ref is dropped, a dead video or audio ref persists as an empty slot.
// The message row is never the casualty of one lost blob.
func (s *Store) resolveMessageMedia(msg *model.Message) (images []resolvedBlob, video []byte, videoMime string, audio []byte, audioMime string) {
	for _, ref := range msg.ImageRefs {
		data, mime, err := s.media.Resolve(ref)
		if err != nil {
			s.log.Warn("message image unresolvable, dropping it",
				slog.String("message_id", msg.ID),
				slog.Any("error", err))
			continue
		}
		if data != nil {
			images = append(images, resolvedBlob{data: data, mime: mime})
		}
	}
	var err error
	video, videoMime, err = s.media.Resolve(msg.VideoRef)
	if err != nil {
		s.log.Warn("message video unresolvable, persisting empty",
			slog.String("message_id", msg.ID),
			slog.Any("error", err))
		video, videoMime = nil, ""
	}
	audio, audioMime, err = s.media.Resolve(msg.AudioRef)
	if err != nil {
		s.log.Warn("message audio unresolvable, persisting empty",
			slog.String("message_id", msg.ID),
			slog.Any("error", err))
		audio, audioMime = nil, ""
	}
	return images, video, videoMime, audio, audioMime
}

// =============================================================================
// LOAD
// =============================================================================

// LoadConversations reads the stored snapshot, minting a fresh media
// handle for every blob. When the store is empty it consults the
// legacy flat-JSON file first and imports it (one-time upgrade).
func (s *Store) LoadConversations(ctx context.Context) ([]*model.Conversation, error) {
	empty, err := s.conversationsEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		if err := s.migrateLegacy(ctx); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, last_modified FROM conversations ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var convs []*model.Conversation
	for rows.Next() {
		var (
			conv   model.Conversation
			millis int64
		)
		if err := rows.Scan(&conv.ID, &conv.Title, &millis); err != nil {
			return nil, err
		}
		conv.LastModified = time.UnixMilli(millis)
		convs = append(convs, &conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, conv := range convs {
		msgs, err := s.loadMessages(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		conv.Messages = msgs
	}
	return convs, nil
}

func (s *Store) conversationsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations").Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return count == 0, nil
}

func (s *Store) loadMessages(ctx context.Context, conversationID string) ([]*model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, type, timestamp, content, image_mime_type,
			prompt_used, history_id, video, video_mime, audio, audio_mime
		FROM messages WHERE conversation_id = ? ORDER BY position
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	msgs := []*model.Message{}
	for rows.Next() {
		var (
			msg        model.Message
			sender     string
			msgType    string
			millis     int64
			video      []byte
			videoMime  sql.NullString
			audio      []byte
			audioMime  sql.NullString
			imageMime  sql.NullString
			promptUsed sql.NullString
			historyID  sql.NullString
		)
		if err := rows.Scan(&msg.ID, &sender, &msgType, &millis, &msg.Content,
			&imageMime, &promptUsed, &historyID,
			&video, &videoMime, &audio, &audioMime); err != nil {
			return nil, err
		}
		msg.Sender = model.Sender(sender)
		msg.Type = model.MessageType(msgType)
		msg.Timestamp = time.UnixMilli(millis)
		msg.ImageMimeType = imageMime.String
		msg.PromptUsed = promptUsed.String
		msg.HistoryID = historyID.String

		if len(video) > 0 {
			msg.VideoRef = s.media.Mint(video, videoMime.String)
		}
		if len(audio) > 0 {
			msg.AudioRef = s.media.Mint(audio, audioMime.String)
		}
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, msg := range msgs {
		refs, err := s.loadMessageImages(ctx, msg.ID)
		if err != nil {
			return nil, err
		}
		msg.ImageRefs = refs
	}
	return msgs, nil
}

func (s *Store) loadMessageImages(ctx context.Context, messageID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data, mime_type FROM message_images
		WHERE message_id = ? ORDER BY position
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var (
			data []byte
			mime string
		)
		if err := rows.Scan(&data, &mime); err != nil {
			return nil, err
		}
		refs = append(refs, s.media.Mint(data, mime))
	}
	return refs, rows.Err()
}
