// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/revofoto/revofoto/internal/model"
)

// SaveImageGallery writes a full snapshot of the gallery in one
// transaction. A slot whose bytes can no longer be resolved persists
// empty; the entry row itself, with its prompt and adjustments, is
// always written.
func (s *Store) SaveImageGallery(ctx context.Context, g *model.Gallery) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM gallery_entries"); err != nil {
		return fmt.Errorf("failed to clear gallery: %w", err)
	}

	for pos, e := range g.Entries {
		// Media unavailability is per slot: the entry row with its
		// adjustments always persists, a dead slot persists empty.
		enhanced, enhancedMime := s.resolveOptional(e.EnhancedRef, e.ID, "enhanced")
		original, originalMime := s.resolveOptional(e.OriginalRef, e.ID, "original")
		uncropped, uncroppedMime := s.resolveOptional(e.UncroppedEnhancedRef, e.ID, "uncropped")

		_, err = tx.ExecContext(ctx, `
			INSERT INTO gallery_entries (id, position,
				original, original_mime, enhanced, enhanced_mime,
				uncropped, uncropped_mime,
				image_mime_type, prompt_used, timestamp,
				applied_filter, applied_brightness, applied_contrast,
				applied_social_filter, applied_social_intensity, applied_ai_filter)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, pos,
			original, originalMime, enhanced, enhancedMime,
			uncropped, uncroppedMime,
			e.ImageMimeType, e.PromptUsed, e.Timestamp.UnixMilli(),
			string(e.AppliedFilter), e.AppliedBrightness, e.AppliedContrast,
			string(e.AppliedSocialFilter), e.AppliedSocialIntensity, string(e.AppliedAIFilter))
		if err != nil {
			return fmt.Errorf("failed to insert gallery entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// resolveOptional resolves a slot that may legitimately be absent.
// Resolution failure degrades to an empty slot instead of dropping the
// entry.
func (s *Store) resolveOptional(ref, entryID, slot string) ([]byte, string) {
	data, mime, err := s.media.Resolve(ref)
	if err != nil {
		s.log.Warn("gallery slot unresolvable, persisting empty",
			slog.String("entry_id", entryID),
			slog.String("slot", slot),
			slog.Any("error", err))
		return nil, ""
	}
	return data, mime
}

// LoadImageGallery reads the stored gallery in insertion order,
// minting fresh media handles for every blob.
func (s *Store) LoadImageGallery(ctx context.Context) (*model.Gallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, original, original_mime, enhanced, enhanced_mime,
			uncropped, uncropped_mime,
			image_mime_type, prompt_used, timestamp,
			applied_filter, applied_brightness, applied_contrast,
			applied_social_filter, applied_social_intensity, applied_ai_filter
		FROM gallery_entries ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	g := &model.Gallery{}
	for rows.Next() {
		var (
			e             model.GalleryEntry
			original      []byte
			originalMime  string
			enhanced      []byte
			enhancedMime  string
			uncropped     []byte
			uncroppedMime string
			millis        int64
			filter        string
			social        string
			aiFilter      string
		)
		if err := rows.Scan(&e.ID, &original, &originalMime, &enhanced, &enhancedMime,
			&uncropped, &uncroppedMime,
			&e.ImageMimeType, &e.PromptUsed, &millis,
			&filter, &e.AppliedBrightness, &e.AppliedContrast,
			&social, &e.AppliedSocialIntensity, &aiFilter); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(millis)
		e.AppliedFilter = model.ImageFilter(filter)
		e.AppliedSocialFilter = model.SocialFilter(social)
		e.AppliedAIFilter = model.AIFilter(aiFilter)

		if len(enhanced) > 0 {
			e.EnhancedRef = s.media.Mint(enhanced, enhancedMime)
		}
		if len(original) > 0 {
			e.OriginalRef = s.media.Mint(original, originalMime)
		}
		if len(uncropped) > 0 {
			e.UncroppedEnhancedRef = s.media.Mint(uncropped, uncroppedMime)
		}

		cp := e
		g.Add(&cp)
	}
	return g, rows.Err()
}
