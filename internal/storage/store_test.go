// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revofoto/revofoto/internal/logging"
	"github.com/revofoto/revofoto/internal/media"
	"github.com/revofoto/revofoto/internal/model"
)

func newTestStore(t *testing.T) (*Store, *media.Registry, string) {
	t.Helper()
	dir := t.TempDir()
	reg := media.NewRegistry()
	store, err := Open(filepath.Join(dir, "revofoto.db"), reg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, reg, dir
}

// =============================================================================
// CONVERSATION SNAPSHOT TESTS
// =============================================================================

func TestStore_ConversationRoundTrip(t *testing.T) {
	store, reg, _ := newTestStore(t)
	ctx := context.Background()

	imgData := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}
	ref := reg.Mint(imgData, "image/png")

	conv := model.NewConversation()
	conv.Append(model.NewTextMessage(model.SenderUser, "enhance my photo"))
	imgMsg := model.NewImageUploadMessage([]string{ref}, "image/png")
	conv.Append(imgMsg)

	if err := store.SaveConversations(ctx, []*model.Conversation{conv}); err != nil {
		t.Fatalf("SaveConversations failed: %v", err)
	}

	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d conversations, want 1", len(loaded))
	}

	got := loaded[0]
	if got.ID != conv.ID || got.Title != conv.Title {
		t.Errorf("Identity mismatch: got %s/%q, want %s/%q", got.ID, got.Title, conv.ID, conv.Title)
	}
	if len(got.Messages) != len(conv.Messages) {
		t.Fatalf("Loaded %d messages, want %d", len(got.Messages), len(conv.Messages))
	}

	// The image message round-trips with its bytes intact, behind a
	// fresh handle rather than the pre-save one.
	lastMsg := got.Messages[len(got.Messages)-1]
	if len(lastMsg.ImageRefs) != 1 {
		t.Fatalf("Image refs = %d, want 1", len(lastMsg.ImageRefs))
	}
	if lastMsg.ImageRefs[0] == ref {
		t.Error("Load must mint a fresh handle, not reuse the saved one")
	}
	data, mime, err := reg.Resolve(lastMsg.ImageRefs[0])
	if err != nil {
		t.Fatalf("Resolve loaded ref: %v", err)
	}
	if !bytes.Equal(data, imgData) || mime != "image/png" {
		t.Errorf("Loaded blob = %d bytes / %s, want original", len(data), mime)
	}
}

func TestStore_SaveIsFullSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	a := model.NewConversation()
	b := model.NewConversation()
	if err := store.SaveConversations(ctx, []*model.Conversation{a, b}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Saving a smaller set replaces the old snapshot entirely.
	if err := store.SaveConversations(ctx, []*model.Conversation{b}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != b.ID {
		t.Errorf("Snapshot not replaced: got %d conversations", len(loaded))
	}
}

func TestStore_TransientMessagesNotPersisted(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	conv := model.NewEmptyConversation()
	conv.Messages = append(conv.Messages,
		model.NewTextMessage(model.SenderUser, "hello"),
		model.NewLoadingMessage())

	if err := store.SaveConversations(ctx, []*model.Conversation{conv}); err != nil {
		t.Fatalf("SaveConversations failed: %v", err)
	}
	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	for _, msg := range loaded[0].Messages {
		if msg.Type == model.TypeLoadingIndicator {
			t.Error("Loading indicator survived persistence")
		}
	}
	if len(loaded[0].Messages) != 1 {
		t.Errorf("Loaded %d messages, want 1", len(loaded[0].Messages))
	}
}

func TestStore_MessageSurvivesReleasedImageHandle(t *testing.T) {
	store, reg, _ := newTestStore(t)
	ctx := context.Background()

	ref := reg.Mint([]byte("pixels"), "image/png")
	conv := model.NewEmptyConversation()
	conv.Messages = append(conv.Messages,
		model.NewTextMessage(model.SenderUser, "keep me"),
		model.NewImageUploadMessage([]string{ref}, "image/png"))
	imgMsg := conv.Messages[1]

	reg.Release(ref)

	// Only the dead image drops; the message row still persists.
	if err := store.SaveConversations(ctx, []*model.Conversation{conv}); err != nil {
		t.Fatalf("SaveConversations failed: %v", err)
	}
	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	if len(loaded[0].Messages) != 2 {
		t.Fatalf("Loaded %d messages, want 2", len(loaded[0].Messages))
	}
	got := loaded[0].Messages[1]
	if got.ID != imgMsg.ID || got.Type != model.TypeImageUpload {
		t.Errorf("Image message mangled: got %+v", got)
	}
	if len(got.ImageRefs) != 0 {
		t.Errorf("ImageRefs = %v, want none after the blob was lost", got.ImageRefs)
	}
}

// =============================================================================
// GALLERY SNAPSHOT TESTS
// =============================================================================

func TestStore_GalleryRoundTrip(t *testing.T) {
	store, reg, _ := newTestStore(t)
	ctx := context.Background()

	origData := []byte("original bytes")
	enhData := []byte("enhanced bytes")
	origRef := reg.Mint(origData, "image/jpeg")
	enhRef := reg.Mint(enhData, "image/png")

	entry := model.NewGalleryEntry(origRef, enhRef, "image/png", "make it pop")
	entry.AppliedBrightness = 120
	entry.AppliedSocialFilter = model.SocialVintage
	entry.AppliedSocialIntensity = 60

	g := &model.Gallery{}
	g.Add(entry)

	if err := store.SaveImageGallery(ctx, g); err != nil {
		t.Fatalf("SaveImageGallery failed: %v", err)
	}
	loaded, err := store.LoadImageGallery(ctx)
	if err != nil {
		t.Fatalf("LoadImageGallery failed: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("Loaded %d entries, want 1", loaded.Len())
	}

	got := loaded.EntryAt(0)
	if got.ID != entry.ID {
		t.Errorf("ID = %s, want %s", got.ID, entry.ID)
	}
	if got.AppliedBrightness != 120 || got.AppliedSocialFilter != model.SocialVintage || got.AppliedSocialIntensity != 60 {
		t.Errorf("Adjustments lost: %+v", got)
	}

	// All three slots resolve to their original bytes via fresh handles.
	for _, tc := range []struct {
		name string
		ref  string
		want []byte
	}{
		{"original", got.OriginalRef, origData},
		{"enhanced", got.EnhancedRef, enhData},
		{"uncropped", got.UncroppedEnhancedRef, enhData},
	} {
		data, _, err := reg.Resolve(tc.ref)
		if err != nil {
			t.Errorf("%s slot: %v", tc.name, err)
			continue
		}
		if !bytes.Equal(data, tc.want) {
			t.Errorf("%s slot bytes differ", tc.name)
		}
	}
	if got.EnhancedRef == enhRef {
		t.Error("Load must mint fresh handles")
	}
}

func TestStore_GalleryEntryWithoutOriginal(t *testing.T) {
	store, reg, _ := newTestStore(t)
	ctx := context.Background()

	enhRef := reg.Mint([]byte("generated"), "image/png")
	entry := model.NewGalleryEntry("", enhRef, "image/png", "a castle at dawn")

	g := &model.Gallery{}
	g.Add(entry)

	if err := store.SaveImageGallery(ctx, g); err != nil {
		t.Fatalf("SaveImageGallery failed: %v", err)
	}
	loaded, err := store.LoadImageGallery(ctx)
	if err != nil {
		t.Fatalf("LoadImageGallery failed: %v", err)
	}
	if got := loaded.EntryAt(0); got.OriginalRef != "" {
		t.Errorf("OriginalRef = %q, want empty for text-to-image entry", got.OriginalRef)
	}
}

func TestStore_GalleryPersistsEntryWithReleasedEnhanced(t *testing.T) {
	store, reg, _ := newTestStore(t)
	ctx := context.Background()

	goodRef := reg.Mint([]byte("good"), "image/png")
	badRef := reg.Mint([]byte("bad"), "image/png")

	first := model.NewGalleryEntry("", badRef, "image/png", "kept without pixels")
	first.AppliedBrightness = 130
	first.AppliedSocialFilter = model.SocialVintage
	first.AppliedSocialIntensity = 40

	g := &model.Gallery{}
	g.Add(first)
	g.Add(model.NewGalleryEntry("", goodRef, "image/png", "intact"))
	reg.Release(badRef)

	if err := store.SaveImageGallery(ctx, g); err != nil {
		t.Fatalf("SaveImageGallery failed: %v", err)
	}
	loaded, err := store.LoadImageGallery(ctx)
	if err != nil {
		t.Fatalf("LoadImageGallery failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Loaded %d entries, want 2", loaded.Len())
	}

	// The entry with the lost blob keeps its identity and adjustments,
	// only the enhanced slot comes back empty.
	got := loaded.EntryAt(0)
	if got.ID != first.ID || got.PromptUsed != "kept without pixels" {
		t.Errorf("Entry identity lost: %+v", got)
	}
	if got.AppliedBrightness != 130 || got.AppliedSocialFilter != model.SocialVintage || got.AppliedSocialIntensity != 40 {
		t.Errorf("Adjustments lost: %+v", got)
	}
	if got.EnhancedRef != "" {
		t.Errorf("EnhancedRef = %q, want empty for a lost blob", got.EnhancedRef)
	}

	if data, _, err := reg.Resolve(loaded.EntryAt(1).EnhancedRef); err != nil || !bytes.Equal(data, []byte("good")) {
		t.Errorf("Intact entry did not round-trip: %v", err)
	}
}

// =============================================================================
// SETTINGS AND WIPE TESTS
// =============================================================================

func TestStore_ActiveConversationID(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.LoadActiveConversationID(ctx)
	if err != nil {
		t.Fatalf("LoadActiveConversationID failed: %v", err)
	}
	if id != "" {
		t.Errorf("Fresh store active id = %q, want empty", id)
	}

	if err := store.SaveActiveConversationID(ctx, "conv-42"); err != nil {
		t.Fatalf("SaveActiveConversationID failed: %v", err)
	}
	id, err = store.LoadActiveConversationID(ctx)
	if err != nil || id != "conv-42" {
		t.Errorf("Loaded id = %q (%v), want conv-42", id, err)
	}

	if err := store.SaveActiveConversationID(ctx, ""); err != nil {
		t.Fatalf("clearing active id: %v", err)
	}
	if id, _ := store.LoadActiveConversationID(ctx); id != "" {
		t.Errorf("Cleared id = %q, want empty", id)
	}
}

func TestStore_ClearAllData(t *testing.T) {
	store, reg, dir := newTestStore(t)
	ctx := context.Background()

	ref := reg.Mint([]byte("img"), "image/png")
	conv := model.NewConversation()
	conv.Append(model.NewImageUploadMessage([]string{ref}, "image/png"))
	g := &model.Gallery{}
	g.Add(model.NewGalleryEntry("", ref, "image/png", ""))

	if err := store.SaveConversations(ctx, []*model.Conversation{conv}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveImageGallery(ctx, g); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveActiveConversationID(ctx, conv.ID); err != nil {
		t.Fatal(err)
	}
	legacyPath := filepath.Join(dir, LegacyFileName)
	if err := os.WriteFile(legacyPath, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearAllData(ctx); err != nil {
		t.Fatalf("ClearAllData failed: %v", err)
	}

	convs, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations after wipe: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("Conversations after wipe = %d, want 0", len(convs))
	}
	gallery, err := store.LoadImageGallery(ctx)
	if err != nil || gallery.Len() != 0 {
		t.Errorf("Gallery after wipe = %d entries (%v), want 0", gallery.Len(), err)
	}
	if id, _ := store.LoadActiveConversationID(ctx); id != "" {
		t.Errorf("Active id after wipe = %q, want empty", id)
	}
	if _, err := os.Stat(legacyPath); !os.IsNotExist(err) {
		t.Error("Legacy file should be removed by wipe")
	}
}

// =============================================================================
// LEGACY MIGRATION TESTS
// =============================================================================

func TestStore_LegacyMigration(t *testing.T) {
	store, reg, dir := newTestStore(t)
	ctx := context.Background()

	imgBytes := []byte{0xde, 0xad, 0xbe, 0xef}
	dataURI := media.EncodeDataURI(imgBytes, "image/png")

	legacy := `[{
		"id": "legacy-1",
		"title": "Old chat",
		"lastModified": "2025-03-01T12:00:00Z",
		"messages": [
			{"id": "m1", "sender": "user", "type": "text", "timestamp": "2025-03-01T11:58:00Z", "text": "hi"},
			{"id": "m2", "sender": "ai", "type": "text", "timestamp": "2025-03-01T11:59:00Z", "text": "hello"},
			{"id": "m3", "sender": "ai", "type": "image-enhanced", "timestamp": "2025-03-01T12:00:00Z",
			 "text": "here you go", "imageUrls": ["` + dataURI + `"], "imageMimeType": "image/png"}
		]
	}]`
	legacyPath := filepath.Join(dir, LegacyFileName)
	if err := os.WriteFile(legacyPath, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d conversations, want 1", len(loaded))
	}
	conv := loaded[0]
	if conv.ID != "legacy-1" || conv.Title != "Old chat" {
		t.Errorf("Identity = %s/%q", conv.ID, conv.Title)
	}
	if len(conv.Messages) != 3 {
		t.Fatalf("Loaded %d messages, want 3", len(conv.Messages))
	}
	if got := conv.Messages[0].Timestamp; !got.Equal(time.Date(2025, 3, 1, 11, 58, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v, want parsed RFC3339", got)
	}

	imgMsg := conv.Messages[2]
	if len(imgMsg.ImageRefs) != 1 {
		t.Fatalf("Image refs = %d, want 1", len(imgMsg.ImageRefs))
	}
	data, _, err := reg.Resolve(imgMsg.ImageRefs[0])
	if err != nil {
		t.Fatalf("Resolve migrated image: %v", err)
	}
	if !bytes.Equal(data, imgBytes) {
		t.Error("Migrated image bytes differ from data URI payload")
	}

	// The legacy file is consumed; a second load serves from sqlite.
	if _, err := os.Stat(legacyPath); !os.IsNotExist(err) {
		t.Error("Legacy file should be deleted after import")
	}
	again, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(again) != 1 || len(again[0].Messages) != 3 {
		t.Error("Second load after migration lost content")
	}
}

func TestStore_LegacyMigrationSkippedWhenStoreHasData(t *testing.T) {
	store, _, dir := newTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	if err := store.SaveConversations(ctx, []*model.Conversation{conv}); err != nil {
		t.Fatal(err)
	}

	legacyPath := filepath.Join(dir, LegacyFileName)
	legacy := `[{"id": "stale", "title": "Stale", "lastModified": "2024-01-01T00:00:00Z", "messages": []}]`
	if err := os.WriteFile(legacyPath, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadConversations(ctx)
	if err != nil {
		t.Fatalf("LoadConversations failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != conv.ID {
		t.Error("Populated store must ignore the legacy file")
	}
	if _, err := os.Stat(legacyPath); err != nil {
		t.Error("Legacy file should be untouched when the store has data")
	}
}
