// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the snapshot store. Conversations and gallery
// entries carry their media inline as BLOB columns so a database file
// is self-contained.
const Schema = `
-- Scalar key/value area (active conversation id and friends)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Conversations in display order
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    last_modified INTEGER NOT NULL  -- Unix millis
);

CREATE INDEX IF NOT EXISTS idx_conversations_position ON conversations(position);

-- Messages in per-conversation order. Video and audio payloads are
-- single blobs; images live in message_images (a message may carry
-- several).
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    sender TEXT NOT NULL,
    type TEXT NOT NULL,
    timestamp INTEGER NOT NULL,     -- Unix millis
    content TEXT NOT NULL,
    image_mime_type TEXT,
    prompt_used TEXT,
    history_id TEXT,
    video BLOB,
    video_mime TEXT,
    audio BLOB,
    audio_mime TEXT,
    FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, position);

CREATE TABLE IF NOT EXISTS message_images (
    message_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    data BLOB NOT NULL,
    mime_type TEXT NOT NULL,
    FOREIGN KEY(message_id) REFERENCES messages(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_message_images_message ON message_images(message_id, position);

-- Gallery entries in insertion order, three blob slots per entry:
-- the upload (may be absent for text-to-image), the current enhanced
-- image, and the uncropped enhanced baseline. Every slot is nullable:
-- an entry outlives any of its blobs.
CREATE TABLE IF NOT EXISTS gallery_entries (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    original BLOB,
    original_mime TEXT,
    enhanced BLOB,
    enhanced_mime TEXT,
    uncropped BLOB,
    uncropped_mime TEXT,
    image_mime_type TEXT,
    prompt_used TEXT,
    timestamp INTEGER NOT NULL,     -- Unix millis
    applied_filter TEXT NOT NULL,
    applied_brightness INTEGER NOT NULL,
    applied_contrast INTEGER NOT NULL,
    applied_social_filter TEXT NOT NULL,
    applied_social_intensity INTEGER NOT NULL,
    applied_ai_filter TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gallery_position ON gallery_entries(position);
`
