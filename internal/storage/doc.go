// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations, the image gallery, and the
// active-conversation selection in a local SQLite database, with media
// embedded as BLOBs.
//
// Every save is a full snapshot inside one transaction (delete all,
// insert all): a failed save leaves the previous snapshot intact.
// Loads mint fresh media handles for every blob; handles from before a
// reload are never reused.
//
// # Key Types
//
//   - Store: the snapshot store; one per database file
//
// # Usage
//
// Open a store and round-trip state:
//
//	store, err := storage.Open(dbPath, registry, logger)
//	err = store.SaveConversations(ctx, conversations)
//	convs, err := store.LoadConversations(ctx)
//
// The first load against an empty database imports a legacy
// conversations.json file when one exists, then deletes it.
package storage
