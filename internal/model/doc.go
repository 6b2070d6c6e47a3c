// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages
// and the image gallery.
//
// This package defines the core domain types used throughout the
// application, plus the pure state transitions on gallery entries
// (reset, crop, rebase). Nothing in here performs I/O; persistence and
// pixel work live in internal/storage and internal/compositing.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with sender, variant type and media references
//   - GalleryEntry: One generated/edited image with its adjustment state
//   - Gallery: Insertion-ordered collection of gallery entries
//
// # Usage
//
// Create a new conversation and append a message:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewTextMessage(model.SenderUser, "Make it brighter"))
//
// Rebase a gallery entry after a server-side filter:
//
//	entry = entry.ApplyServerFilterResult(newRef, model.AIFilterCinematic)
package model
