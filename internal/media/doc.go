// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package media manages live, process-local media handles and durable
// data-URI references.
//
// A reference is either a data URI (durable, self-contained) or a live
// handle (mem:// scheme) pointing at bytes held by a Registry. Live
// handles are transient: they are minted fresh on every load and become
// unresolvable once released. The persistence layer treats stored bytes
// as the single source of truth and never reuses a handle across
// reloads.
//
// # Key Types
//
//   - Registry: mints, resolves and releases live handles
//   - ErrHandleReleased: returned when a handle no longer resolves
//
// # Usage
//
//	reg := media.NewRegistry()
//	ref := reg.Mint(pngBytes, "image/png")
//	data, mime, err := reg.Resolve(ref)
package media
