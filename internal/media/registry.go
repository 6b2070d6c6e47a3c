// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// HandlePrefix is the scheme marking a live, in-process media handle.
const HandlePrefix = "mem://"

const dataURIPrefix = "data:"

// ErrHandleReleased is returned when a live handle has been invalidated
// and can no longer be resolved to bytes.
var ErrHandleReleased = errors.New("media handle released")

// ErrBadReference is returned for references that are neither data URIs
// nor live handles.
var ErrBadReference = errors.New("malformed media reference")

// =============================================================================
// REGISTRY
// =============================================================================

type blob struct {
	data []byte
	mime string
}

// Registry holds the byte buffers behind live handles. Handles minted by
// one Registry are meaningless to another and to later processes.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]blob
}

// NewRegistry creates an empty handle registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]blob)}
}

// Mint registers a byte buffer and returns a fresh live handle for it.
func (r *Registry) Mint(data []byte, mimeType string) string {
	handle := HandlePrefix + uuid.NewString()
	r.mu.Lock()
	r.blobs[handle] = blob{data: data, mime: mimeType}
	r.mu.Unlock()
	return handle
}

// Release invalidates a handle. Resolving it afterwards fails with
// ErrHandleReleased. Returns false when the handle was already gone.
func (r *Registry) Release(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[handle]; !ok {
		return false
	}
	delete(r.blobs, handle)
	return true
}

// ReleaseAll invalidates every handle minted by this registry.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	r.blobs = make(map[string]blob)
	r.mu.Unlock()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}

// Resolve returns the bytes and mime type behind a reference. Both data
// URIs and live handles are accepted; an empty reference resolves to
// nil bytes without error.
func (r *Registry) Resolve(ref string) ([]byte, string, error) {
	switch {
	case ref == "":
		return nil, "", nil
	case strings.HasPrefix(ref, HandlePrefix):
		r.mu.Lock()
		b, ok := r.blobs[ref]
		r.mu.Unlock()
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrHandleReleased, ref)
		}
		return b.data, b.mime, nil
	case strings.HasPrefix(ref, dataURIPrefix):
		return DecodeDataURI(ref)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrBadReference, ref)
	}
}

// IsHandle reports whether the reference is a live handle (as opposed to
// a durable data URI).
func IsHandle(ref string) bool {
	return strings.HasPrefix(ref, HandlePrefix)
}

// =============================================================================
// DATA URI CODEC
// =============================================================================

// EncodeDataURI builds a base64 data URI for the given bytes.
func EncodeDataURI(data []byte, mimeType string) string {
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI parses a base64 data URI into bytes and a mime type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil, "", fmt.Errorf("%w: missing data: prefix", ErrBadReference)
	}
	head, payload, found := strings.Cut(uri[len(dataURIPrefix):], ",")
	if !found {
		return nil, "", fmt.Errorf("%w: missing comma separator", ErrBadReference)
	}
	mimeType, ok := strings.CutSuffix(head, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("%w: only base64 data URIs are supported", ErrBadReference)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadReference, err)
	}
	return data, mimeType, nil
}
