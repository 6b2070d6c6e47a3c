// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// =============================================================================
// MESSAGE TYPE TAG
// =============================================================================

// MessageType is the tagged variant of a message. The variant decides
// which payload fields are meaningful.
type MessageType string

const (
	TypeText             MessageType = "text"
	TypeImageUpload      MessageType = "image-upload"
	TypeImageEnhanced    MessageType = "image-enhanced"
	TypeSystemInfo       MessageType = "system-info"
	TypeLoadingIndicator MessageType = "loading-indicator"
	TypeVideoGenerated   MessageType = "video-generated"
	TypeAudio            MessageType = "audio"
)

// =============================================================================
// MESSAGE
// =============================================================================

// Message represents a single message in a conversation.
//
// Media payload fields hold references: either durable data URIs or
// ephemeral in-process handles minted by internal/media. A message owns
// its media for display, but tool outputs are additionally recorded as
// gallery entries; HistoryID is a weak back-reference to that entry and
// neither side cascades deletion to the other.
type Message struct {
	// Identity
	ID        string      `json:"id"`
	Sender    Sender      `json:"sender"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`

	// Content holds free text, or the info line for system-info messages.
	Content string `json:"content,omitempty"`

	// Media references (variant-dependent)
	ImageRefs []string `json:"image_refs,omitempty"`
	VideoRef  string   `json:"video_ref,omitempty"`
	AudioRef  string   `json:"audio_ref,omitempty"`

	// ImageMimeType applies to the first image reference where relevant.
	ImageMimeType string `json:"image_mime_type,omitempty"`

	// PromptUsed records the prompt behind an enhanced image.
	PromptUsed string `json:"prompt_used,omitempty"`

	// HistoryID links an enhanced-image message to its gallery entry.
	HistoryID string `json:"history_id,omitempty"`
}

// NewMessage creates a message with a generated ID and current timestamp.
func NewMessage(sender Sender, typ MessageType) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

// NewTextMessage creates a plain text message.
func NewTextMessage(sender Sender, content string) *Message {
	msg := NewMessage(sender, TypeText)
	msg.Content = content
	return msg
}

// NewImageUploadMessage creates a user message carrying uploaded images.
func NewImageUploadMessage(refs []string, mimeType string) *Message {
	msg := NewMessage(SenderUser, TypeImageUpload)
	msg.ImageRefs = refs
	msg.ImageMimeType = mimeType
	return msg
}

// NewEnhancedImageMessage creates an AI message carrying a generated or
// edited image, linked to its gallery entry.
func NewEnhancedImageMessage(ref, mimeType, prompt, historyID string) *Message {
	msg := NewMessage(SenderAI, TypeImageEnhanced)
	msg.ImageRefs = []string{ref}
	msg.ImageMimeType = mimeType
	msg.PromptUsed = prompt
	msg.HistoryID = historyID
	return msg
}

// NewSystemInfoMessage creates an informational AI message.
func NewSystemInfoMessage(content string) *Message {
	msg := NewMessage(SenderAI, TypeSystemInfo)
	msg.Content = content
	return msg
}

// NewLoadingMessage creates the transient loading indicator. It is UI
// state only and is never persisted.
func NewLoadingMessage() *Message {
	return NewMessage(SenderAI, TypeLoadingIndicator)
}

// NewVideoMessage creates an AI message carrying a generated video.
func NewVideoMessage(ref, prompt string) *Message {
	msg := NewMessage(SenderAI, TypeVideoGenerated)
	msg.VideoRef = ref
	msg.PromptUsed = prompt
	return msg
}

// NewAudioMessage creates a message carrying an audio clip.
func NewAudioMessage(sender Sender, ref string) *Message {
	msg := NewMessage(sender, TypeAudio)
	msg.AudioRef = ref
	return msg
}

// IsTransient reports whether the message is ephemeral UI state that
// must be dropped before persistence.
func (m *Message) IsTransient() bool {
	return m.Type == TypeLoadingIndicator
}

// MediaRefs returns every non-empty media reference held by the message.
func (m *Message) MediaRefs() []string {
	refs := make([]string, 0, len(m.ImageRefs)+2)
	refs = append(refs, m.ImageRefs...)
	if m.VideoRef != "" {
		refs = append(refs, m.VideoRef)
	}
	if m.AudioRef != "" {
		refs = append(refs, m.AudioRef)
	}
	return refs
}
