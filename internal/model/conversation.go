// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title a conversation starts with until
// the first user message supplies a better one.
const DefaultTitle = "New conversation"

// titleRuneLimit caps derived conversation titles.
const titleRuneLimit = 30

// WelcomeText is the system message seeded into every new conversation.
const WelcomeText = "Hi! Send me a photo and tell me what you would like to change."

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation holds a chat session: an append-only, chronologically
// ordered message list plus metadata.
type Conversation struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Messages     []*Message `json:"messages"`
	LastModified time.Time  `json:"last_modified"`
}

// NewConversation creates a conversation seeded with the welcome message.
func NewConversation() *Conversation {
	return &Conversation{
		ID:           uuid.NewString(),
		Title:        DefaultTitle,
		Messages:     []*Message{NewSystemInfoMessage(WelcomeText)},
		LastModified: time.Now(),
	}
}

// NewEmptyConversation creates a conversation with no messages, for the
// explicit empty-start case.
func NewEmptyConversation() *Conversation {
	return &Conversation{
		ID:           uuid.NewString(),
		Title:        DefaultTitle,
		Messages:     []*Message{},
		LastModified: time.Now(),
	}
}

// Append adds a message, dropping any pending loading indicator first.
// A user message replaces the placeholder title with its leading text.
func (c *Conversation) Append(msg *Message) {
	kept := c.Messages[:0]
	for _, m := range c.Messages {
		if !m.IsTransient() {
			kept = append(kept, m)
		}
	}
	c.Messages = append(kept, msg)
	c.LastModified = time.Now()

	if msg.Sender == SenderUser && c.Title == DefaultTitle {
		c.Title = deriveTitle(msg.Content)
	}
}

// Remove deletes the message with the given ID. Gallery entries
// referenced by the message are unaffected.
func (c *Conversation) Remove(messageID string) bool {
	for i, m := range c.Messages {
		if m.ID == messageID {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.LastModified = time.Now()
			return true
		}
	}
	return false
}

// PersistableMessages returns the messages eligible for storage, with
// transient loading indicators filtered out.
func (c *Conversation) PersistableMessages() []*Message {
	out := make([]*Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if !m.IsTransient() {
			out = append(out, m)
		}
	}
	return out
}

// deriveTitle builds a conversation title from user text.
func deriveTitle(content string) string {
	if content == "" {
		return "Image conversation"
	}
	runes := []rune(content)
	if len(runes) > titleRuneLimit {
		return string(runes[:titleRuneLimit])
	}
	return content
}
