// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// TitleMaxRunes is the number of leading runes of the first message the
// server keeps when deriving a conversation title.
const TitleMaxRunes = 50

// =============================================================================
// CONVERSATION SUMMARY
// =============================================================================

// ConversationSummary is the lightweight directory entry for one
// conversation. The full transcript is fetched separately.
type ConversationSummary struct {
	// ID is the durable identifier, assigned by the server on the first
	// successful exchange. Empty for a draft conversation.
	ID string `json:"id"`

	// Title is the short derived label shown in the sidebar.
	Title string `json:"title"`

	// UpdatedAt orders the directory, most recent first.
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`

	// MessageCount is display-only.
	MessageCount int `json:"message_count"`
}

// IsDraft reports whether the conversation has no durable id yet.
func (s ConversationSummary) IsDraft() bool {
	return s.ID == ""
}

// DeriveTitle mirrors the server's title rule: the first TitleMaxRunes runes
// of the opening message followed by an ellipsis. Used only for optimistic
// sidebar display; the server's value wins on the next directory refresh.
func DeriveTitle(firstMessage string) string {
	cleaned := strings.ReplaceAll(firstMessage, "\n", " ")
	runes := []rune(cleaned)
	if len(runes) > TitleMaxRunes {
		runes = runes[:TitleMaxRunes]
	}
	return string(runes) + "..."
}

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a full transcript as returned by the server's load
// endpoint: the summary plus the ordered message history.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// Summary returns the directory entry for this conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		Title:        c.Title,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
	}
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}
