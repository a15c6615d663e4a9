// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Prana"
	default:
		return string(r)
	}
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status tracks a message's delivery state on the client.
//
// The zero value means the message was loaded from server history and is
// implicitly confirmed.
type Status string

const (
	// StatusPending marks a locally appended message awaiting the server's
	// acknowledgement. A transcript holds at most one pending message.
	StatusPending Status = "pending"

	// StatusConfirmed marks a message acknowledged by the server with a
	// durable id assigned.
	StatusConfirmed Status = "confirmed"
)

// =============================================================================
// CITATION TYPE
// =============================================================================

// Citation is an optional structured scripture reference attached to an
// assistant reply.
type Citation struct {
	// SourceText is the original text, typically Sanskrit.
	SourceText string `json:"source_text"`

	// Translation is the English rendering of the source text.
	Translation string `json:"translation,omitempty"`

	// Attribution names the scripture and verse, e.g. "Bhagavad Gita 2.47".
	Attribution string `json:"attribution,omitempty"`
}

// IsZero returns true if the citation carries no content.
func (c Citation) IsZero() bool {
	return c.SourceText == "" && c.Translation == "" && c.Attribution == ""
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// TransientIDPrefix marks locally generated message ids. Durable server ids
// never carry this prefix, keeping the two id spaces disjoint.
const TransientIDPrefix = "local-"

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Citation is set only on assistant messages, and only when the server
	// attached a scripture reference to the reply.
	Citation *Citation `json:"citation,omitempty"`

	// Status is the client-side delivery state. Empty for history messages.
	Status Status `json:"-"`
}

// NewPendingMessage creates a user message with a transient id, awaiting
// server confirmation.
func NewPendingMessage(content string) Message {
	return Message{
		ID:        NewTransientID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
		Status:    StatusPending,
	}
}

// NewTransientID generates a local message id outside the durable id space.
func NewTransientID() string {
	return TransientIDPrefix + uuid.NewString()
}

// IsTransientID reports whether id was generated locally.
func IsTransientID(id string) bool {
	return strings.HasPrefix(id, TransientIDPrefix)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsPending reports whether the message awaits server confirmation.
func (m Message) IsPending() bool {
	return m.Status == StatusPending
}

// HasCitation reports whether the message carries a scripture reference.
func (m Message) HasCitation() bool {
	return m.Citation != nil && !m.Citation.IsZero()
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}
