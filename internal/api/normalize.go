// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// normalize.go - boundary validation of remote store payloads.
//
// The server's documents are loosely shaped: the assistant role is spelled
// "guru" on the wire, citations arrive as an optional "shloka" object, and
// directory listings are full conversation documents. Everything is checked
// and converted to the fixed model types here; malformed payloads become
// RemoteError instead of propagating undefined fields into the transcript.
package api

import (
	"encoding/json"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// wireShloka is the server's citation object.
type wireShloka struct {
	Sanskrit    string `json:"sanskrit"`
	Translation string `json:"translation"`
	Source      string `json:"source"`
}

// wireMessage is a message document as stored by the server.
type wireMessage struct {
	ID        string      `json:"id"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	Shloka    *wireShloka `json:"shloka"`
	Timestamp string      `json:"timestamp"`
}

// wireConversation is a conversation document. Directory listings return the
// full document; message_count is derived client-side.
type wireConversation struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	Messages  []wireMessage `json:"messages"`
}

// wireChatResponse is the response to a send.
type wireChatResponse struct {
	ConversationID string       `json:"conversation_id"`
	Message        *wireMessage `json:"message"`
	GuruResponse   *wireMessage `json:"guru_response"`
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// normalizeRole maps wire roles to model roles. The server spells the
// assistant role "guru"; newer deployments use "assistant".
func normalizeRole(role string) (model.Role, bool) {
	switch role {
	case "user":
		return model.RoleUser, true
	case "guru", "assistant":
		return model.RoleAssistant, true
	}
	return "", false
}

// parseTimestamp accepts the ISO-8601 variants the server emits. A missing
// timestamp is tolerated (zero time); a present but unparseable one is not.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// normalizeMessage validates one wire message and converts it.
func normalizeMessage(wire *wireMessage) (model.Message, error) {
	if wire == nil {
		return model.Message{}, malformed("missing message")
	}
	if wire.ID == "" {
		return model.Message{}, malformed("message without id")
	}

	role, ok := normalizeRole(wire.Role)
	if !ok {
		return model.Message{}, malformed("message %s has unknown role %q", wire.ID, wire.Role)
	}

	ts, ok := parseTimestamp(wire.Timestamp)
	if !ok {
		return model.Message{}, malformed("message %s has invalid timestamp %q", wire.ID, wire.Timestamp)
	}

	msg := model.Message{
		ID:        wire.ID,
		Role:      role,
		Content:   wire.Content,
		Timestamp: ts,
	}

	if wire.Shloka != nil && role == model.RoleAssistant {
		citation := model.Citation{
			SourceText:  wire.Shloka.Sanskrit,
			Translation: wire.Shloka.Translation,
			Attribution: wire.Shloka.Source,
		}
		if !citation.IsZero() {
			msg.Citation = &citation
		}
	}

	return msg, nil
}

// normalizeChatResponse validates a send response. Both halves of the
// exchange must be present; the transcript confirms them atomically.
func normalizeChatResponse(wire *wireChatResponse) (*SendResult, error) {
	if wire.ConversationID == "" {
		return nil, malformed("chat response without conversation id")
	}

	userMsg, err := normalizeMessage(wire.Message)
	if err != nil {
		return nil, err
	}
	if userMsg.Role != model.RoleUser {
		return nil, malformed("chat response echoed a non-user message")
	}
	userMsg.Status = model.StatusConfirmed

	assistantMsg, err := normalizeMessage(wire.GuruResponse)
	if err != nil {
		return nil, err
	}
	if assistantMsg.Role != model.RoleAssistant {
		return nil, malformed("chat response reply has role %q", assistantMsg.Role)
	}
	assistantMsg.Status = model.StatusConfirmed

	return &SendResult{
		ConversationID:   wire.ConversationID,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// normalizeSummary converts a conversation document to a directory entry.
func normalizeSummary(wire *wireConversation) (model.ConversationSummary, error) {
	if wire.ID == "" {
		return model.ConversationSummary{}, malformed("conversation without id")
	}

	createdAt, ok := parseTimestamp(wire.CreatedAt)
	if !ok {
		return model.ConversationSummary{}, malformed("conversation %s has invalid created_at", wire.ID)
	}
	updatedAt, ok := parseTimestamp(wire.UpdatedAt)
	if !ok {
		return model.ConversationSummary{}, malformed("conversation %s has invalid updated_at", wire.ID)
	}

	return model.ConversationSummary{
		ID:           wire.ID,
		Title:        wire.Title,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		MessageCount: len(wire.Messages),
	}, nil
}

// normalizeConversation converts a full conversation document.
func normalizeConversation(wire *wireConversation) (*model.Conversation, error) {
	sum, err := normalizeSummary(wire)
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(wire.Messages))
	for i := range wire.Messages {
		msg, err := normalizeMessage(&wire.Messages[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return &model.Conversation{
		ID:        sum.ID,
		UserID:    wire.UserID,
		Title:     sum.Title,
		CreatedAt: sum.CreatedAt,
		UpdatedAt: sum.UpdatedAt,
		Messages:  messages,
	}, nil
}

// =============================================================================
// PROFILES
// =============================================================================

// wireProfile is a user profile document.
type wireProfile struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Alignment          string `json:"alignment"`
	PreferredDeity     string `json:"preferred_deity"`
	PrimaryGoal        string `json:"primary_goal"`
	OnboardingComplete bool   `json:"onboarding_complete"`
	CreatedAt          string `json:"created_at"`
}

// decodeProfile parses and validates a profile response body.
func decodeProfile(body []byte) (*model.UserProfile, error) {
	var wire wireProfile
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformed("user profile: %v", err)
	}
	if wire.ID == "" {
		return nil, malformed("user profile without id")
	}

	alignment := model.Alignment(wire.Alignment)
	if !alignment.Valid() {
		alignment = model.AlignmentUniversal
	}

	createdAt, ok := parseTimestamp(wire.CreatedAt)
	if !ok {
		return nil, malformed("user profile %s has invalid created_at", wire.ID)
	}

	return &model.UserProfile{
		ID:                 wire.ID,
		Name:               wire.Name,
		Alignment:          alignment,
		PreferredDeity:     wire.PreferredDeity,
		PrimaryGoal:        wire.PrimaryGoal,
		OnboardingComplete: wire.OnboardingComplete,
		CreatedAt:          createdAt,
	}, nil
}
