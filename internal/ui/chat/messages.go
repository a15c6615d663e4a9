// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the prana TUI.
//
// This file defines the Bubble Tea message types the view exchanges with
// its async commands. Every message produced by a network command carries
// the binding (or ticket) it was issued under; Update compares it against
// the current binding and discards stale results by value.
package chat

import (
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendFinishedMsg reports the outcome of one dispatched send.
type SendFinishedMsg struct {
	Ticket   session.Ticket
	Result   *api.SendResult
	Err      error
	Duration time.Duration
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// HistoryLoadedMsg delivers a conversation history load.
type HistoryLoadedMsg struct {
	Binding      session.Binding
	Conversation *model.Conversation
	Err          error
}

// =============================================================================
// DIRECTORY MESSAGES
// =============================================================================

// DirectoryRefreshedMsg reports a completed directory refresh.
type DirectoryRefreshedMsg struct {
	Err error
}

// ConversationDeletedMsg reports a completed delete.
type ConversationDeletedMsg struct {
	ConversationID string
	Err            error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportFinishedMsg reports a completed conversation export.
type ExportFinishedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// toastTickMsg re-renders after the toast deadline passes.
type toastTickMsg struct{}
