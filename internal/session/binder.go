// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// binder.go - navigation state machine for the active conversation.

package session

import (
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/transcript"
)

// =============================================================================
// BINDING
// =============================================================================

// Binding identifies what the view is bound to at a moment in time. The
// version is a monotonic counter bumped on every navigation; async results
// carry the binding they were issued under and are discarded on mismatch.
type Binding struct {
	Version        uint64
	ConversationID string
}

// IsDraft reports whether the binding targets a conversation with no
// durable id yet.
func (b Binding) IsDraft() bool {
	return b.ConversationID == ""
}

// =============================================================================
// BINDER
// =============================================================================

// Binder tracks the active conversation and swaps the transcript wholesale
// on navigation. There is no cancellation of in-flight loads or sends;
// superseded results are detected by version comparison when they land.
type Binder struct {
	current    Binding
	transcript *transcript.Transcript
	loading    bool
}

// NewBinder creates a binder starting on a fresh draft.
func NewBinder() *Binder {
	return &Binder{
		current:    Binding{Version: 1},
		transcript: transcript.NewDraft(),
	}
}

// Current returns the active binding.
func (b *Binder) Current() Binding {
	return b.current
}

// Transcript returns the transcript of the active conversation.
func (b *Binder) Transcript() *transcript.Transcript {
	return b.transcript
}

// Loading reports whether a history load for the current binding is
// outstanding.
func (b *Binder) Loading() bool {
	return b.loading
}

// NewDraft navigates to a fresh draft conversation. Any pending send in the
// old transcript is abandoned with it; its eventual result will fail the
// version check and be dropped.
func (b *Binder) NewDraft() Binding {
	b.current = Binding{Version: b.current.Version + 1}
	b.transcript = transcript.NewDraft()
	b.loading = false
	return b.current
}

// OpenConversation navigates to an existing conversation. The transcript is
// replaced with an empty placeholder immediately; the caller dispatches a
// history load tagged with the returned binding and delivers it through
// CompleteLoad.
func (b *Binder) OpenConversation(conversationID string) Binding {
	b.current = Binding{
		Version:        b.current.Version + 1,
		ConversationID: conversationID,
	}
	b.transcript = transcript.New(conversationID, nil)
	b.loading = true
	return b.current
}

// CompleteLoad installs loaded history if the binding is still current.
// Returns false when the result is stale and was discarded.
func (b *Binder) CompleteLoad(issued Binding, conv *model.Conversation) bool {
	if issued != b.current {
		return false
	}
	b.transcript = transcript.New(conv.ID, conv.Messages)
	b.loading = false
	return true
}

// FailLoad clears the loading flag if the failed load belongs to the
// current binding. Stale failures are ignored entirely.
func (b *Binder) FailLoad(issued Binding) bool {
	if issued != b.current {
		return false
	}
	b.loading = false
	return true
}

// Adopt binds a draft to its server-assigned conversation id. This is an
// identity change, not a navigation: the transcript and version are kept,
// and no reload happens because the draft already holds the full history.
func (b *Binder) Adopt(conversationID string) {
	if !b.current.IsDraft() {
		return
	}
	b.current.ConversationID = conversationID
	b.transcript.AdoptConversationID(conversationID)
}

// HandleDeleted reacts to a conversation being deleted elsewhere. When the
// active conversation is the deleted one, the binder falls back to a fresh
// draft and reports true.
func (b *Binder) HandleDeleted(conversationID string) bool {
	if conversationID == "" || b.current.ConversationID != conversationID {
		return false
	}
	b.NewDraft()
	return true
}
