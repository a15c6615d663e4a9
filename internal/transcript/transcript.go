// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the ordered message history of the open
// conversation, including the optimistic pending entry.
//
// A Transcript is exclusively owned by the active view. Navigation replaces
// the instance wholesale instead of mutating it in place, so pending state
// can never leak across conversations and readers always see an internally
// consistent sequence.
package transcript

import (
	"errors"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrConcurrentSend is returned by AppendPending while another pending
	// message exists. At most one send is in flight per transcript.
	ErrConcurrentSend = errors.New("a send is already in flight")

	// ErrNoSuchPending is returned by Confirm or Rollback when the transient
	// id does not match the current pending entry.
	ErrNoSuchPending = errors.New("no pending message with that id")
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the in-memory message sequence for one conversation.
// Messages are strictly append-ordered; nothing reorders by timestamp.
type Transcript struct {
	conversationID string
	messages       []model.Message

	// pendingID and pendingText track the single optimistic entry. The
	// original input text is kept so a rollback can restore the buffer.
	pendingID   string
	pendingText string

	// onChange, when set, is invoked after every mutation so the view
	// layer can re-render.
	onChange func()
}

// New creates a transcript bound to an existing conversation, replacing any
// prior content with the server history.
func New(conversationID string, history []model.Message) *Transcript {
	msgs := make([]model.Message, len(history))
	copy(msgs, history)
	return &Transcript{
		conversationID: conversationID,
		messages:       msgs,
	}
}

// NewDraft creates an empty transcript for a conversation that has no
// durable id yet.
func NewDraft() *Transcript {
	return &Transcript{}
}

// OnChange registers the view-layer notification hook.
func (t *Transcript) OnChange(fn func()) {
	t.onChange = fn
}

func (t *Transcript) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ConversationID returns the bound conversation id, empty for a draft.
func (t *Transcript) ConversationID() string {
	return t.conversationID
}

// AdoptConversationID binds a draft transcript to its newly assigned durable
// id. The message sequence is untouched: after the first confirmed exchange
// the transcript already holds the full, correct history.
func (t *Transcript) AdoptConversationID(id string) {
	if t.conversationID == "" {
		t.conversationID = id
	}
}

// IsDraft reports whether the transcript has no durable conversation id.
func (t *Transcript) IsDraft() bool {
	return t.conversationID == ""
}

// Messages returns a snapshot of the message sequence.
func (t *Transcript) Messages() []model.Message {
	msgs := make([]model.Message, len(t.messages))
	copy(msgs, t.messages)
	return msgs
}

// Len returns the number of messages, including a pending entry.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// PendingCount returns the number of pending messages: always 0 or 1.
func (t *Transcript) PendingCount() int {
	if t.pendingID != "" {
		return 1
	}
	return 0
}

// HasPending reports whether a send is in flight.
func (t *Transcript) HasPending() bool {
	return t.pendingID != ""
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AppendPending appends an optimistic user message and returns its transient
// id. Fails with ErrConcurrentSend while another pending entry exists,
// leaving the transcript unchanged.
func (t *Transcript) AppendPending(content string) (string, error) {
	if t.pendingID != "" {
		return "", ErrConcurrentSend
	}

	msg := model.NewPendingMessage(content)
	t.messages = append(t.messages, msg)
	t.pendingID = msg.ID
	t.pendingText = content
	t.notify()
	return msg.ID, nil
}

// Confirm atomically replaces the pending entry with the server-confirmed
// user message and appends the assistant's reply. Observers never see the
// confirmed user message without its reply.
func (t *Transcript) Confirm(transientID string, userMsg, assistantMsg model.Message) error {
	idx, err := t.pendingIndex(transientID)
	if err != nil {
		return err
	}

	t.messages[idx] = userMsg
	t.messages = append(t.messages, model.Message{})
	copy(t.messages[idx+2:], t.messages[idx+1:])
	t.messages[idx+1] = assistantMsg

	t.pendingID = ""
	t.pendingText = ""
	t.notify()
	return nil
}

// Rollback removes the pending entry and returns the original input text so
// the caller can restore it into the input buffer for retry.
func (t *Transcript) Rollback(transientID string) (string, error) {
	idx, err := t.pendingIndex(transientID)
	if err != nil {
		return "", err
	}

	original := t.pendingText
	t.messages = append(t.messages[:idx], t.messages[idx+1:]...)
	t.pendingID = ""
	t.pendingText = ""
	t.notify()
	return original, nil
}

// pendingIndex locates the pending entry for the given transient id.
func (t *Transcript) pendingIndex(transientID string) (int, error) {
	if t.pendingID == "" || t.pendingID != transientID {
		return 0, ErrNoSuchPending
	}
	for i := range t.messages {
		if t.messages[i].ID == transientID {
			return i, nil
		}
	}
	return 0, ErrNoSuchPending
}
