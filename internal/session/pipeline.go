// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// pipeline.go - the optimistic send path.
//
// A send moves through three phases on the event loop, with the network call
// in between running off-loop:
//
//	Begin    validate input, append the pending entry, hand out a ticket
//	Dispatch perform the network exchange (blocking, context-aware)
//	Complete / Fail   confirm atomically, or roll back and restore input
//
// Failed sends are never retried automatically. The rolled-back text goes
// back into the input buffer and the user decides.

package session

import (
	"context"
	"strings"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
)

// ChatSender is the remote half of the pipeline, satisfied by *api.Client.
type ChatSender interface {
	SendMessage(ctx context.Context, userID, conversationID, content string) (*api.SendResult, error)
}

// Ticket identifies one in-flight send: the binding it was issued under and
// the transient id of its optimistic entry.
type Ticket struct {
	Binding     Binding
	TransientID string
	Content     string
}

// Pipeline runs sends for one session.
type Pipeline struct {
	session *Session
	sender  ChatSender
}

// NewPipeline creates a send pipeline.
func NewPipeline(session *Session, sender ChatSender) *Pipeline {
	return &Pipeline{session: session, sender: sender}
}

// Begin validates the input and appends the optimistic entry to the active
// transcript. Whitespace-only input fails with ErrEmptyMessage; a send
// already in flight fails with transcript.ErrConcurrentSend. Either way the
// transcript is untouched on failure.
func (p *Pipeline) Begin(b *Binder, input string) (Ticket, error) {
	if strings.TrimSpace(input) == "" {
		return Ticket{}, ErrEmptyMessage
	}

	transientID, err := b.Transcript().AppendPending(input)
	if err != nil {
		return Ticket{}, err
	}

	return Ticket{
		Binding:     b.Current(),
		TransientID: transientID,
		Content:     input,
	}, nil
}

// Dispatch performs the network exchange for a ticket. Safe to call off the
// event loop; it touches no shared state.
func (p *Pipeline) Dispatch(ctx context.Context, t Ticket) (*api.SendResult, error) {
	return p.sender.SendMessage(ctx, p.session.UserID, t.Binding.ConversationID, t.Content)
}

// Complete applies a successful exchange to the binder. A draft adopts the
// server-assigned conversation id before the transcript confirms. Returns
// false when the user navigated away since Begin; the result is discarded
// and the abandoned transcript is left to the garbage collector.
func (p *Pipeline) Complete(b *Binder, t Ticket, result *api.SendResult) bool {
	if b.Current().Version != t.Binding.Version {
		return false
	}

	if t.Binding.IsDraft() {
		b.Adopt(result.ConversationID)
	}
	if err := b.Transcript().Confirm(t.TransientID, result.UserMessage, result.AssistantMessage); err != nil {
		return false
	}
	return true
}

// Fail rolls the pending entry back after a failed send and returns the
// original input text for the caller to restore into the input buffer.
// Returns ok=false when the binding is stale; nothing to roll back then,
// the transcript holding the entry is already abandoned.
func (p *Pipeline) Fail(b *Binder, t Ticket) (restored string, ok bool) {
	if b.Current().Version != t.Binding.Version {
		return "", false
	}
	text, err := b.Transcript().Rollback(t.TransientID)
	if err != nil {
		return "", false
	}
	return text, true
}
