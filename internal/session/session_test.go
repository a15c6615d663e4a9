// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/transcript"
)

// fakeSender scripts SendMessage responses without a network.
type fakeSender struct {
	calls   int
	lastReq struct{ userID, conversationID, content string }
	result  *api.SendResult
	err     error
}

func (f *fakeSender) SendMessage(_ context.Context, userID, conversationID, content string) (*api.SendResult, error) {
	f.calls++
	f.lastReq.userID = userID
	f.lastReq.conversationID = conversationID
	f.lastReq.content = content
	return f.result, f.err
}

func exchangeResult(convID, text, reply string) *api.SendResult {
	now := time.Now()
	return &api.SendResult{
		ConversationID: convID,
		UserMessage: model.Message{
			ID: "srv-u1", Role: model.RoleUser, Content: text,
			Timestamp: now, Status: model.StatusConfirmed,
		},
		AssistantMessage: model.Message{
			ID: "srv-a1", Role: model.RoleAssistant, Content: reply,
			Timestamp: now.Add(time.Second), Status: model.StatusConfirmed,
		},
	}
}

func newTestPipeline(t *testing.T, sender ChatSender) *Pipeline {
	t.Helper()
	sess, err := NewSession("user-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return NewPipeline(sess, sender)
}

// =============================================================================
// SESSION
// =============================================================================

func TestNewSession_RequiresUserID(t *testing.T) {
	if _, err := NewSession("  "); !errors.Is(err, ErrNoUser) {
		t.Errorf("err = %v, want ErrNoUser", err)
	}
	if _, err := NewSession("user-1"); err != nil {
		t.Errorf("valid user id rejected: %v", err)
	}
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

func TestSend_FirstMessageAssignsIdentity(t *testing.T) {
	sender := &fakeSender{result: exchangeResult("conv-new", "What is dharma?", "I hear you.")}
	p := newTestPipeline(t, sender)
	b := NewBinder()

	ticket, err := p.Begin(b, "What is dharma?")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !ticket.Binding.IsDraft() {
		t.Error("first send should be issued under a draft binding")
	}
	if b.Transcript().PendingCount() != 1 {
		t.Error("optimistic entry should be visible before the network call")
	}

	result, err := p.Dispatch(context.Background(), ticket)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sender.lastReq.conversationID != "" {
		t.Errorf("draft send carried conversation id %q", sender.lastReq.conversationID)
	}
	if sender.lastReq.userID != "user-1" {
		t.Errorf("send carried user id %q, want user-1", sender.lastReq.userID)
	}

	if !p.Complete(b, ticket, result) {
		t.Fatal("Complete discarded a current result")
	}
	if b.Current().ConversationID != "conv-new" {
		t.Errorf("binding id = %q, want adopted conv-new", b.Current().ConversationID)
	}
	if b.Current().Version != ticket.Binding.Version {
		t.Error("identity adoption must not bump the navigation version")
	}

	msgs := b.Transcript().Messages()
	if len(msgs) != 2 {
		t.Fatalf("transcript holds %d messages, want confirmed exchange of 2", len(msgs))
	}
	if msgs[0].Status != model.StatusConfirmed || msgs[1].Role != model.RoleAssistant {
		t.Error("transcript should hold the confirmed user message followed by the reply")
	}
}

func TestSend_FollowUpCarriesConversationID(t *testing.T) {
	sender := &fakeSender{result: exchangeResult("conv-1", "and karma?", "Action binds.")}
	p := newTestPipeline(t, sender)
	b := NewBinder()
	b.OpenConversation("conv-1")
	b.CompleteLoad(b.Current(), &model.Conversation{ID: "conv-1"})

	ticket, err := p.Begin(b, "and karma?")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := p.Dispatch(context.Background(), ticket); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sender.lastReq.conversationID != "conv-1" {
		t.Errorf("send carried conversation id %q, want conv-1", sender.lastReq.conversationID)
	}
}

func TestSend_EmptyInputRejected(t *testing.T) {
	p := newTestPipeline(t, &fakeSender{})
	b := NewBinder()

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := p.Begin(b, input); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Begin(%q) err = %v, want ErrEmptyMessage", input, err)
		}
	}
	if b.Transcript().Len() != 0 {
		t.Error("rejected input must not touch the transcript")
	}
}

func TestSend_SingleInFlight(t *testing.T) {
	p := newTestPipeline(t, &fakeSender{})
	b := NewBinder()

	if _, err := p.Begin(b, "first"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := p.Begin(b, "second"); !errors.Is(err, transcript.ErrConcurrentSend) {
		t.Errorf("second Begin err = %v, want ErrConcurrentSend", err)
	}
}

func TestSend_FailureRollsBackAndRestoresInput(t *testing.T) {
	sender := &fakeSender{err: &api.RemoteError{Status: 500, Message: "boom"}}
	p := newTestPipeline(t, sender)
	b := NewBinder()

	ticket, _ := p.Begin(b, "What is dharma?")
	if _, err := p.Dispatch(context.Background(), ticket); err == nil {
		t.Fatal("Dispatch should propagate the remote error")
	}
	if sender.calls != 1 {
		t.Errorf("sender called %d times, want exactly 1 (no retry)", sender.calls)
	}

	restored, ok := p.Fail(b, ticket)
	if !ok {
		t.Fatal("Fail discarded a current rollback")
	}
	if restored != "What is dharma?" {
		t.Errorf("restored input = %q, want the original text", restored)
	}
	if b.Transcript().Len() != 0 {
		t.Error("transcript should be back to its pre-send state")
	}
	if b.Current().IsDraft() != true {
		t.Error("failed first send must leave the conversation a draft")
	}

	// The user can immediately try again.
	if _, err := p.Begin(b, restored); err != nil {
		t.Errorf("resend after rollback failed: %v", err)
	}
}

func TestSend_StaleResultDiscarded(t *testing.T) {
	sender := &fakeSender{result: exchangeResult("conv-old", "hi", "hello")}
	p := newTestPipeline(t, sender)
	b := NewBinder()

	ticket, _ := p.Begin(b, "hi")
	result, _ := p.Dispatch(context.Background(), ticket)

	// User navigates away while the send is in flight.
	b.NewDraft()

	if p.Complete(b, ticket, result) {
		t.Error("Complete applied a result from a superseded binding")
	}
	if b.Current().ConversationID != "" {
		t.Error("stale result must not adopt an id into the new draft")
	}
	if b.Transcript().Len() != 0 {
		t.Error("stale result must not touch the new transcript")
	}

	if _, ok := p.Fail(b, ticket); ok {
		t.Error("Fail should also discard under a superseded binding")
	}
}

// =============================================================================
// NAVIGATION BINDER
// =============================================================================

func TestBinder_NavigationBumpsVersion(t *testing.T) {
	b := NewBinder()
	v0 := b.Current().Version

	bind1 := b.OpenConversation("conv-1")
	if bind1.Version <= v0 {
		t.Error("OpenConversation must bump the version")
	}
	if !b.Loading() {
		t.Error("opening an existing conversation should enter loading state")
	}

	bind2 := b.NewDraft()
	if bind2.Version <= bind1.Version {
		t.Error("NewDraft must bump the version")
	}
	if b.Loading() {
		t.Error("a draft has nothing to load")
	}
}

func TestBinder_StaleLoadDiscarded(t *testing.T) {
	b := NewBinder()
	first := b.OpenConversation("conv-1")
	b.OpenConversation("conv-2")

	conv := &model.Conversation{
		ID:       "conv-1",
		Messages: []model.Message{{ID: "m1", Role: model.RoleUser, Content: "old"}},
	}
	if b.CompleteLoad(first, conv) {
		t.Error("load for a superseded binding must be discarded")
	}
	if b.Transcript().Len() != 0 {
		t.Error("stale history must not leak into the current transcript")
	}
	if !b.Loading() {
		t.Error("the current binding's load is still outstanding")
	}
}

func TestBinder_CompleteLoadInstallsHistory(t *testing.T) {
	b := NewBinder()
	bind := b.OpenConversation("conv-1")

	conv := &model.Conversation{
		ID: "conv-1",
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "What is dharma?"},
			{ID: "m2", Role: model.RoleAssistant, Content: "I hear you."},
		},
	}
	if !b.CompleteLoad(bind, conv) {
		t.Fatal("current load was discarded")
	}
	if b.Loading() {
		t.Error("loading flag should clear on completion")
	}
	if b.Transcript().Len() != 2 {
		t.Errorf("transcript holds %d messages, want 2", b.Transcript().Len())
	}
}

func TestBinder_HandleDeleted(t *testing.T) {
	b := NewBinder()
	bind := b.OpenConversation("conv-1")
	b.CompleteLoad(bind, &model.Conversation{ID: "conv-1"})

	if !b.HandleDeleted("conv-1") {
		t.Fatal("deleting the active conversation should report true")
	}
	if !b.Current().IsDraft() {
		t.Error("binder should fall back to a draft")
	}

	if b.HandleDeleted("conv-other") {
		t.Error("deleting an inactive conversation should not disturb the binding")
	}
}

func TestBinder_AdoptOnlyFromDraft(t *testing.T) {
	b := NewBinder()
	bind := b.OpenConversation("conv-1")
	b.CompleteLoad(bind, &model.Conversation{ID: "conv-1"})

	b.Adopt("conv-other")
	if b.Current().ConversationID != "conv-1" {
		t.Error("Adopt must be a no-op on an existing conversation")
	}
}
