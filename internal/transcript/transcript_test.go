// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"errors"
	"testing"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

func confirmedPair(text, reply string) (model.Message, model.Message) {
	now := time.Now()
	userMsg := model.Message{
		ID: "srv-user-1", Role: model.RoleUser, Content: text,
		Timestamp: now, Status: model.StatusConfirmed,
	}
	assistantMsg := model.Message{
		ID: "srv-guru-1", Role: model.RoleAssistant, Content: reply,
		Timestamp: now.Add(2 * time.Second), Status: model.StatusConfirmed,
	}
	return userMsg, assistantMsg
}

// =============================================================================
// PENDING INVARIANT
// =============================================================================

func TestAppendPending_AtMostOne(t *testing.T) {
	tr := NewDraft()

	id, err := tr.AppendPending("What is dharma?")
	if err != nil {
		t.Fatalf("first AppendPending failed: %v", err)
	}
	if !model.IsTransientID(id) {
		t.Errorf("pending id %q should be transient", id)
	}
	if tr.PendingCount() != 1 {
		t.Errorf("PendingCount = %d, want 1", tr.PendingCount())
	}

	before := tr.Messages()
	if _, err := tr.AppendPending("second question"); !errors.Is(err, ErrConcurrentSend) {
		t.Fatalf("second AppendPending err = %v, want ErrConcurrentSend", err)
	}

	after := tr.Messages()
	if len(after) != len(before) {
		t.Errorf("rejected append mutated the transcript: %d -> %d messages", len(before), len(after))
	}
	if tr.PendingCount() != 1 {
		t.Errorf("PendingCount after rejection = %d, want 1", tr.PendingCount())
	}
}

func TestAppendPending_EntryShape(t *testing.T) {
	tr := New("conv-1", []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "earlier"},
		{ID: "m2", Role: model.RoleAssistant, Content: "reply"},
	})

	id, err := tr.AppendPending("What is dharma?")
	if err != nil {
		t.Fatalf("AppendPending failed: %v", err)
	}

	msgs := tr.Messages()
	last := msgs[len(msgs)-1]
	if last.ID != id {
		t.Errorf("pending entry id = %q, want %q", last.ID, id)
	}
	if last.Status != model.StatusPending {
		t.Errorf("pending entry status = %q, want %q", last.Status, model.StatusPending)
	}
	if last.Role != model.RoleUser {
		t.Errorf("pending entry role = %q, want %q", last.Role, model.RoleUser)
	}
}

// =============================================================================
// CONFIRM
// =============================================================================

func TestConfirm_ReplacesAndAppendsAtomically(t *testing.T) {
	tr := New("conv-1", []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "earlier"},
	})

	id, _ := tr.AppendPending("What is dharma?")
	userMsg, assistantMsg := confirmedPair("What is dharma?", "I hear you.")

	if err := tr.Confirm(id, userMsg, assistantMsg); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3 (one prior + confirmed exchange)", len(msgs))
	}
	if msgs[1].ID != "srv-user-1" || msgs[1].Status != model.StatusConfirmed {
		t.Errorf("position of pending entry holds %q (%q), want confirmed srv-user-1", msgs[1].ID, msgs[1].Status)
	}
	if msgs[2].ID != "srv-guru-1" {
		t.Errorf("reply not appended directly after confirmed message, got %q", msgs[2].ID)
	}
	if tr.PendingCount() != 0 {
		t.Errorf("PendingCount after confirm = %d, want 0", tr.PendingCount())
	}
	for _, m := range msgs {
		if model.IsTransientID(m.ID) {
			t.Errorf("transient id %q survived confirmation", m.ID)
		}
	}
}

func TestConfirm_UnknownTransientID(t *testing.T) {
	tr := NewDraft()
	tr.AppendPending("hello")

	userMsg, assistantMsg := confirmedPair("hello", "hi")
	if err := tr.Confirm("local-other", userMsg, assistantMsg); !errors.Is(err, ErrNoSuchPending) {
		t.Errorf("Confirm with wrong id err = %v, want ErrNoSuchPending", err)
	}
}

// =============================================================================
// ROLLBACK
// =============================================================================

func TestRollback_RestoresPriorState(t *testing.T) {
	history := []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "earlier"},
		{ID: "m2", Role: model.RoleAssistant, Content: "reply"},
	}
	tr := New("conv-1", history)
	before := tr.Messages()

	id, _ := tr.AppendPending("  What is dharma?  ")
	text, err := tr.Rollback(id)
	if err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if text != "  What is dharma?  " {
		t.Errorf("Rollback text = %q, want the original input verbatim", text)
	}

	after := tr.Messages()
	if len(after) != len(before) {
		t.Fatalf("len after rollback = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Errorf("message %d id = %q, want %q", i, after[i].ID, before[i].ID)
		}
	}
	if tr.PendingCount() != 0 {
		t.Errorf("PendingCount after rollback = %d, want 0", tr.PendingCount())
	}
}

func TestRollback_ThenSendAgain(t *testing.T) {
	tr := NewDraft()
	id, _ := tr.AppendPending("hello")
	if _, err := tr.Rollback(id); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if _, err := tr.AppendPending("hello again"); err != nil {
		t.Errorf("AppendPending after rollback failed: %v", err)
	}
}

// =============================================================================
// DRAFT ADOPTION
// =============================================================================

func TestAdoptConversationID(t *testing.T) {
	tr := NewDraft()
	if !tr.IsDraft() {
		t.Fatal("fresh draft should report IsDraft")
	}

	tr.AdoptConversationID("conv-9")
	if tr.IsDraft() || tr.ConversationID() != "conv-9" {
		t.Errorf("ConversationID = %q, want conv-9", tr.ConversationID())
	}

	// Adoption is one-shot; the durable id never changes afterwards.
	tr.AdoptConversationID("conv-other")
	if tr.ConversationID() != "conv-9" {
		t.Errorf("ConversationID changed to %q after re-adoption", tr.ConversationID())
	}
}

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

func TestOnChange_FiresPerMutation(t *testing.T) {
	tr := NewDraft()
	fired := 0
	tr.OnChange(func() { fired++ })

	id, _ := tr.AppendPending("hello")
	userMsg, assistantMsg := confirmedPair("hello", "hi")
	tr.Confirm(id, userMsg, assistantMsg)

	if fired != 2 {
		t.Errorf("onChange fired %d times, want 2", fired)
	}

	id, _ = tr.AppendPending("next")
	tr.Rollback(id)
	if fired != 4 {
		t.Errorf("onChange fired %d times, want 4", fired)
	}
}

func TestMessages_ReturnsSnapshot(t *testing.T) {
	tr := New("conv-1", []model.Message{{ID: "m1", Role: model.RoleUser, Content: "hi"}})

	snap := tr.Messages()
	snap[0].Content = "mutated"

	if tr.Messages()[0].Content != "hi" {
		t.Error("mutating the snapshot must not affect the transcript")
	}
}
