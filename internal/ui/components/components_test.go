// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// SIDEBAR
// =============================================================================

func sidebarEntries() []model.ConversationSummary {
	now := time.Now()
	return []model.ConversationSummary{
		{ID: "conv-2", Title: "Second question...", UpdatedAt: now, MessageCount: 4},
		{ID: "conv-1", Title: "What is dharma?...", UpdatedAt: now.Add(-time.Hour), MessageCount: 2},
	}
}

func TestSidebar_CursorNavigation(t *testing.T) {
	s := NewSidebar(32)
	s.SetEntries(sidebarEntries())

	// Row 0 is always the draft row.
	if got := s.Selected(); got != "" {
		t.Errorf("initial selection = %q, want draft row", got)
	}

	s.MoveDown()
	if got := s.Selected(); got != "conv-2" {
		t.Errorf("selection = %q, want conv-2", got)
	}
	s.MoveDown()
	if got := s.Selected(); got != "conv-1" {
		t.Errorf("selection = %q, want conv-1", got)
	}

	// Clamped at the bottom.
	s.MoveDown()
	if got := s.Selected(); got != "conv-1" {
		t.Errorf("selection past end = %q, want conv-1", got)
	}

	s.MoveUp()
	s.MoveUp()
	s.MoveUp() // clamped at the top
	if got := s.Selected(); got != "" {
		t.Errorf("selection = %q, want draft row", got)
	}
}

func TestSidebar_SetEntriesClampsCursor(t *testing.T) {
	s := NewSidebar(32)
	s.SetEntries(sidebarEntries())
	s.MoveDown()
	s.MoveDown()

	s.SetEntries(sidebarEntries()[:1])
	if got := s.Selected(); got != "conv-2" {
		t.Errorf("selection after shrink = %q, want clamped to last row", got)
	}
}

func TestSidebar_View(t *testing.T) {
	s := NewSidebar(32)
	s.SetSize(32, 20)
	s.SetEntries(sidebarEntries())
	s.SetActive("conv-1")

	out := s.View(testTheme())
	for _, want := range []string{"Conversations", "New conversation", "Second question", "What is dharma?"} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar view missing %q", want)
		}
	}
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

func TestRenderMessage_Pending(t *testing.T) {
	msg := model.NewPendingMessage("What is dharma?")
	out := RenderMessage(testTheme(), msg, msg.Content, 60)

	if !strings.Contains(out, "You") {
		t.Error("pending message should carry the user label")
	}
	if !strings.Contains(out, "sending…") {
		t.Error("pending message should carry the sending marker")
	}
}

func TestRenderMessage_GuruWithCitation(t *testing.T) {
	msg := model.Message{
		ID: "m2", Role: model.RoleAssistant,
		Content:   "I hear you.",
		Timestamp: time.Date(2025, 8, 30, 10, 0, 2, 0, time.UTC),
		Citation: &model.Citation{
			SourceText:  "कर्मण्येवाधिकारस्ते",
			Translation: "You have the right to work only.",
			Attribution: "Bhagavad Gita 2.47",
		},
	}

	out := RenderMessage(testTheme(), msg, msg.Content, 60)
	for _, want := range []string{"Prana", "I hear you.", "कर्मण्येवाधिकारस्ते", "Bhagavad Gita 2.47"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered message missing %q", want)
		}
	}
	if strings.Contains(out, "sending…") {
		t.Error("confirmed message must not show the sending marker")
	}
}

// =============================================================================
// ERROR TOAST
// =============================================================================

func TestErrorToast_Lifecycle(t *testing.T) {
	var toast ErrorToast

	if toast.Visible() {
		t.Error("fresh toast should be hidden")
	}

	toast.Show("could not reach the guru")
	if !toast.Visible() {
		t.Error("toast should be visible after Show")
	}
	if out := toast.View(testTheme(), 60); !strings.Contains(out, "could not reach the guru") {
		t.Error("toast view missing message")
	}

	toast.Dismiss()
	if toast.Visible() {
		t.Error("toast should hide on dismiss")
	}
	if out := toast.View(testTheme(), 60); out != "" {
		t.Errorf("dismissed toast renders %q, want empty", out)
	}
}
