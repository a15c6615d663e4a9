// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable view components for the prana TUI.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
	"github.com/Prashanththeanalyst/Prana-guru/internal/util"
)

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar renders the conversation directory. Index 0 is a synthetic "New
// conversation" row; directory entries follow in the order the directory
// hands them over (most recently updated first).
type Sidebar struct {
	entries  []model.ConversationSummary
	cursor   int
	activeID string
	width    int
	height   int
}

// NewSidebar creates an empty sidebar.
func NewSidebar(width int) *Sidebar {
	return &Sidebar{width: width}
}

// SetEntries replaces the listed conversations wholesale. The cursor is
// clamped; it does not chase a moved entry.
func (s *Sidebar) SetEntries(entries []model.ConversationSummary) {
	s.entries = entries
	if s.cursor > len(s.entries) {
		s.cursor = len(s.entries)
	}
}

// SetActive marks the conversation the view is bound to; empty for a draft.
func (s *Sidebar) SetActive(conversationID string) {
	s.activeID = conversationID
}

// SetSize updates the rendered dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Len returns the number of rows including the draft row.
func (s *Sidebar) Len() int {
	return len(s.entries) + 1
}

// MoveUp moves the cursor one row up.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.entries) {
		s.cursor++
	}
}

// Selected returns the conversation id under the cursor; empty means the
// "New conversation" row.
func (s *Sidebar) Selected() string {
	if s.cursor == 0 || s.cursor > len(s.entries) {
		return ""
	}
	return s.entries[s.cursor-1].ID
}

// SelectedTitle returns the title under the cursor for confirmation prompts.
func (s *Sidebar) SelectedTitle() string {
	if s.cursor == 0 || s.cursor > len(s.entries) {
		return "New conversation"
	}
	return s.entries[s.cursor-1].Title
}

// View renders the sidebar.
func (s *Sidebar) View(theme *styles.Theme) string {
	var b strings.Builder

	b.WriteString(theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	rowWidth := s.width - 3
	if rowWidth < 8 {
		rowWidth = 8
	}

	b.WriteString(s.renderRow(theme, 0, "+ New conversation", "", false))

	for i, entry := range s.entries {
		title := entry.Title
		if title == "" {
			title = "(untitled)"
		}
		meta := formatRelativeTime(entry.UpdatedAt)
		if entry.MessageCount > 0 {
			meta = fmt.Sprintf("%s · %d msgs", meta, entry.MessageCount)
		}
		b.WriteString(s.renderRow(theme, i+1, title, meta, entry.ID == s.activeID))
	}

	return theme.Sidebar.Width(s.width).Render(b.String())
}

func (s *Sidebar) renderRow(theme *styles.Theme, index int, title, meta string, active bool) string {
	rowWidth := s.width - 3
	if rowWidth < 8 {
		rowWidth = 8
	}
	title = util.TruncateWidth(title, rowWidth)

	var row string
	switch {
	case index == s.cursor:
		row = theme.SidebarItemSelected.Render("▸ " + title)
	case active:
		row = theme.SidebarItemActive.Render(title)
	default:
		row = theme.SidebarItem.Render(title)
	}

	out := row + "\n"
	if meta != "" {
		out += theme.SidebarMeta.Render(util.TruncateWidth(meta, rowWidth)) + "\n"
	}
	return out
}

// formatRelativeTime renders an updated-at stamp the way chat apps do.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
