// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - async commands. Each command closes over immutable inputs,
// performs one network or disk operation, and reports back with a message
// carrying its issuing ticket or binding.

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/export"
	"github.com/Prashanththeanalyst/Prana-guru/internal/journal"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/components"
)

// sendCmd dispatches one send. The exchange is never retried here: on any
// failure the ticket flows back and Update rolls the optimistic entry back.
func (m *Model) sendCmd(ticket session.Ticket) tea.Cmd {
	pipeline := m.pipeline
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.SendTimeout)
		defer cancel()

		start := time.Now()
		result, err := pipeline.Dispatch(ctx, ticket)
		return SendFinishedMsg{
			Ticket:   ticket,
			Result:   result,
			Err:      err,
			Duration: time.Since(start),
		}
	}
}

// loadHistoryCmd fetches the full history for a newly opened conversation.
func (m *Model) loadHistoryCmd(binding session.Binding) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		conv, err := svc.LoadConversation(ctx, binding.ConversationID)
		return HistoryLoadedMsg{Binding: binding, Conversation: conv, Err: err}
	}
}

// refreshDirectoryCmd refreshes the conversation list. force bypasses the
// throttle for startup and explicit user refreshes.
func (m *Model) refreshDirectoryCmd(force bool) tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		var err error
		if force {
			err = dir.ForceRefresh(ctx)
		} else {
			_, err = dir.Refresh(ctx)
		}
		return DirectoryRefreshedMsg{Err: err}
	}
}

// deleteCmd deletes a conversation remotely and locally.
func (m *Model) deleteCmd(conversationID string) tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		err := dir.Delete(ctx, conversationID)
		return ConversationDeletedMsg{ConversationID: conversationID, Err: err}
	}
}

// exportCmd writes the current transcript to a local file.
func (m *Model) exportCmd(format string) tea.Cmd {
	conv := &model.Conversation{
		ID:       m.binder.Current().ConversationID,
		UserID:   m.sess.UserID,
		Title:    m.transcriptTitle(),
		Messages: m.binder.Transcript().Messages(),
	}
	return func() tea.Msg {
		var path string
		var err error
		if format == "json" {
			path, err = export.JSON(conv, nil)
		} else {
			path, err = export.Markdown(conv, nil)
		}
		return ExportFinishedMsg{Path: path, Err: err}
	}
}

// recordJournalCmd records a send outcome without blocking the event loop.
func (m *Model) recordJournalCmd(entry journal.Entry) tea.Cmd {
	jrnl := m.jrnl
	if jrnl == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		jrnl.Record(ctx, entry)
		return nil
	}
}

// toastTickCmd wakes Update shortly after the toast deadline so it
// disappears without user input.
func toastTickCmd() tea.Cmd {
	return tea.Tick(components.DefaultToastDuration, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

// transcriptTitle derives a display title for the open conversation.
func (m *Model) transcriptTitle() string {
	for _, entry := range m.dir.Entries() {
		if entry.ID == m.binder.Current().ConversationID {
			return entry.Title
		}
	}
	msgs := m.binder.Transcript().Messages()
	if len(msgs) > 0 {
		return model.DeriveTitle(msgs[0].Content)
	}
	return "New conversation"
}
