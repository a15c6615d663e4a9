// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - event handling for the conversation view.

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/journal"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
	"github.com/Prashanththeanalyst/Prana-guru/internal/transcript"
)

// Update is the single mutation point for all view state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendFinishedMsg:
		return m.handleSendFinished(msg)

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case DirectoryRefreshedMsg:
		m.sidebar.SetEntries(m.dir.Entries())
		if msg.Err != nil {
			m.toast.Show(humanizeError(msg.Err))
			return m, toastTickCmd()
		}
		return m, nil

	case ConversationDeletedMsg:
		return m.handleDeleted(msg)

	case ExportFinishedMsg:
		if msg.Err != nil {
			m.toast.Show(humanizeError(msg.Err))
			return m, toastTickCmd()
		}
		m.status = "Exported to " + msg.Path
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case toastTickMsg:
		// Re-render; the toast hides itself once past its deadline.
		return m, nil
	}

	return m.updateChildren(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		m.toast.Dismiss()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewDraft):
		m.openDraft()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		selected := m.sidebar.Selected()
		if selected == "" {
			m.openDraft()
			return m, nil
		}
		return m, m.openConversation(selected)

	case key.Matches(msg, m.keys.Delete):
		selected := m.sidebar.Selected()
		if selected == "" {
			return m, nil
		}
		return m, m.deleteCmd(selected)
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// NAVIGATION
// =============================================================================

// openDraft navigates to a fresh draft. An in-flight send keeps running;
// its result will fail the version check and be dropped.
func (m *Model) openDraft() {
	m.binder.NewDraft()
	m.sidebar.SetActive("")
	m.sending = false
	m.focus = focusInput
	m.input.Focus()
	m.refreshViewport()
}

// openConversation navigates to an existing conversation and kicks off the
// history load.
func (m *Model) openConversation(conversationID string) tea.Cmd {
	if conversationID == m.binder.Current().ConversationID {
		m.focus = focusInput
		m.input.Focus()
		return nil
	}
	binding := m.binder.OpenConversation(conversationID)
	m.sidebar.SetActive(conversationID)
	m.sending = false
	m.focus = focusInput
	m.input.Focus()
	m.refreshViewport()
	return m.loadHistoryCmd(binding)
}

// =============================================================================
// SEND PATH
// =============================================================================

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if cmdText, ok := strings.CutPrefix(strings.TrimSpace(text), "/"); ok {
		m.input.Reset()
		return m.handleSlashCommand(cmdText)
	}

	ticket, err := m.pipeline.Begin(m.binder, text)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, transcript.ErrConcurrentSend):
		m.toast.Show("Hold on - your previous message is still on its way.")
		return m, toastTickCmd()
	case err != nil:
		m.toast.Show(humanizeError(err))
		return m, toastTickCmd()
	}

	m.input.Reset()
	m.sending = true
	m.status = ""
	m.refreshViewport()
	return m, m.sendCmd(ticket)
}

func (m *Model) handleSendFinished(msg SendFinishedMsg) (tea.Model, tea.Cmd) {
	preview := model.Message{Content: msg.Ticket.Content}.Preview(48)

	if msg.Err != nil {
		restored, ok := m.pipeline.Fail(m.binder, msg.Ticket)
		if !ok {
			// User navigated away; the rollback target is gone with the
			// abandoned transcript.
			return m, m.recordJournalCmd(journal.Entry{
				ConversationID: msg.Ticket.Binding.ConversationID,
				TransientID:    msg.Ticket.TransientID,
				Preview:        preview,
				Outcome:        journal.OutcomeDiscarded,
				Detail:         msg.Err.Error(),
				DurationMs:     msg.Duration.Milliseconds(),
			})
		}
		m.sending = m.binder.Transcript().HasPending()
		m.input.SetValue(restored)
		m.toast.Show(humanizeError(msg.Err))
		m.refreshViewport()
		return m, tea.Batch(
			toastTickCmd(),
			m.recordJournalCmd(journal.Entry{
				ConversationID: msg.Ticket.Binding.ConversationID,
				TransientID:    msg.Ticket.TransientID,
				Preview:        preview,
				Outcome:        journal.OutcomeFailed,
				Detail:         msg.Err.Error(),
				DurationMs:     msg.Duration.Milliseconds(),
			}),
		)
	}

	if !m.pipeline.Complete(m.binder, msg.Ticket, msg.Result) {
		return m, m.recordJournalCmd(journal.Entry{
			ConversationID: msg.Result.ConversationID,
			TransientID:    msg.Ticket.TransientID,
			Preview:        preview,
			Outcome:        journal.OutcomeDiscarded,
			DurationMs:     msg.Duration.Milliseconds(),
		})
	}

	m.sending = false
	m.sidebar.SetActive(m.binder.Current().ConversationID)
	m.refreshViewport()
	return m, tea.Batch(
		m.refreshDirectoryCmd(false),
		m.recordJournalCmd(journal.Entry{
			ConversationID: msg.Result.ConversationID,
			TransientID:    msg.Ticket.TransientID,
			Preview:        preview,
			Outcome:        journal.OutcomeConfirmed,
			DurationMs:     msg.Duration.Milliseconds(),
		}),
	)
}

// =============================================================================
// ASYNC RESULT HANDLING
// =============================================================================

func (m *Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !m.binder.FailLoad(msg.Binding) {
			return m, nil
		}
		if errors.Is(msg.Err, api.ErrConversationNotFound) {
			// Deleted elsewhere; fall back to a draft and resync the list.
			m.binder.HandleDeleted(msg.Binding.ConversationID)
			m.sidebar.SetActive("")
			m.refreshViewport()
			return m, m.refreshDirectoryCmd(true)
		}
		m.toast.Show(humanizeError(msg.Err))
		return m, toastTickCmd()
	}

	if !m.binder.CompleteLoad(msg.Binding, msg.Conversation) {
		return m, nil
	}
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleDeleted(msg ConversationDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toast.Show(humanizeError(msg.Err))
		return m, toastTickCmd()
	}

	if m.binder.HandleDeleted(msg.ConversationID) {
		m.sidebar.SetActive("")
		m.sending = false
		m.refreshViewport()
	}
	m.sidebar.SetEntries(m.dir.Entries())
	return m, nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m *Model) handleSlashCommand(cmdText string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(cmdText)
	if len(fields) == 0 {
		return m, nil
	}

	switch fields[0] {
	case "export":
		if m.binder.Transcript().Len() == 0 {
			m.toast.Show("Nothing to export yet.")
			return m, toastTickCmd()
		}
		format := "md"
		if len(fields) > 1 {
			format = fields[1]
		}
		return m, m.exportCmd(format)

	case "new":
		m.openDraft()
		return m, nil

	case "refresh":
		return m, m.refreshDirectoryCmd(true)

	case "quit":
		return m, tea.Quit

	default:
		m.toast.Show(fmt.Sprintf("Unknown command /%s", fields[0]))
		return m, toastTickCmd()
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// humanizeError turns transport errors into one-line guidance.
func humanizeError(err error) string {
	switch {
	case errors.Is(err, api.ErrNotConfigured):
		return "No service configured. Run `prana config set api.base_url <url>` first."
	case errors.Is(err, api.ErrRateLimited):
		return "The guru needs a moment. Please try again shortly."
	case errors.Is(err, api.ErrConversationNotFound):
		return "That conversation no longer exists."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Your message was not sent - press Enter to retry."
	}

	var remoteErr *api.RemoteError
	if errors.As(err, &remoteErr) {
		return fmt.Sprintf("The service had trouble (%d). Your message was not sent.", remoteErr.Status)
	}
	return "Could not reach the service. Your message was not sent - press Enter to retry."
}
