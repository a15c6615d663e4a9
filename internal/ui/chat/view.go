// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - layout and rendering for the conversation view.

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/components"
)

// View renders the full screen: header, sidebar beside the transcript,
// then the input area and status bar.
func (m *Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	header := m.theme.Header.Width(m.width).Render("ॐ Prana")

	sidebar := m.sidebar.View(m.theme)
	main := m.renderMain()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderMain() string {
	var parts []string

	parts = append(parts, m.viewport.View())

	if toast := m.toast.View(m.theme, m.mainWidth()); toast != "" {
		parts = append(parts, toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("› ")
	return m.theme.InputContainer.Width(m.width - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, prompt, m.input.View()))
}

func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.sending:
		left = m.spin.View() + m.theme.ComposingDot.Render(" Prana is composing…")
	case m.binder.Loading():
		left = m.spin.View() + m.theme.ComposingDot.Render(" Loading conversation…")
	case m.status != "":
		left = m.theme.SuccessStyle.Render(m.status)
	case m.binder.Current().IsDraft():
		left = m.theme.ComposingDot.Render("New conversation")
	}

	right := strings.Join([]string{
		m.theme.ShortcutKey.Render("Tab") + m.theme.ShortcutDesc.Render(" panel"),
		m.theme.ShortcutKey.Render("C-n") + m.theme.ShortcutDesc.Render(" new"),
		m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) mainWidth() int {
	w := m.width - m.cfg.UI.SidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	mainHeight := height - 8
	if mainHeight < 4 {
		mainHeight = 4
	}

	if !m.ready {
		m.viewport = viewport.New(m.mainWidth(), mainHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.mainWidth()
		m.viewport.Height = mainHeight
	}

	m.sidebar.SetSize(m.cfg.UI.SidebarWidth, mainHeight)
	m.input.SetWidth(width - 6)

	// Re-wrap markdown to the new width.
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.mainWidth()),
	); err == nil {
		m.renderer = renderer
	}

	m.refreshViewport()
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport rebuilds the transcript content and scrolls to the end.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	msgs := m.binder.Transcript().Messages()
	if len(msgs) == 0 {
		if m.binder.Loading() {
			return ""
		}
		return m.theme.ComposingDot.Render(
			"\n  Ask anything. Prana listens.\n")
	}

	var b strings.Builder
	width := m.mainWidth()
	for i, msg := range msgs {
		b.WriteString(components.RenderMessage(m.theme, msg, m.messageBody(msg), width))
		if i < len(msgs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// messageBody renders guru replies as markdown; user text stays verbatim.
func (m *Model) messageBody(msg model.Message) string {
	if msg.Role != model.RoleAssistant || m.renderer == nil {
		return msg.Content
	}
	rendered, err := m.renderer.Render(msg.Content)
	if err != nil {
		return msg.Content
	}
	return rendered
}

// statusLine is used by tests to inspect the rendered footer.
func (m *Model) statusLine() string {
	return fmt.Sprintf("sending=%v loading=%v draft=%v",
		m.sending, m.binder.Loading(), m.binder.Current().IsDraft())
}
