// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
	"github.com/Prashanththeanalyst/Prana-guru/internal/directory"
	"github.com/Prashanththeanalyst/Prana-guru/internal/journal"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/components"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
)

// Service is the remote surface the view depends on, satisfied by
// *api.Client.
type Service interface {
	session.ChatSender
	LoadConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
}

// focusArea marks which panel receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view. All state
// mutation happens in Update on the event loop; commands only perform
// network and disk work and report back via messages.
type Model struct {
	theme *styles.Theme
	cfg   *config.Config
	keys  KeyMap

	svc      Service
	sess     *session.Session
	binder   *session.Binder
	pipeline *session.Pipeline
	dir      *directory.Directory
	jrnl     *journal.Journal

	sidebar  *components.Sidebar
	toast    components.ErrorToast
	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	focus   focusArea
	width   int
	height  int
	sending bool
	ready   bool
	status  string
}

// New creates the conversation view. jrnl may be nil; send outcomes are
// then simply not recorded.
func New(cfg *config.Config, svc Service, sess *session.Session, dir *directory.Directory, jrnl *journal.Journal) *Model {
	input := textarea.New()
	input.Placeholder = "Ask Prana anything…"
	input.CharLimit = 4000
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	// Markdown rendering is best-effort; a nil renderer falls back to
	// plain text.
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return &Model{
		theme:    styles.NewTheme(),
		cfg:      cfg,
		keys:     DefaultKeyMap(),
		svc:      svc,
		sess:     sess,
		binder:   session.NewBinder(),
		pipeline: session.NewPipeline(sess, svc),
		dir:      dir,
		jrnl:     jrnl,
		sidebar:  components.NewSidebar(cfg.UI.SidebarWidth),
		input:    input,
		spin:     spin,
		renderer: renderer,
	}
}

// Init loads the directory and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.refreshDirectoryCmd(true),
	)
}

// Binder exposes the navigation state for tests.
func (m *Model) Binder() *session.Binder {
	return m.binder
}

// InputValue returns the current input buffer content.
func (m *Model) InputValue() string {
	return m.input.Value()
}

// Sending reports whether a send is in flight.
func (m *Model) Sending() bool {
	return m.sending
}
