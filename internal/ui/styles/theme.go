// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemActive   lipgloss.Style
	SidebarMeta         lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel     lipgloss.Style
	GuruLabel     lipgloss.Style
	MessageBody   lipgloss.Style
	PendingMarker lipgloss.Style
	Timestamp     lipgloss.Style

	// Citation block under guru replies
	CitationBlock       lipgloss.Style
	CitationSanskrit    lipgloss.Style
	CitationTranslation lipgloss.Style
	CitationAttribution lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ComposingDot lipgloss.Style
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	SuccessStyle lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron).
		Background(SurfaceDim).
		Padding(0, 2)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold).
		PaddingLeft(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(1)

	t.SidebarItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron).
		PaddingLeft(0)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.GuruLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	t.MessageBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PendingMarker = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Citations
	t.CitationBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Gold).
		PaddingLeft(2).
		MarginLeft(2)

	t.CitationSanskrit = lipgloss.NewStyle().
		Foreground(Gold)

	t.CitationTranslation = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Italic(true)

	t.CitationAttribution = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	// Status
	t.Spinner = lipgloss.NewStyle().
		Foreground(Saffron)

	t.ComposingDot = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}
