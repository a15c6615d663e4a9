// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - shared lipgloss styles for all prana CLI commands.

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle heads command output.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Saffron).
			MarginBottom(1)

	// SectionStyle divides output into blocks.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle renders left-aligned field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	// ValueStyle renders field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle marks completed operations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// MutedStyle renders secondary detail.
	MutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// PromptStyle renders the interactive chat prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)
)

// renderKV prints one aligned label/value row.
func renderKV(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
