// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// RenderMessage renders one transcript message: a role label line, the body,
// and for guru replies an optional citation block. Pending messages carry a
// sending marker instead of a timestamp. body is the (possibly markdown-
// rendered) content to show; pass msg.Content when no renderer is in play.
func RenderMessage(theme *styles.Theme, msg model.Message, body string, width int) string {
	var b strings.Builder

	label := theme.GuruLabel
	if msg.Role == model.RoleUser {
		label = theme.UserLabel
	}

	header := label.Render(msg.Role.DisplayName())
	switch {
	case msg.IsPending():
		header += "  " + theme.PendingMarker.Render("sending…")
	case !msg.Timestamp.IsZero():
		header += "  " + theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}
	b.WriteString(header)
	b.WriteString("\n")

	bodyStyle := theme.MessageBody
	if msg.IsPending() {
		bodyStyle = theme.PendingMarker
	}
	b.WriteString(bodyStyle.Width(width).Render(strings.TrimRight(body, "\n")))
	b.WriteString("\n")

	if msg.HasCitation() {
		b.WriteString(RenderCitation(theme, msg.Citation, width))
	}

	return b.String()
}

// RenderCitation renders a scripture citation block.
func RenderCitation(theme *styles.Theme, c *model.Citation, width int) string {
	var lines []string
	if c.SourceText != "" {
		lines = append(lines, theme.CitationSanskrit.Render(c.SourceText))
	}
	if c.Translation != "" {
		lines = append(lines, theme.CitationTranslation.Render(c.Translation))
	}
	if c.Attribution != "" {
		lines = append(lines, theme.CitationAttribution.Render("- "+c.Attribution))
	}
	if len(lines) == 0 {
		return ""
	}

	blockWidth := width - 4
	if blockWidth < 16 {
		blockWidth = 16
	}
	return theme.CitationBlock.Width(blockWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}
