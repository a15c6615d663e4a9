// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(conv.Title)))
		sb.WriteString(fmt.Sprintf("date: %s\n", conv.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", conv.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(conv.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: prana\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", strings.TrimSpace(conv.Title)))

	for i, msg := range conv.Messages {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				label, msg.Timestamp.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimRight(msg.Content, "\n"))
		sb.WriteString("\n")

		if msg.HasCitation() {
			sb.WriteString("\n")
			sb.WriteString(formatCitation(msg.Citation))
		}

		if i < len(conv.Messages)-1 {
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// formatCitation renders a scripture citation as a blockquote.
func formatCitation(c *model.Citation) string {
	var sb strings.Builder
	if c.SourceText != "" {
		sb.WriteString(fmt.Sprintf("> %s\n", c.SourceText))
	}
	if c.Translation != "" {
		sb.WriteString(fmt.Sprintf("> *%s*\n", c.Translation))
	}
	if c.Attribution != "" {
		sb.WriteString(fmt.Sprintf("> — %s\n", c.Attribution))
	}
	return sb.String()
}

// escapeYAML quotes a string for use as a YAML value when needed.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#[]{}\"'\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
