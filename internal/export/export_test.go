// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

func sampleConversation() *model.Conversation {
	created := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	return &model.Conversation{
		ID:        "conv-1",
		UserID:    "user-1",
		Title:     "What is dharma?...",
		CreatedAt: created,
		UpdatedAt: created.Add(2 * time.Second),
		Messages: []model.Message{
			{
				ID: "m1", Role: model.RoleUser,
				Content: "What is dharma?", Timestamp: created,
			},
			{
				ID: "m2", Role: model.RoleAssistant,
				Content: "I hear you. What draws you to this question?", Timestamp: created.Add(2 * time.Second),
				Citation: &model.Citation{
					SourceText:  "कर्मण्येवाधिकारस्ते मा फलेषु कदाचन।",
					Translation: "You have the right to work only, but never to its fruits.",
					Attribution: "Bhagavad Gita 2.47",
				},
			},
		},
	}
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownExport(t *testing.T) {
	content, err := NewMarkdownExporter(nil).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(content)

	for _, want := range []string{
		"# What is dharma?...",
		"### You",
		"### Prana",
		"> कर्मण्येवाधिकारस्ते मा फलेषु कदाचन।",
		"> — Bhagavad Gita 2.47",
		"generator: prana",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExport_WithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false, IncludeTimestamps: false}
	content, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(content)

	if strings.HasPrefix(out, "---") {
		t.Error("frontmatter present despite IncludeMetadata=false")
	}
	if strings.Contains(out, "<sub>") {
		t.Error("timestamps present despite IncludeTimestamps=false")
	}
}

func TestMarkdownExport_EmptyConversation(t *testing.T) {
	conv := sampleConversation()
	conv.Messages = nil
	if _, err := NewMarkdownExporter(nil).Export(conv); err == nil {
		t.Error("empty conversation should not be exportable")
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestJSONExport_RoundTrips(t *testing.T) {
	content, err := NewJSONExporter().Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var got model.Conversation
	if err := json.Unmarshal(content, &got); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if got.ID != "conv-1" || len(got.Messages) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Messages[1].Citation == nil || got.Messages[1].Citation.Attribution != "Bhagavad Gita 2.47" {
		t.Error("citation lost in JSON export")
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := Markdown(sampleConversation(), opts)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".md") {
		t.Errorf("output path = %q, want .md file under temp dir", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What is dharma?...", "What_is_dharma-..."},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
