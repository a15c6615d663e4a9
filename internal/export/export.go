// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to local files.
// Supports Markdown with scripture citations and raw JSON.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to a target format.
type Exporter interface {
	// Export renders the conversation and returns the file content.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".md").
	FileExtension() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files are saved.
	// Default: current working directory.
	OutputDir string

	// IncludeMetadata includes the frontmatter header.
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports a conversation to a file in opts.OutputDir and returns the
// output path. The filename is derived from the conversation title and the
// export time.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("prana_%s_%s%s",
		sanitizeFilename(conv.Title), timestamp, exporter.FileExtension())

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// Markdown exports to Markdown format and returns the output path.
func Markdown(conv *model.Conversation, opts *Options) (string, error) {
	return ToFile(conv, NewMarkdownExporter(opts), opts)
}

// JSON exports to JSON format and returns the output path.
func JSON(conv *model.Conversation, opts *Options) (string, error) {
	return ToFile(conv, NewJSONExporter(), opts)
}

// =============================================================================
// HELPERS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/': '-', '\\': '-', ':': '-', '*': '-', '?': '-',
		'"': '-', '<': '-', '>': '-', '|': '-',
		' ': '_', '\t': '_', '\n': '_', '\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}
