// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestArgParser_FlagFormats(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--since=2025-01-01", "--json", "-f", "out.md"})

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("lines"))
	assert.Equal(t, "2025-01-01", p.Flag("since"))
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "out.md", p.Flag("f"))
}

func TestArgParser_ExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--yes=true"})

	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("yes"))
}

func TestArgParser_Positionals(t *testing.T) {
	p := NewArgParser([]string{"delete", "conv-1", "--yes"})

	assert.Equal(t, "delete", p.Positional(0))
	assert.Equal(t, "conv-1", p.Positional(1))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParser_Rest(t *testing.T) {
	p := NewArgParser([]string{"what", "is", "dharma"})
	assert.Equal(t, "what is dharma", p.Rest(0))
	assert.Equal(t, "is dharma", p.Rest(1))
	assert.Equal(t, "", p.Rest(9))
}

func TestArgParser_IntFlags(t *testing.T) {
	p := NewArgParser([]string{"--limit", "25", "--skip", "abc"})

	assert.Equal(t, 25, p.FlagIntOrDefault("limit", 50))
	assert.Equal(t, 0, p.FlagIntOrDefault("skip", 0))
	assert.Equal(t, 7, p.FlagIntOrDefault("missing", 7))
}

// =============================================================================
// COMMAND ROUTING
// =============================================================================

func TestParseCommand_KnownWords(t *testing.T) {
	tests := []struct {
		args []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"a", "hello"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"onboard"}, CmdOnboard},
		{[]string{"conversations"}, CmdConversations},
		{[]string{"convs"}, CmdConversations},
		{[]string{"scriptures"}, CmdScriptures},
		{[]string{"admin", "stats"}, CmdAdmin},
		{[]string{"journal"}, CmdJournal},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := ParseCommand(tt.args)
		assert.Equal(t, tt.want, cmd, "args %v", tt.args)
	}
}

func TestParseCommand_BareQuestionFallsThroughToAsk(t *testing.T) {
	cmd, rest := ParseCommand([]string{"what", "is", "dharma"})
	assert.Equal(t, CmdAsk, cmd)
	// The first word is part of the question, not a subcommand.
	assert.Equal(t, []string{"what", "is", "dharma"}, rest)
}

func TestParseCommand_SubargsPassedThrough(t *testing.T) {
	cmd, rest := ParseCommand([]string{"conversations", "delete", "conv-1", "--yes"})
	assert.Equal(t, CmdConversations, cmd)
	assert.Equal(t, []string{"delete", "conv-1", "--yes"}, rest)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long str…", truncate("long string here", 9))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "never", relativeTime(time.Time{}))
	assert.Equal(t, "just now", relativeTime(time.Now()))
	assert.Equal(t, "5m ago", relativeTime(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", relativeTime(time.Now().Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", relativeTime(time.Now().Add(-49*time.Hour)))
}

func TestFormatDurationShort(t *testing.T) {
	assert.Equal(t, "450ms", formatDurationShort(450*time.Millisecond))
	assert.Equal(t, "2.5s", formatDurationShort(2500*time.Millisecond))
	assert.Equal(t, "1m30s", formatDurationShort(90*time.Second))
}
