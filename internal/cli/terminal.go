// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - terminal detection for the prana CLI.
//
// Colors are disabled for piped output and when NO_COLOR is set;
// FORCE_COLOR overrides detection for CI captures.

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY reports whether stdin is a terminal, i.e. whether interactive
// prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const defaultTermWidth = 80

// TermWidth returns the terminal width, or 80 when unavailable.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

var (
	colorProfileOnce sync.Once
	colorProfile     termenv.Profile
)

// GetColorProfile resolves the color profile once, honoring NO_COLOR
// and FORCE_COLOR.
func GetColorProfile() termenv.Profile {
	colorProfileOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorProfile = termenv.Ascii
		case os.Getenv("FORCE_COLOR") != "":
			colorProfile = termenv.ANSI256
		case !IsStdoutTTY():
			colorProfile = termenv.Ascii
		default:
			colorProfile = termenv.ColorProfile()
		}
	})
	return colorProfile
}
