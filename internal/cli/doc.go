// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the prana command line: one-shot questions,
// a plain-terminal chat REPL, onboarding, and the management commands
// that do not need the full conversation view.
package cli
