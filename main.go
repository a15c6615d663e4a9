// prana - a companion for seekers, in your terminal.
//
// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/cli"
	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
	"github.com/Prashanththeanalyst/Prana-guru/internal/directory"
	"github.com/Prashanththeanalyst/Prana-guru/internal/journal"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.ParseCommand(os.Args[1:])

	if cmd == cli.CmdTUI {
		os.Exit(runTUI())
	}
	os.Exit(cli.Run(cmd, args))
}

// runTUI wires the conversation view and runs the Bubble Tea program.
func runTUI() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: failed to load config:", err)
		return 1
	}
	config.SetGlobal(cfg)

	sess, err := session.NewSession(cfg.User.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "No profile yet. Run 'prana onboard' first.")
		return 1
	}

	client := api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout()).
		WithMaxRetries(cfg.API.MaxRetries)

	dir := directory.New(sess, client)

	// The journal is best-effort; the view runs without it.
	var jrnl *journal.Journal
	if configDir, err := config.ConfigDir(); err == nil {
		if j, err := journal.Open(journal.DefaultPath(configDir)); err == nil {
			jrnl = j
			defer jrnl.Close()
		}
	}

	// Reload config on external edits so theme and API changes apply on
	// the next restart of the view; a failed reload keeps the old config.
	if path, err := config.ConfigPath(); err == nil {
		if watcher, err := config.Watch(path, config.SetGlobal); err == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(
		chat.New(cfg, client, sess, dir, jrnl),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
