// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command parsing and routing for the prana CLI.

package cli

import (
	"fmt"
	"os"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
)

// Version information (overridable at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdOnboard
	CmdConversations
	CmdScriptures
	CmdAdmin
	CmdJournal
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `prana - a companion for seekers, in your terminal

Prana answers questions on dharma, practice, and the inner life,
citing the scriptures it draws on.

Usage:
  prana                        Start the conversation view (default)
  prana ask "question"         Ask a single question and exit
  prana chat                   Interactive chat in plain terminal mode
  prana onboard                Create your seeker profile
  prana conversations          List, show, export, delete conversations
  prana scriptures             Browse the scripture library
  prana journal                Inspect the local send journal
  prana admin                  Operator statistics
  prana config [show|get|set]  Configuration
  prana version                Show version information

Flags:
  --json            Machine-readable output where supported
  --api URL         Override the configured service URL
  --user ID         Override the configured user id

Run 'prana <command> --help' style subcommands with their own
subcommand words, e.g. 'prana conversations delete <id>'.
`

// ParseCommand maps the first argument to a Command.
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CmdTUI, nil
	}

	rest := args[1:]
	switch args[0] {
	case "ask", "a":
		return CmdAsk, rest
	case "chat", "c":
		return CmdChat, rest
	case "onboard", "setup":
		return CmdOnboard, rest
	case "conversations", "convs", "list":
		return CmdConversations, rest
	case "scriptures":
		return CmdScriptures, rest
	case "admin":
		return CmdAdmin, rest
	case "journal":
		return CmdJournal, rest
	case "config":
		return CmdConfig, rest
	case "version", "--version", "-V":
		return CmdVersion, rest
	case "help", "--help", "-h":
		return CmdHelp, rest
	default:
		// Unknown words fall through to ask so that
		// `prana what is dharma` just works.
		return CmdAsk, args
	}
}

// Run executes the parsed command and returns a process exit code.
// CmdTUI is not handled here; main owns the Bubble Tea program.
func Run(cmd Command, args []string) int {
	parser := NewArgParser(args)

	var err error
	switch cmd {
	case CmdAsk:
		err = runAsk(parser)
	case CmdChat:
		err = runChat(parser)
	case CmdOnboard:
		err = runOnboard(parser)
	case CmdConversations:
		err = runConversations(parser)
	case CmdScriptures:
		err = runScriptures(parser)
	case CmdAdmin:
		err = runAdmin(parser)
	case CmdJournal:
		err = runJournal(parser)
	case CmdConfig:
		err = runConfig(parser)
	case CmdVersion:
		err = runVersion(parser)
	case CmdHelp:
		fmt.Print(usageText)
	default:
		fmt.Print(usageText)
		return 1
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())
		return 1
	}
	return 0
}

// loadSetup loads configuration and builds the API client, honoring the
// global --api and --user overrides.
func loadSetup(parser *ArgParser) (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if url := parser.Flag("api"); url != "" {
		cfg.API.BaseURL = url
	}
	if user := parser.Flag("user"); user != "" {
		cfg.User.ID = user
	}

	client := api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout()).
		WithMaxRetries(cfg.API.MaxRetries)
	return cfg, client, nil
}

// requireUser returns the configured user id or an onboarding hint.
func requireUser(cfg *config.Config) (string, error) {
	if cfg.User.ID == "" {
		return "", fmt.Errorf("no user configured; run 'prana onboard' first")
	}
	return cfg.User.ID, nil
}
