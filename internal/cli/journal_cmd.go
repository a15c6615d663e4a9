// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// journal_cmd.go - the "prana journal" local send-log command.
//
// Subcommands:
//   (none) | show [--lines N]   Recent send attempts
//   stats                       Outcome counts
//   prune [--keep N]            Trim old entries

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
	"github.com/Prashanththeanalyst/Prana-guru/internal/journal"
)

func openJournal() (*journal.Journal, error) {
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return journal.Open(journal.DefaultPath(configDir))
}

func runJournal(parser *ArgParser) error {
	jrnl, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer jrnl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch parser.Subcommand() {
	case "", "show":
		return journalShow(ctx, parser, jrnl)
	case "stats":
		return journalStats(ctx, parser, jrnl)
	case "prune":
		keep := parser.FlagIntOrDefault("keep", 1000)
		if err := jrnl.Prune(ctx, keep); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Pruned; keeping the newest %d entries.", keep)))
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q; try show, stats, prune", parser.Subcommand())
	}
}

func journalShow(ctx context.Context, parser *ArgParser, jrnl *journal.Journal) error {
	entries, err := jrnl.Recent(ctx, parser.FlagIntOrDefault("lines", 20))
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println(MutedStyle.Render("No sends recorded yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Send journal"))
	for _, e := range entries {
		outcome := SuccessStyle.Render(e.Outcome)
		if e.Outcome != journal.OutcomeConfirmed {
			outcome = ErrorStyle.Render(e.Outcome)
		}
		fmt.Printf("  %s  %-9s  %-40s %s\n",
			MutedStyle.Render(e.CreatedAt.Format("01-02 15:04")),
			outcome,
			truncate(e.Preview, 40),
			MutedStyle.Render(formatDurationShort(time.Duration(e.DurationMs)*time.Millisecond)))
		if e.Detail != "" {
			fmt.Println("    " + MutedStyle.Render(e.Detail))
		}
	}
	return nil
}

func journalStats(ctx context.Context, parser *ArgParser, jrnl *journal.Journal) error {
	counts, err := jrnl.CountByOutcome(ctx)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(counts)
	}

	fmt.Println(TitleStyle.Render("Send outcomes"))
	for _, outcome := range []string{journal.OutcomeConfirmed, journal.OutcomeFailed, journal.OutcomeDiscarded} {
		fmt.Println(renderKV(outcome, fmt.Sprintf("%d", counts[outcome])))
	}
	return nil
}
