// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// admin.go - the "prana admin" operator command.
//
// Subcommands:
//   stats                       Aggregate usage counts
//   conversations [--limit N] [--skip N]

package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
)

func runAdmin(parser *ArgParser) error {
	_, client, err := loadSetup(parser)
	if err != nil {
		return err
	}

	switch parser.Subcommand() {
	case "", "stats":
		return adminStats(parser, client)
	case "conversations":
		return adminConversations(parser, client)
	default:
		return fmt.Errorf("unknown subcommand %q; try stats, conversations", parser.Subcommand())
	}
}

func adminStats(parser *ArgParser, client *api.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	stats, err := client.GetAdminStats(ctx)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(stats)
	}

	fmt.Println(TitleStyle.Render("Service statistics"))
	fmt.Println(renderKV("Users", fmt.Sprintf("%d", stats.TotalUsers)))
	fmt.Println(renderKV("Conversations", fmt.Sprintf("%d", stats.TotalConversations)))

	if len(stats.AlignmentBreakdown) > 0 {
		fmt.Println(SectionStyle.Render("By alignment"))
		names := make([]string, 0, len(stats.AlignmentBreakdown))
		for name := range stats.AlignmentBreakdown {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(renderKV(name, fmt.Sprintf("%d", stats.AlignmentBreakdown[name])))
		}
	}
	return nil
}

func adminConversations(parser *ArgParser, client *api.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	limit := parser.FlagIntOrDefault("limit", 50)
	skip := parser.FlagIntOrDefault("skip", 0)

	summaries, err := client.ListAllConversations(ctx, limit, skip)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(summaries)
	}

	fmt.Println(TitleStyle.Render("All conversations"))
	for _, s := range summaries {
		fmt.Printf("  %s  %-50s %s\n",
			ValueStyle.Render(s.ID),
			truncate(s.Title, 50),
			MutedStyle.Render(relativeTime(s.UpdatedAt)))
	}
	fmt.Println(MutedStyle.Render(fmt.Sprintf("showing %d (skip %d)", len(summaries), skip)))
	return nil
}
