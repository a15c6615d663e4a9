// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversations.go - the "prana conversations" management command.
//
// Subcommands:
//   (none) | list        List your conversations, newest first
//   show <id>            Print a conversation transcript
//   export <id> [--format md|json]
//   delete <id> [--yes]

package cli

import (
	"context"
	"fmt"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/export"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

func runConversations(parser *ArgParser) error {
	cfg, client, err := loadSetup(parser)
	if err != nil {
		return err
	}
	userID, err := requireUser(cfg)
	if err != nil {
		return err
	}

	switch parser.Subcommand() {
	case "", "list":
		return listConversations(parser, client, userID)
	case "show":
		return showConversation(parser, client)
	case "export":
		return exportConversation(parser, client)
	case "delete", "rm":
		return deleteConversation(parser, client)
	default:
		return fmt.Errorf("unknown subcommand %q; try list, show, export, delete", parser.Subcommand())
	}
}

func listConversations(parser *ArgParser, client *api.Client, userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	summaries, err := client.ListConversations(ctx, userID)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println(MutedStyle.Render("No conversations yet. Run 'prana' or 'prana ask' to start one."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Conversations"))
	for _, s := range summaries {
		fmt.Printf("  %s  %-50s %s\n",
			ValueStyle.Render(s.ID),
			truncate(s.Title, 50),
			MutedStyle.Render(relativeTime(s.UpdatedAt)))
	}
	return nil
}

func showConversation(parser *ArgParser, client *api.Client) error {
	id := parser.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: prana conversations show <id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	conv, err := client.LoadConversation(ctx, id)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(conv)
	}

	fmt.Println(TitleStyle.Render(conv.Title))
	for _, msg := range conv.Messages {
		label := PromptStyle.Render("you")
		if msg.Role == model.RoleAssistant {
			label = SuccessStyle.Render("prana")
		}
		fmt.Printf("%s  %s\n", label, MutedStyle.Render(msg.Timestamp.Format("2006-01-02 15:04")))
		fmt.Println(msg.Content)
		if msg.HasCitation() {
			fmt.Println(MutedStyle.Render(formatCitationLine(msg.Citation)))
		}
		fmt.Println()
	}
	return nil
}

func exportConversation(parser *ArgParser, client *api.Client) error {
	id := parser.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: prana conversations export <id> [--format md|json]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	conv, err := client.LoadConversation(ctx, id)
	if err != nil {
		return err
	}

	var path string
	switch format := parser.FlagOrDefault("format", "md"); format {
	case "md", "markdown":
		path, err = export.Markdown(conv, nil)
	case "json":
		path, err = export.JSON(conv, nil)
	default:
		return fmt.Errorf("unknown format %q; use md or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("Exported to " + path))
	return nil
}

func deleteConversation(parser *ArgParser, client *api.Client) error {
	id := parser.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: prana conversations delete <id>")
	}

	if !parser.BoolFlag("yes") && !confirmPrompt("Delete conversation "+id+"?") {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	if err := client.DeleteConversation(ctx, id); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted " + id))
	return nil
}
