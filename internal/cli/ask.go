// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - the "prana ask" one-shot question command.
//
// Sends a single question, prints the reply with its citation, and
// exits. With --conversation the exchange continues an existing
// conversation; otherwise the server starts a new one and its id is
// printed so the user can follow up.
//
// Examples:
//   prana ask "What is dharma?"
//   prana ask --conversation 66f1a "And how do I practice it?"
//   prana ask --json "What is dharma?"

package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

func runAsk(parser *ArgParser) error {
	question := parser.Rest(0)
	if question == "" {
		return fmt.Errorf("usage: prana ask \"your question\"")
	}

	cfg, client, err := loadSetup(parser)
	if err != nil {
		return err
	}
	userID, err := requireUser(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.SendTimeout)
	defer cancel()

	result, err := client.SendMessage(ctx, userID, parser.Flag("conversation"), question)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(result)
	}

	fmt.Println(renderReply(result.AssistantMessage))
	fmt.Println(MutedStyle.Render("conversation: " + result.ConversationID))
	return nil
}

// renderReply renders a guru message as markdown when stdout is a
// terminal, plain text otherwise.
func renderReply(msg model.Message) string {
	body := msg.Content
	if IsStdoutTTY() {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(TermWidth()),
		)
		if err == nil {
			if rendered, rerr := renderer.Render(msg.Content); rerr == nil {
				body = rendered
			}
		}
	}

	if msg.Citation != nil {
		body += "\n" + MutedStyle.Render(formatCitationLine(msg.Citation))
	}
	return body
}

func formatCitationLine(c *model.Citation) string {
	line := "  " + c.SourceText
	if c.Translation != "" {
		line += "\n  " + c.Translation
	}
	if c.Attribution != "" {
		line += "\n  — " + c.Attribution
	}
	return line
}
