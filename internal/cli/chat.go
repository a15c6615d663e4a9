// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - the "prana chat" interactive REPL.
//
// A plain-terminal alternative to the full conversation view, for
// dumb terminals and quick sessions. Input history is persisted in
// the config directory.
//
// Interactive commands:
//   /new            Start a fresh conversation
//   /open <id>      Continue an existing conversation
//   /list           List recent conversations
//   /quit, /q       Exit
//   Ctrl+C, Ctrl+D  Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// chatREPL wraps liner with history persistence.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL() *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return &chatREPL{line: line, historyFile: historyFile}
}

func (r *chatREPL) close() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

func runChat(parser *ArgParser) error {
	if !IsTTY() {
		return fmt.Errorf("chat needs an interactive terminal; use 'prana ask' for piped input")
	}

	cfg, client, err := loadSetup(parser)
	if err != nil {
		return err
	}
	userID, err := requireUser(cfg)
	if err != nil {
		return err
	}

	repl := newChatREPL()
	defer repl.close()

	fmt.Println(TitleStyle.Render("ॐ Prana"))
	fmt.Println(MutedStyle.Render("Ask anything. /quit to leave, /new for a fresh conversation."))
	fmt.Println()

	conversationID := parser.Flag("conversation")
	for {
		input, err := repl.line.Prompt(PromptStyle.Render("you › "))
		if err != nil {
			// Ctrl+C aborts the prompt, Ctrl+D closes stdin.
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(MutedStyle.Render("(Ctrl+D or /quit to exit)"))
				continue
			}
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			done, err := handleChatCommand(client, userID, &conversationID, input)
			if err != nil {
				fmt.Println(ErrorStyle.Render(err.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		reply, err := sendChatMessage(client, userID, &conversationID, input)
		if err != nil {
			fmt.Println(ErrorStyle.Render("Your message was not sent: " + err.Error()))
			continue
		}
		fmt.Println(renderReply(reply))
	}
}

// sendChatMessage sends one message and adopts the conversation id the
// server assigned on the first exchange.
func sendChatMessage(client *api.Client, userID string, conversationID *string, text string) (model.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), api.SendTimeout)
	defer cancel()

	result, err := client.SendMessage(ctx, userID, *conversationID, text)
	if err != nil {
		return model.Message{}, err
	}
	*conversationID = result.ConversationID
	return result.AssistantMessage, nil
}

func handleChatCommand(client *api.Client, userID string, conversationID *string, input string) (done bool, err error) {
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "q", "exit":
		return true, nil

	case "new":
		*conversationID = ""
		fmt.Println(MutedStyle.Render("Fresh conversation."))
		return false, nil

	case "open":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /open <conversation-id>")
		}
		*conversationID = fields[1]
		fmt.Println(MutedStyle.Render("Continuing conversation " + fields[1] + "."))
		return false, nil

	case "list":
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		summaries, err := client.ListConversations(ctx, userID)
		if err != nil {
			return false, err
		}
		for _, s := range summaries {
			fmt.Printf("  %s  %s  %s\n",
				ValueStyle.Render(s.ID),
				truncate(s.Title, 48),
				MutedStyle.Render(relativeTime(s.UpdatedAt)))
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command /%s", fields[0])
	}
}
