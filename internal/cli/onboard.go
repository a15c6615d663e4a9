// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// onboard.go - the "prana onboard" first-run profile wizard.
//
// Collects the seeker profile, registers it with the service, and
// stores the returned user id in the local config.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

func runOnboard(parser *ArgParser) error {
	if !IsTTY() {
		return fmt.Errorf("onboarding needs an interactive terminal")
	}

	cfg, client, err := loadSetup(parser)
	if err != nil {
		return err
	}

	if cfg.User.ID != "" && !parser.BoolFlag("force") {
		if !confirmPrompt("A profile already exists (" + cfg.User.ID + "). Create a new one?") {
			return nil
		}
	}

	fmt.Println(TitleStyle.Render("Welcome, seeker"))
	fmt.Println(MutedStyle.Render("A few questions shape how Prana speaks with you."))
	fmt.Println()

	name, err := promptInput("Your name (optional): ")
	if err != nil {
		return err
	}

	alignment, err := promptAlignment()
	if err != nil {
		return err
	}

	deity, err := promptInput("A deity or form you feel drawn to (optional): ")
	if err != nil {
		return err
	}

	goal, err := promptInput("What brings you here? (optional): ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	created, err := client.CreateUser(ctx, model.UserProfile{
		Name:               name,
		Alignment:          alignment,
		PreferredDeity:     deity,
		PrimaryGoal:        goal,
		OnboardingComplete: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	cfg.User.ID = created.ID
	cfg.User.Name = created.Name
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("profile created (%s) but saving config failed: %w", created.ID, err)
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Your path is set, " + displayName(created) + "."))
	fmt.Println(MutedStyle.Render("Run 'prana' to begin."))
	return nil
}

func promptAlignment() (model.Alignment, error) {
	fmt.Println("Which path speaks to you?")
	for i, a := range model.Alignments {
		fmt.Printf("  %d. %s\n", i+1, a.DisplayName())
	}

	for {
		answer, err := promptInput("Choose [1-" + strconv.Itoa(len(model.Alignments)) + "]: ")
		if err != nil {
			return "", err
		}
		if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(model.Alignments) {
			return model.Alignments[idx-1], nil
		}
		// Accept the path name directly too.
		if a := model.Alignment(answer); a.Valid() {
			return a, nil
		}
		fmt.Println(MutedStyle.Render("Please pick one of the listed paths."))
	}
}

func displayName(profile *model.UserProfile) string {
	if profile.Name != "" {
		return profile.Name
	}
	return "seeker"
}
