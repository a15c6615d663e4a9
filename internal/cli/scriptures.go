// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// scriptures.go - the "prana scriptures" library browser.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Prashanththeanalyst/Prana-guru/internal/api"
)

func runScriptures(parser *ArgParser) error {
	_, client, err := loadSetup(parser)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	scriptures, err := client.ListScriptures(ctx)
	if err != nil {
		return err
	}

	// Optional theme filter: prana scriptures --theme detachment
	if theme := parser.Flag("theme"); theme != "" {
		filtered := scriptures[:0]
		for _, s := range scriptures {
			for _, t := range s.Themes {
				if strings.EqualFold(t, theme) {
					filtered = append(filtered, s)
					break
				}
			}
		}
		scriptures = filtered
	}

	if parser.BoolFlag("json") {
		return outputJSON(scriptures)
	}

	fmt.Println(TitleStyle.Render("Scripture library"))
	for _, s := range scriptures {
		fmt.Println(SectionStyle.Render(s.Source))
		fmt.Println("  " + s.Sanskrit)
		fmt.Println("  " + ValueStyle.Render(s.Translation))
		if len(s.Themes) > 0 {
			fmt.Println("  " + MutedStyle.Render(strings.Join(s.Themes, ", ")))
		}
	}
	fmt.Println()
	fmt.Println(MutedStyle.Render(fmt.Sprintf("%d verses", len(scriptures))))
	return nil
}
