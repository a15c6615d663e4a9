// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - the "prana config" command.
//
// Subcommands:
//   (none) | show        Print the current configuration
//   get <key>            Print one value (dot notation, e.g. api.base_url)
//   set <key> <value>    Set and save one value
//   path                 Print the config file location
//   keys                 List settable keys

package cli

import (
	"fmt"

	"github.com/Prashanththeanalyst/Prana-guru/internal/config"
)

func runConfig(parser *ArgParser) error {
	switch parser.Subcommand() {
	case "", "show":
		return configShow(parser)
	case "get":
		return configGet(parser)
	case "set":
		return configSet(parser)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println(key)
		}
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q; try show, get, set, path, keys", parser.Subcommand())
	}
}

func configShow(parser *ArgParser) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return outputJSON(cfg)
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Println(renderKV(key, fmt.Sprintf("%v", value)))
	}
	return nil
}

func configGet(parser *ArgParser) error {
	key := parser.Positional(1)
	if key == "" {
		return fmt.Errorf("usage: prana config get <key>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", value)
	return nil
}

func configSet(parser *ArgParser) error {
	key := parser.Positional(1)
	value := parser.Positional(2)
	if key == "" || value == "" {
		return fmt.Errorf("usage: prana config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render(fmt.Sprintf("%s = %s", key, value)))
	return nil
}
