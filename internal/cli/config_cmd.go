// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - show, get, set and path subcommands for configuration.
package cli

import (
	"fmt"

	"github.com/morganforge/docchat-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(deps *Deps, args Args) error {
	switch args.Subcommand {
	case "show", "":
		return configShow(deps, args)
	case "get":
		return configGet(deps, args)
	case "set":
		return configSet(deps, args)
	case "path":
		return configPath(args)
	default:
		return NewUsageError("config", fmt.Sprintf("unknown subcommand %q", args.Subcommand),
			"docchat config [show|get|set|path]")
	}
}

func configShow(deps *Deps, args Args) error {
	if args.JSON {
		return outputJSON(deps.Cfg)
	}

	fmt.Println(headerStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := deps.Cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-28s %v\n", key, value)
	}
	return nil
}

func configGet(deps *Deps, args Args) error {
	if args.ConfigKey == "" {
		return NewUsageError("config", "get requires a key", "docchat config get ui.theme")
	}

	value, err := deps.Cfg.Get(args.ConfigKey)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(map[string]interface{}{args.ConfigKey: value})
	}
	fmt.Printf("%v\n", value)
	return nil
}

func configSet(deps *Deps, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return NewUsageError("config", "set requires a key and a value",
			"docchat config set chat.top_k 3")
	}

	if err := deps.Cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := deps.Cfg.Validate(); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}
	if err := config.Save(deps.Cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if !args.Quiet {
		fmt.Printf("%s %s = %s\n", successStyle.Render("Set"), args.ConfigKey, args.ConfigVal)
	}
	return nil
}

func configPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(map[string]string{"path": path})
	}
	fmt.Println(path)
	return nil
}
