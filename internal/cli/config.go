// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file path
//   init                Write a default configuration file
//   get <key>           Print one value
//   set <key> <value>   Change one value in the file
//
// Examples:
//   coderhelper config show --json
//   coderhelper config set upstream.provider anthropic
//   coderhelper config set ui.natural_language Spanish
//   coderhelper config get client.base_url

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/coderhelper/internal/config"
)

const redacted = "[REDACTED]"

// secretKeys are masked by show and get.
var secretKeys = map[string]bool{
	"upstream.api_key": true,
}

func newConfigCommand(global *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, global, asJSON)
		},
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output in JSON format")

	show := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, global, asJSON)
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := global.activePath()
			if err != nil {
				return configError(err)
			}
			if asJSON {
				return NewJSONResponse("config path", map[string]string{"path": p}).Write(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, global, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			value, err := displayValue(cfg, args[0])
			if err != nil {
				return withCode(ExitUsageError, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, global, args[0], args[1])
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}

// =============================================================================
// SHOW
// =============================================================================

func runConfigShow(cmd *cobra.Command, global *globalFlags, asJSON bool) error {
	cfg, err := global.load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON {
		// String redacts secrets; decode it back so the envelope nests it.
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(cfg.String()), &data); err != nil {
			return err
		}
		return NewJSONResponse("config show", data).Write(out)
	}

	path, _ := global.activePath()
	fmt.Fprintln(out, TitleStyle.Render("coderhelper configuration"))
	fmt.Fprintln(out, renderKeyValue("file", path))

	section := ""
	for _, key := range config.Keys() {
		name, _, _ := strings.Cut(key, ".")
		if name != section {
			section = name
			fmt.Fprintln(out, SectionStyle.Render("["+section+"]"))
		}
		value, err := displayValue(cfg, key)
		if err != nil {
			continue
		}
		if value == "" {
			value = DimStyle.Render("(not set)")
		}
		fmt.Fprintln(out, renderKeyValue(key, value))
	}
	return nil
}

// displayValue formats a value for display, masking secrets.
func displayValue(cfg *config.Config, key string) (string, error) {
	v, err := cfg.Get(key)
	if err != nil {
		return "", err
	}
	s := fmt.Sprint(v)
	if secretKeys[strings.ToLower(key)] && s != "" {
		return redacted, nil
	}
	return s, nil
}

// =============================================================================
// INIT / SET
// =============================================================================

func runConfigInit(cmd *cobra.Command, global *globalFlags, force bool) error {
	path, err := global.activePath()
	if err != nil {
		return configError(err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return withCode(ExitUsageError, fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}
	if err := saveTo(config.Default(), path); err != nil {
		return configError(err)
	}
	printSuccess(cmd.OutOrStdout(), "Wrote "+path)
	return nil
}

// runConfigSet changes one key in the file. Environment overrides are not
// applied, so they are never written back.
func runConfigSet(cmd *cobra.Command, global *globalFlags, key, value string) error {
	path, err := global.activePath()
	if err != nil {
		return configError(err)
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := loadFileOnly(cfg, path); err != nil {
			return configError(err)
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return withCode(ExitUsageError, err)
	}
	if err := cfg.Validate(); err != nil {
		var verrs config.ValidateErrors
		if errors.As(err, &verrs) {
			return withCode(ExitUsageError, verrs)
		}
		return withCode(ExitUsageError, err)
	}
	if err := saveTo(cfg, path); err != nil {
		return configError(err)
	}

	shown, _ := displayValue(cfg, key)
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Set %s = %s", key, shown))
	return nil
}

func loadFileOnly(cfg *config.Config, path string) error {
	if isJSONPath(path) {
		return config.LoadJSON(cfg, path)
	}
	return config.LoadTOML(cfg, path)
}

func saveTo(cfg *config.Config, path string) error {
	if isJSONPath(path) {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func isJSONPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, SuccessStyle.Render("[OK]")+" "+msg)
}
