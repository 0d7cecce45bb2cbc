// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command for coderhelper.
//
// Command: coderhelper
// Short:   Open the interactive translation workspace
//
// Subcommands:
//   translate   One-shot translation streamed to stdout
//   serve       Run the translation backend
//   config      Show or change configuration
//   version     Print the version
//
// Flags:
//   --config FILE       Use FILE instead of ~/.coderhelper/config.toml
//   --log-level LEVEL   debug, info, warn or error

package cli

import (
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/server"
)

// Build information, set by main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	server.Version = Version

	root := &cobra.Command{
		Use:   "coderhelper",
		Short: "Translate, explain and optimize code with AI",
		Long: `coderhelper converts code between languages, turns natural language
into code and explains code in plain words.

Examples:
  coderhelper                                   # open the workspace
  coderhelper translate --to Go --file main.py  # one-shot conversion
  echo "reverse a list" | coderhelper translate --to Rust
  coderhelper serve                             # run the backend`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runWorkspace(cmd, cfg)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.coderhelper/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newTranslateCommand(flags),
		newServeCommand(flags),
		newConfigCommand(flags),
		newVersionCommand(),
	)
	return root
}

// load reads the configuration selected by the flags.
func (f *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
		if err != nil {
			return nil, configError(err)
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, configError(err)
		}
		if err != nil {
			// Defaults are usable; the broken file is reported once.
			log.WithError(err).Warn("ignoring unreadable config file")
		}
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// activePath returns the config file commands read and write.
func (f *globalFlags) activePath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.ActivePath()
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	root := NewRootCommand()
	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		printError(os.Stderr, err)
	}
	return ExitCode(err)
}
