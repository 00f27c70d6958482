// SPDX-License-Identifier: AGPL-3.0-or-later

/*
prnj-hooks - git hooks that enforce the PRNJ/DEV branch naming standard and keep the
matching ticket identifiers in every commit message body.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bartekus/prnj-hooks/internal/config"
	"github.com/bartekus/prnj-hooks/internal/gitstate"
	"github.com/bartekus/prnj-hooks/internal/hooks"
)

// Repo is the repository access the commands need.
type Repo interface {
	hooks.GitState
	TopLevel(ctx context.Context) (string, error)
	HooksDir(ctx context.Context) (string, error)
}

// Option configures the root command.
type Option func(*app)

// WithRepo replaces the git-backed repository, mainly for tests.
func WithRepo(r Repo) Option {
	return func(a *app) {
		a.repo = r
	}
}

// app holds state shared by all subcommands.
type app struct {
	repo       Repo
	verbose    bool
	configPath string
}

// NewRootCmd constructs the prnj-hooks root Cobra command.
func NewRootCmd(opts ...Option) *cobra.Command {
	version := os.Getenv("PRNJ_HOOKS_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	a := &app{}
	for _, opt := range opts {
		opt(a)
	}
	if a.repo == nil {
		a.repo = gitstate.New(".")
	}

	cmd := &cobra.Command{
		Use:   "prnj-hooks",
		Short: "Branch name and commit message hooks for PRNJ/DEV tickets",
		Long: `prnj-hooks checks that branch names embed a PRNJ project id (and optionally a DEV id)
and makes sure those ids start a line in every commit message body.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: <repo root>/"+config.FileName+")")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of prnj-hooks",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "prnj-hooks version %s\n", version)
		},
	})

	cmd.AddCommand(newCheckBranchCommand(a))
	cmd.AddCommand(newCheckMessageCommand(a))
	cmd.AddCommand(newClassifyCommand(a))
	cmd.AddCommand(newInstallCommand(a))

	return cmd
}

// logger writes human readable lines to the command's stderr.
func (a *app) logger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{
		Out:          cmd.ErrOrStderr(),
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(w).Level(level)
}

// loadConfig resolves settings, binding the named flags of cmd to config keys.
func (a *app) loadConfig(cmd *cobra.Command, flags map[string]string) (config.Config, error) {
	loader := config.NewLoader()
	for key, name := range flags {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return config.Config{}, err
		}
	}

	path := a.configPath
	if path == "" {
		// Outside a work tree there is no repository config to read.
		if top, err := a.repo.TopLevel(cmd.Context()); err == nil {
			path = filepath.Join(top, config.FileName)
		}
	}
	return loader.Load(path)
}

func (a *app) dispatcher(cmd *cobra.Command, flags map[string]string) (*hooks.Dispatcher, error) {
	cfg, err := a.loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	log := a.logger(cmd)
	log.Debug().
		Bool("auto_append", cfg.AutoAppend).
		Bool("allow_empty_branch", cfg.AllowEmptyBranch).
		Str("message_source", cfg.MessageSource).
		Msg("loaded config")
	return hooks.New(a.repo, cfg, hooks.WithLogger(log)), nil
}
