// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hooks decides whether a commit is checked and runs the branch
// and commit message checks for the prepare-commit-msg and commit-msg hooks.
package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bartekus/prnj-hooks/internal/branch"
	"github.com/bartekus/prnj-hooks/internal/config"
	"github.com/bartekus/prnj-hooks/internal/message"
)

// SourceMerge is the commit message source git and pre-commit report for merge commits.
const SourceMerge = "merge"

// ErrBranchUnavailable indicates the current branch name could not be read.
var ErrBranchUnavailable = errors.New("could not determine the current branch name")

// GitState is what the hooks need to know about the repository.
type GitState interface {
	// CurrentBranchName returns the short branch name, or "" when HEAD is detached.
	CurrentBranchName(ctx context.Context) (string, error)
	// MergeLikeState reports a merge, rebase or cherry-pick in progress.
	MergeLikeState(ctx context.Context) (bool, error)
}

// Dispatcher runs the checks for one hook invocation.
type Dispatcher struct {
	git GitState
	cfg config.Config
	log zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// New creates a Dispatcher.
func New(git GitState, cfg config.Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		git: git,
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Skip reports whether the commit is part of a merge, rebase or cherry-pick.
// Such commits inherit their identifiers and are never checked or rewritten.
// source is the message source git passes to prepare-commit-msg, if any.
func (d *Dispatcher) Skip(ctx context.Context, source string) (bool, error) {
	if source == SourceMerge || d.cfg.MessageSource == SourceMerge {
		d.log.Debug().Str("source", SourceMerge).Msg("merge commit, skipping checks")
		return true, nil
	}
	merging, err := d.git.MergeLikeState(ctx)
	if err != nil {
		return false, fmt.Errorf("detecting merge state: %w", err)
	}
	if merging {
		d.log.Debug().Msg("merge, rebase or cherry-pick in progress, skipping checks")
	}
	return merging, nil
}

// ClassifyCurrentBranch reads the checked out branch and classifies it.
func (d *Dispatcher) ClassifyCurrentBranch(ctx context.Context) (branch.Classification, error) {
	name, err := d.git.CurrentBranchName(ctx)
	if err != nil {
		return branch.Classification{}, fmt.Errorf("%w: %w", ErrBranchUnavailable, err)
	}
	if name == "" {
		return branch.Classification{}, fmt.Errorf("%w: HEAD is detached", ErrBranchUnavailable)
	}

	c, err := branch.Classify(name)
	d.log.Debug().
		Str("branch", name).
		Str("kind", string(c.Kind)).
		Str("project_id", c.ProjectID).
		Str("dev_id", c.DevID).
		Msg("classified branch")
	return c, err
}

// ProcessMessage appends missing identifiers to the message at path when
// doAppend is set, then validates it.
func (d *Dispatcher) ProcessMessage(path string, c branch.Classification, doAppend bool) error {
	appended, err := message.ProcessFile(path, c, doAppend)
	if len(appended) > 0 {
		d.log.Debug().Strs("ids", appended).Str("path", path).Msg("appended identifiers to commit message")
	}
	return err
}

// CheckBranch is the prepare-commit-msg stage: it only validates the branch name.
func (d *Dispatcher) CheckBranch(ctx context.Context, source string) error {
	skip, err := d.Skip(ctx, source)
	if err != nil || skip {
		return err
	}
	_, err = d.ClassifyCurrentBranch(ctx)
	return d.tolerate(err)
}

// CheckMessage is the commit-msg stage: it validates the branch, appends
// missing identifiers when enabled and validates the message body.
func (d *Dispatcher) CheckMessage(ctx context.Context, path string) error {
	skip, err := d.Skip(ctx, "")
	if err != nil || skip {
		return err
	}
	c, err := d.ClassifyCurrentBranch(ctx)
	if err != nil {
		return d.tolerate(err)
	}
	if !d.cfg.AutoAppend {
		d.log.Debug().Msg("auto append disabled, validating only")
	}
	return d.ProcessMessage(path, c, d.cfg.AutoAppend)
}

// tolerate downgrades an unreadable branch name to a warning when configured.
func (d *Dispatcher) tolerate(err error) error {
	if err != nil && d.cfg.AllowEmptyBranch && errors.Is(err, ErrBranchUnavailable) {
		d.log.Warn().Err(err).Msg("skipping branch checks")
		return nil
	}
	return err
}
