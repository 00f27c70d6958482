// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitstate answers the questions the hooks ask git: which branch is
// checked out, and whether a merge, rebase or cherry-pick is in progress.
package gitstate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Markers are the entries git keeps in its directory while a merge-like
// operation is in progress.
var Markers = []string{
	"MERGE_HEAD",
	"CHERRY_PICK_HEAD",
	"rebase-merge",
	"rebase-apply",
}

// Error wraps a failed git invocation.
type Error struct {
	Op     string
	Output string
	Err    error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Repo runs git in a working directory.
type Repo struct {
	dir string

	mu     sync.Mutex
	gitDir string
}

// New creates a Repo rooted at dir.
func New(dir string) *Repo {
	return &Repo{dir: dir}
}

// CurrentBranchName returns the short name of the checked out branch.
// A detached HEAD yields an empty name and no error. Unborn branches
// (no commits yet) are reported by name.
func (r *Repo) CurrentBranchName(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", &Error{Op: "get current branch", Output: out, Err: err}
	}
	return out, nil
}

// GitDir returns the absolute path of the repository's git directory,
// caching the result for the instance lifetime.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gitDir != "" {
		return r.gitDir, nil
	}

	out, err := r.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", &Error{Op: "locate git directory", Output: out, Err: err}
	}
	r.gitDir = r.abs(out)
	return r.gitDir, nil
}

// TopLevel returns the root of the work tree.
func (r *Repo) TopLevel(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", &Error{Op: "locate work tree root", Output: out, Err: err}
	}
	return out, nil
}

// HooksDir returns the directory git runs hooks from, honouring core.hooksPath.
func (r *Repo) HooksDir(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", &Error{Op: "locate hooks directory", Output: out, Err: err}
	}
	return r.abs(out), nil
}

// MergeLikeState reports whether a merge, rebase or cherry-pick is in progress.
func (r *Repo) MergeLikeState(ctx context.Context) (bool, error) {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false, err
	}
	for _, marker := range Markers {
		if _, err := os.Stat(filepath.Join(gitDir, marker)); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repo) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.dir, path)
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(stderr.String()), err
	}
	return strings.TrimSpace(stdout.String()), nil
}
