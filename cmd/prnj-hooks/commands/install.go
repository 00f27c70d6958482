package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/prnj-hooks/internal/atomicfile"
)

// hookShims maps git hook names to the subcommand they run.
var hookShims = []struct {
	hook       string
	subcommand string
}{
	{hook: "prepare-commit-msg", subcommand: "check-branch"},
	{hook: "commit-msg", subcommand: "check-message"},
}

// newInstallCommand returns the `prnj-hooks install` command.
func newInstallCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg and commit-msg hooks in this repository",
		Long: `Write thin shell shims into the repository's hooks directory (honouring
core.hooksPath) that call back into prnj-hooks. Existing hooks are left
alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			binary, _ := cmd.Flags().GetString("binary")

			dir, err := a.repo.HooksDir(cmd.Context())
			if err != nil {
				return withExitCode(err)
			}

			for _, shim := range hookShims {
				path := filepath.Join(dir, shim.hook)
				written, err := installShim(path, shimScript(binary, shim.subcommand), force)
				if err != nil {
					return withExitCode(err)
				}
				if written {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", path)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "up to date %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "overwrite existing hooks")
	cmd.Flags().String("binary", "prnj-hooks", "command the hooks invoke")

	return cmd
}

func shimScript(binary, subcommand string) []byte {
	return []byte(fmt.Sprintf("#!/bin/sh\n# Installed by prnj-hooks.\nexec %s %s \"$@\"\n", binary, subcommand))
}

// installShim writes content to path. It reports false when the file already
// holds exactly content, and fails on any other existing file unless force is set.
func installShim(path string, content []byte, force bool) (bool, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the hooks directory
	switch {
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	case err == nil && !force:
		return false, fmt.Errorf("hook %s already exists (use --force to replace it): %w", path, os.ErrExist)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("reading hook %s: %w", path, err)
	}

	if err := atomicfile.Write(path, content, 0o755); err != nil {
		return false, fmt.Errorf("installing hook %s: %w", path, err)
	}
	return true, nil
}
