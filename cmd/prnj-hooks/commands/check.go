package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/prnj-hooks/internal/config"
)

// newCheckBranchCommand returns the `prnj-hooks check-branch` command,
// run from the prepare-commit-msg hook.
func newCheckBranchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-branch <commit-msg-file> [source] [sha]",
		Short: "Validate the current branch name (prepare-commit-msg hook)",
		Long: `Validate the checked out branch name against the naming standard.
Takes the arguments git passes to prepare-commit-msg. Merge commits,
rebases and cherry-picks are skipped.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) > 1 {
				source = args[1]
			}

			d, err := a.dispatcher(cmd, nil)
			if err != nil {
				return withExitCode(err)
			}
			return withExitCode(d.CheckBranch(cmd.Context(), source))
		},
	}
}

// newCheckMessageCommand returns the `prnj-hooks check-message` command,
// run from the commit-msg hook.
func newCheckMessageCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-message <commit-msg-file>",
		Short: "Append missing ticket ids and validate the commit message (commit-msg hook)",
		Long: `Append the PRNJ and DEV ids required by the current branch to the commit
message body when they are missing, then check that they are present.
Set ` + config.EnvAutoAppend + `=0 to only validate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(cmd, map[string]string{config.KeyAutoAppend: "auto-append"})
			if err != nil {
				return withExitCode(err)
			}
			return withExitCode(d.CheckMessage(cmd.Context(), args[0]))
		},
	}

	cmd.Flags().Bool("auto-append", true, "append missing ids before validating (overrides config and environment)")

	return cmd
}
