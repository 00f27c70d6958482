package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/prnj-hooks/internal/branch"
	"github.com/bartekus/prnj-hooks/internal/config"
	"github.com/bartekus/prnj-hooks/internal/hooks"
)

// newClassifyCommand returns the `prnj-hooks classify` command.
func newClassifyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [branch]",
		Short: "Show how a branch name is classified",
		Long: `Print the kind of a branch and the ids its commits must carry.
Without an argument the checked out branch is used. Exits non-zero when
commits are not allowed on the branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			var (
				c   branch.Classification
				err error
			)
			if len(args) == 1 {
				c, err = branch.Classify(args[0])
			} else {
				c, err = hooks.New(a.repo, config.Default(), hooks.WithLogger(a.logger(cmd))).
					ClassifyCurrentBranch(cmd.Context())
				if c.Name == "" && err != nil {
					return withExitCode(err)
				}
			}

			if werr := writeClassification(cmd.OutOrStdout(), c, format); werr != nil {
				return werr
			}
			return withExitCode(err)
		},
	}

	cmd.Flags().String("format", "text", "Output format: text (default), json or yaml")

	return cmd
}

func writeClassification(w io.Writer, c branch.Classification, format string) error {
	switch format {
	case "text":
		var b strings.Builder
		fmt.Fprintf(&b, "branch:     %s\n", c.Name)
		fmt.Fprintf(&b, "kind:       %s\n", c.Kind)
		if c.ProjectID != "" {
			fmt.Fprintf(&b, "project id: %s\n", c.ProjectID)
		}
		if c.DevID != "" {
			fmt.Fprintf(&b, "dev id:     %s\n", c.DevID)
		}
		if required := c.Required(); len(required) > 0 {
			fmt.Fprintf(&b, "requires:   %s\n", strings.Join(required, ", "))
		}
		if len(c.Problems) > 0 {
			fmt.Fprintf(&b, "problems:   %s\n", c.Diagnostic())
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("writing text output: %w", err)
		}
		return nil

	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing JSON output: %w", err)
		}
		return nil

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("writing YAML output: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'yaml')", format)
	}
}
