package commands

import (
	"errors"

	"github.com/bartekus/prnj-hooks/cmd/prnj-hooks/internal/clierr"
	"github.com/bartekus/prnj-hooks/internal/branch"
	"github.com/bartekus/prnj-hooks/internal/hooks"
	"github.com/bartekus/prnj-hooks/internal/message"
)

// withExitCode attaches the process exit code matching err's kind.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	var ec clierr.ExitCoder
	if errors.As(err, &ec) {
		return err
	}

	code := clierr.ExitFailure
	switch {
	case errors.Is(err, branch.ErrProjectParentCommit):
		code = clierr.ExitProjectParent
	case errors.Is(err, branch.ErrMalformed):
		code = clierr.ExitMalformedBranch
	case errors.Is(err, message.ErrMissingIdentifier):
		code = clierr.ExitMissingIdentifier
	case errors.Is(err, hooks.ErrBranchUnavailable):
		code = clierr.ExitBranchUnavailable
	}
	return clierr.Wrap(code, "", err)
}
