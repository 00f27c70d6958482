// SPDX-License-Identifier: AGPL-3.0-or-later

package branch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed indicates the branch name does not follow the naming standard.
	ErrMalformed = errors.New("branch name does not follow the standard")

	// ErrProjectParentCommit indicates a commit on a project parent branch.
	ErrProjectParentCommit = errors.New("committing directly to a project branch is not allowed")
)

// MalformedError lists every problem found in a branch name.
type MalformedError struct {
	Name     string
	Problems []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformed.Error(), strings.Join(e.Problems, ", "))
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func projectParentError(name string) error {
	return fmt.Errorf("%w: %q is a project branch, create a dev branch such as proj/PRNJ-<number>-DEV[-<number>]-description",
		ErrProjectParentCommit, name)
}
