// SPDX-License-Identifier: AGPL-3.0-or-later

package message

import (
	"errors"
	"fmt"
	"os"

	"github.com/bartekus/prnj-hooks/internal/atomicfile"
	"github.com/bartekus/prnj-hooks/internal/branch"
)

// ErrMissingIdentifier indicates a required identifier is absent from the body.
var ErrMissingIdentifier = errors.New("identifier missing from commit message body")

// MissingIdentifierError names the identifier that was not found.
type MissingIdentifierError struct {
	ID string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("did not find %s in commit message body", e.ID)
}

func (e *MissingIdentifierError) Unwrap() error { return ErrMissingIdentifier }

// Validate checks that every required identifier starts a line in the body.
// The project id is checked before the dev id.
func Validate(s Split) error {
	c := s.branch
	if c.Kind == branch.KindWipOrHack {
		return nil
	}
	if err := c.Err(); err != nil {
		return err
	}
	if c.RequiresProjectID && !s.ProjectIDPresent {
		return &MissingIdentifierError{ID: c.ProjectID}
	}
	if c.RequiresDevID && !s.DevIDPresent {
		return &MissingIdentifierError{ID: c.DevID}
	}
	return nil
}

// ProcessFile reads the commit message at path, appends missing identifiers
// when doAppend is set, and validates the result. It returns the identifiers
// that were written. The file is only rewritten when something was missing.
func ProcessFile(path string, c branch.Classification, doAppend bool) ([]string, error) {
	if c.Kind == branch.KindWipOrHack {
		return nil, nil
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by git
	if err != nil {
		return nil, fmt.Errorf("reading commit message: %w", err)
	}

	split := Parse(string(data), c)
	var appended []string
	if doAppend {
		if missing := split.Missing(); len(missing) > 0 {
			rewritten := split.Rewrite()
			if err := atomicfile.Replace(path, []byte(rewritten)); err != nil {
				return nil, fmt.Errorf("writing commit message: %w", err)
			}
			appended = missing
			split = Parse(rewritten, c)
		}
	}

	return appended, Validate(split)
}
