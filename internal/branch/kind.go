// SPDX-License-Identifier: AGPL-3.0-or-later

package branch

import "strings"

// Kind is the structural shape of a branch name.
type Kind string

const (
	KindWipOrHack     Kind = "wip-or-hack"
	KindHotfix        Kind = "hotfix"
	KindProjectParent Kind = "project-parent"
	KindProjectDev    Kind = "project-dev"
	KindPlainTicket   Kind = "plain-ticket"
	KindInvalid       Kind = "invalid"
)

// Classification is the result of classifying one branch name.
// It is a value type and is never mutated after Classify returns it.
type Classification struct {
	Name              string   `json:"branch" yaml:"branch"`
	Kind              Kind     `json:"kind" yaml:"kind"`
	ProjectID         string   `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	DevID             string   `json:"dev_id,omitempty" yaml:"dev_id,omitempty"`
	RequiresProjectID bool     `json:"requires_project_id" yaml:"requires_project_id"`
	RequiresDevID     bool     `json:"requires_dev_id" yaml:"requires_dev_id"`
	Problems          []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// Valid reports whether commits are allowed on the branch.
func (c Classification) Valid() bool {
	return c.Kind != KindInvalid && c.Kind != KindProjectParent
}

// Required returns the identifiers a commit message body must carry,
// in the order they are appended (dev id first).
func (c Classification) Required() []string {
	var ids []string
	if c.RequiresDevID && c.DevID != "" {
		ids = append(ids, c.DevID)
	}
	if c.RequiresProjectID && c.ProjectID != "" {
		ids = append(ids, c.ProjectID)
	}
	return ids
}

// Diagnostic joins the problems found in an invalid name.
func (c Classification) Diagnostic() string {
	return strings.Join(c.Problems, ", ")
}

// Err returns the policy error for a classification that forbids commits,
// or nil when commits are allowed.
func (c Classification) Err() error {
	switch c.Kind {
	case KindInvalid:
		return &MalformedError{Name: c.Name, Problems: c.Problems}
	case KindProjectParent:
		return projectParentError(c.Name)
	default:
		return nil
	}
}

// DevMarkerOnly reports whether the branch carries a bare DEV marker without a number.
func (c Classification) DevMarkerOnly() bool {
	return c.DevID == devMarker
}
