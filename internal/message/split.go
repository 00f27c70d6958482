// SPDX-License-Identifier: AGPL-3.0-or-later

// Package message splits commit messages and appends missing ticket identifiers.
package message

import (
	"regexp"
	"strings"

	"github.com/bartekus/prnj-hooks/internal/branch"
)

// CutLine is the marker git writes above the diff in verbose commits.
// Everything from this line on is discarded by git.
const CutLine = "# ------------------------ >8 ------------------------"

var cutLineRe = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(CutLine))

// Split is a commit message broken into the regions the hooks care about.
type Split struct {
	Subject string
	Body    string
	Trailer string

	ProjectIDPresent bool
	DevIDPresent     bool

	branch branch.Classification
}

// Parse splits text for the given branch and records which identifiers
// already start a line in the body.
func Parse(text string, c branch.Classification) Split {
	subject, rest, _ := strings.Cut(text, "\n")

	body, trailer := rest, ""
	if loc := cutLineRe.FindStringIndex(rest); loc != nil {
		body, trailer = rest[:loc[0]], rest[loc[0]:]
	}

	return Split{
		Subject:          subject,
		Body:             body,
		Trailer:          trailer,
		ProjectIDPresent: c.ProjectID != "" && startsLine(body, c.ProjectID),
		DevIDPresent:     c.DevID != "" && !c.DevMarkerOnly() && startsLine(body, c.DevID),
		branch:           c,
	}
}

// startsLine reports whether some line of text begins with id as a whole token.
func startsLine(text, id string) bool {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(id) + `(?:[^\p{L}\p{N}_]|$)`)
	return re.MatchString(text)
}

// String reassembles the message.
func (s Split) String() string {
	return s.Subject + "\n" + s.Body + s.Trailer
}

// Missing returns the required identifiers absent from the body, dev id first.
func (s Split) Missing() []string {
	if s.branch.Kind == branch.KindWipOrHack {
		return nil
	}
	var ids []string
	if s.branch.RequiresDevID && !s.DevIDPresent {
		ids = append(ids, s.branch.DevID)
	}
	if s.branch.RequiresProjectID && !s.ProjectIDPresent {
		ids = append(ids, s.branch.ProjectID)
	}
	return ids
}

// Rewrite returns the message with the missing identifiers appended to the
// body, one per line after a blank line. The trailer is kept verbatim.
// Rewriting an already complete message returns it unchanged.
func (s Split) Rewrite() string {
	missing := s.Missing()
	if len(missing) == 0 {
		return s.String()
	}

	var b strings.Builder
	b.WriteString(s.Subject)
	b.WriteString("\n")
	b.WriteString(s.Body)
	if s.Body != "" && !strings.HasSuffix(s.Body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(missing, "\n"))
	b.WriteString("\n")
	b.WriteString(s.Trailer)
	return b.String()
}
