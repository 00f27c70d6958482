// SPDX-License-Identifier: AGPL-3.0-or-later

// Package branch classifies branch names against the PRNJ/DEV naming standard.
//
// A conforming name looks like
//
//	[hotfix-|hotfix/|proj/]PRNJ-<number>[-DEV[-<number>]]-<description>
//
// Throwaway branches (wip-, hack-, poc- and their slash forms) are exempt.
package branch

import (
	"regexp"
	"strings"
)

const devMarker = "DEV"

var throwawayPrefixes = []string{"wip-", "wip/", "hack-", "hack/", "poc-", "poc/"}

// wordClass is a description character in any script. Go's \w is ASCII only.
const wordClass = `[\p{L}\p{N}_]`

var (
	grammarRe = regexp.MustCompile(`^(?:(?P<hotfix>hotfix[-/])|(?P<proj>proj/))?(?P<project>PRNJ-\d+)(?:-(?P<dev>DEV(?:-\d+)?))?-(?P<desc>` + wordClass + `+)`)

	// A name made of identifiers only, with or without a dangling hyphen.
	stubRe = regexp.MustCompile(`^(?:hotfix[-/]|proj/)?PRNJ-\d+(?:-DEV(?:-\d+)?)?-?$`)

	projectIDRe = regexp.MustCompile(`PRNJ-\d+`)
	devTokenRe  = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])DEV(?:[^\p{L}\p{N}_]|$)`)
)

var (
	idxHotfix  = grammarRe.SubexpIndex("hotfix")
	idxProj    = grammarRe.SubexpIndex("proj")
	idxProject = grammarRe.SubexpIndex("project")
	idxDev     = grammarRe.SubexpIndex("dev")
	idxDesc    = grammarRe.SubexpIndex("desc")
)

// Classify parses name and applies the branch policy.
//
// The returned Classification is always populated. The error is a
// *MalformedError for names that do not parse and wraps
// ErrProjectParentCommit for project parent branches.
func Classify(name string) (Classification, error) {
	if isThrowaway(name) {
		return Classification{Name: name, Kind: KindWipOrHack}, nil
	}

	m := grammarRe.FindStringSubmatch(name)
	if m == nil || stubRe.MatchString(name) || numberAfterMarker(m) {
		c := Classification{Name: name, Kind: KindInvalid, Problems: diagnose(name)}
		return c, c.Err()
	}

	c := Classification{
		Name:      name,
		ProjectID: m[idxProject],
		DevID:     m[idxDev],
	}
	pinnedDev := c.DevID != "" && c.DevID != devMarker

	switch {
	case m[idxProj] != "" && c.DevID == "":
		c.Kind = KindProjectParent
		return c, c.Err()
	case m[idxProj] != "":
		c.Kind = KindProjectDev
		c.RequiresProjectID = true
		c.RequiresDevID = pinnedDev
	case m[idxHotfix] != "":
		c.Kind = KindHotfix
		c.RequiresProjectID = true
	default:
		c.Kind = KindPlainTicket
		c.RequiresProjectID = true
		c.RequiresDevID = pinnedDev
	}
	return c, nil
}

// numberAfterMarker reports a bare DEV marker followed by a numeric-only
// description. Backtracking reads "PRNJ-1-DEV-2-" that way once the real
// description after DEV-2 fails to match.
func numberAfterMarker(m []string) bool {
	return m[idxDev] == devMarker && strings.TrimLeft(m[idxDesc], "0123456789") == ""
}

func isThrowaway(name string) bool {
	for _, p := range throwawayPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// diagnose explains why name failed the grammar. Every applicable problem is
// reported; the placement hint is only given when both identifiers exist.
func diagnose(name string) []string {
	foundProject := projectIDRe.MatchString(name)
	foundDev := devTokenRe.MatchString(name)

	var problems []string
	if !foundProject {
		problems = append(problems, "could not find PRNJ-number")
	}
	if !foundDev {
		problems = append(problems, "could not find DEV marker")
	}
	switch {
	case stubRe.MatchString(name):
		problems = append(problems, "could not find a branch description")
	case foundProject && foundDev:
		problems = append(problems,
			"PRNJ-number and DEV-number are wrongly placed: "+
				"they should be (hotfix/|proj/)?PRNJ-number(-DEV(-number)?)?-description")
	}
	return problems
}
