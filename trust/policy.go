/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trust

import "fmt"

// Decision is the outcome of evaluating a pull request's commits.
type Decision int

const (
	// Withheld means at least one commit was not authored by a trusted committer.
	Withheld Decision = iota
	// Approved means every commit was authored by a trusted committer.
	Approved
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Withheld:
		return "withheld"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Commit is a single commit on a pull request.
type Commit struct {
	SHA    string
	Author Identity
}

// Verdict is the result of Evaluate.
type Verdict struct {
	Decision Decision

	// Offending is the first commit whose author is not trusted.
	// It is nil when Decision is Approved.
	Offending *Commit
	// Index is the position of Offending in the evaluated commits, or -1.
	Index int
}

// Reason describes why the verdict was reached.
func (v Verdict) Reason() string {
	if v.Offending == nil {
		return "all commits are from trusted committers"
	}
	return fmt.Sprintf("commit %s is not from a trusted committer (%s)", v.Offending.SHA, v.Offending.Author)
}

// FirstUntrusted returns the index of the first commit whose author is not in
// trusted. The second result is false when every author is trusted.
func FirstUntrusted(trusted Set, commits []Commit) (int, bool) {
	for i, c := range commits {
		if !trusted.Contains(c.Author) {
			return i, true
		}
	}
	return -1, false
}

// Evaluate scans commits in order and withholds approval at the first commit
// not authored by a member of trusted. An empty commit list is Approved.
func Evaluate(trusted Set, commits []Commit) Verdict {
	i, found := FirstUntrusted(trusted, commits)
	if !found {
		return Verdict{Decision: Approved, Index: -1}
	}
	offending := commits[i]
	return Verdict{
		Decision:  Withheld,
		Offending: &offending,
		Index:     i,
	}
}
