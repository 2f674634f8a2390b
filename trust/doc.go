/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trust decides whether the commits on a pull request were all
// authored by trusted committers.
//
// The decision is a pure function of the trusted set and the ordered commit
// authors: it performs no I/O and never looks at review state, so the same
// inputs always produce the same Verdict.
//
// # Basic Usage
//
//	trusted := trust.NewSet("dependabot[bot]", "renovate[bot]")
//	verdict := trust.Evaluate(trusted, commits)
//	if verdict.Decision == trust.Withheld {
//	    log.Info(verdict.Reason())
//	}
//
// # Unknown Authors
//
// A commit whose author could not be linked to an account carries the zero
// Identity. The zero Identity is never a member of any Set, so such a commit
// always withholds approval.
package trust
