/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package automerge

import "strings"

// FailureKind classifies why auto-merge could not be enabled.
// Every kind is non-fatal.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureAlreadyMergeable means GitHub reports the pull request is in a
	// clean status and can be merged directly.
	FailureAlreadyMergeable
	// FailureMissingProtection means the base branch has no protection rules
	// (or required checks) that auto-merge could wait on.
	FailureMissingProtection
	// FailureDisabled means auto-merge is turned off for the repository.
	FailureDisabled
	FailureUnknown
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureAlreadyMergeable:
		return "already_mergeable"
	case FailureMissingProtection:
		return "missing_protection"
	case FailureDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Hint is a human readable explanation of the likely cause.
func (k FailureKind) Hint() string {
	switch k {
	case FailureAlreadyMergeable:
		return "The pull request is already mergeable; no checks are pending."
	case FailureMissingProtection:
		return "Auto-merge requires branch protection with at least one required status check."
	case FailureDisabled:
		return "Allow auto-merge must be enabled in the repository settings."
	default:
		return "The pull request may already be mergeable, or the base branch may lack required status checks."
	}
}

// GitHub does not expose an error code for these refusals, so they are
// recognized by message.
var failureMessages = []struct {
	substr string
	kind   FailureKind
}{
	{"clean status", FailureAlreadyMergeable},
	{"protected branch rules not configured", FailureMissingProtection},
	{"branch protection", FailureMissingProtection},
	{"auto-merge is not allowed", FailureDisabled},
	{"auto merge is not allowed", FailureDisabled},
}

// Classify maps an EnableAutoMerge error to a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	msg := strings.ToLower(err.Error())
	for _, fm := range failureMessages {
		if strings.Contains(msg, fm.substr) {
			return fm.kind
		}
	}
	return FailureUnknown
}
