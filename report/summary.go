/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders the outcome of a run for the workflow: action
// outputs and a markdown step summary.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"chainguard.dev/autoapprove/approver"
	"chainguard.dev/autoapprove/trust"
)

// Auto-merge output values.
const (
	AutoMergeEnabled = "enabled"
	AutoMergeSkipped = "skipped"
	AutoMergeFailed  = "failed"
)

// AutoMergeStatus summarizes the auto-merge step of a run.
func AutoMergeStatus(out *approver.Outcome) string {
	switch {
	case out == nil || out.AutoMerge == nil:
		return AutoMergeSkipped
	case out.AutoMerge.Enabled:
		return AutoMergeEnabled
	default:
		return AutoMergeFailed
	}
}

// Markdown renders a step summary for the run on pull request number.
func Markdown(number int, out *approver.Outcome, trusted trust.Set) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Auto-approval of #%d: %s\n\n", number, out.Verdict.Decision)
	if out.PullRequest != nil {
		fmt.Fprintf(&sb, "Opened by `%s`.\n\n", out.PullRequest.Creator)
	}
	fmt.Fprintf(&sb, "%s.\n\n", capitalize(out.Verdict.Reason()))

	if len(out.Commits) > 0 {
		sb.WriteString(commitTable(out, trusted))
		sb.WriteString("\n")
	}

	if r := out.Reviews; r != nil {
		if r.Approved {
			sb.WriteString("Submitted an approving review.\n\n")
		}
		if len(r.Dismissed) > 0 {
			fmt.Fprintf(&sb, "Dismissed approvals: %s\n\n", joinIDs(r.Dismissed))
		}
		if len(r.Failed) > 0 {
			fmt.Fprintf(&sb, "Failed to dismiss approvals: %s\n\n", joinIDs(r.Failed))
		}
	}

	switch status := AutoMergeStatus(out); status {
	case AutoMergeFailed:
		fmt.Fprintf(&sb, "Auto-merge: %s (%s). %s\n", status, out.AutoMerge.Failure, out.AutoMerge.Failure.Hint())
	default:
		fmt.Fprintf(&sb, "Auto-merge: %s\n", status)
	}
	return sb.String()
}

func commitTable(out *approver.Outcome, trusted trust.Set) string {
	var buf bytes.Buffer
	table := newCommitTable(&buf)
	for i, c := range out.Commits {
		offending := out.Verdict.Decision == trust.Withheld && i == out.Verdict.Index
		_ = table.Append(commitRow(c, trusted, offending))
	}
	_ = table.Render()
	return buf.String()
}

func joinIDs(ids []int64) string {
	s := make([]string, 0, len(ids))
	for _, id := range ids {
		s = append(s, fmt.Sprint(id))
	}
	return strings.Join(s, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
