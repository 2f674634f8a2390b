/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"strconv"

	"chainguard.dev/autoapprove/approver"
	"chainguard.dev/autoapprove/trust"
	"github.com/sethvargo/go-githubactions"
)

// Output names set on the step.
const (
	OutputDecision        = "decision"
	OutputOffendingCommit = "offending-commit"
	OutputDismissed       = "dismissed"
	OutputAutoMerge       = "auto-merge"
)

// Outputs computes the step outputs of a run.
func Outputs(out *approver.Outcome) map[string]string {
	o := map[string]string{
		OutputDecision:        out.Verdict.Decision.String(),
		OutputOffendingCommit: "",
		OutputDismissed:       "0",
		OutputAutoMerge:       AutoMergeStatus(out),
	}
	if out.Verdict.Offending != nil {
		o[OutputOffendingCommit] = out.Verdict.Offending.SHA
	}
	if out.Reviews != nil {
		o[OutputDismissed] = strconv.Itoa(len(out.Reviews.Dismissed))
	}
	return o
}

// Publish sets the step outputs and appends the step summary.
func Publish(a *githubactions.Action, number int, out *approver.Outcome, trusted trust.Set) {
	for k, v := range Outputs(out) {
		a.SetOutput(k, v)
	}
	a.AddStepSummary(Markdown(number, out, trusted))
}
