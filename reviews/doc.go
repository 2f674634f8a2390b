/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reviews reconciles a pull request's review state with a trust
// decision.
//
// When the decision is trust.Approved the reconciler submits one approving
// review. When it is trust.Withheld the reconciler dismisses every APPROVED
// review authored by a managed reviewer and leaves all other reviews alone.
// A single reconciliation never both approves and dismisses.
//
// # Basic Usage
//
//	rec := reviews.NewReconciler(client,
//	    reviews.WithApprovalBody("Auto-approved: all commits are from trusted committers"),
//	)
//	res, err := rec.Reconcile(ctx, pr.Number, verdict.Decision, managed, current)
//
// Plan exposes the same decision logic without side effects.
package reviews
