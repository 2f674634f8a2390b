/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviews

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/autoapprove/trust"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Plan is the set of mutations required to reconcile a pull request.
// Approve and Dismiss are mutually exclusive.
type Plan struct {
	Approve bool
	Dismiss []Review
}

// Empty reports whether the plan requires no mutation.
func (p Plan) Empty() bool {
	return !p.Approve && len(p.Dismiss) == 0
}

// PlanFor computes the mutations for decision given the current reviews.
// Only APPROVED reviews authored by a member of managed are dismissed.
func PlanFor(decision trust.Decision, managed trust.Set, current []Review) Plan {
	if decision == trust.Approved {
		return Plan{Approve: true}
	}
	var p Plan
	for _, r := range current {
		if r.State == StateApproved && managed.Contains(r.Author) {
			p.Dismiss = append(p.Dismiss, r)
		}
	}
	return p
}

// Result records the mutations a reconciliation performed.
type Result struct {
	Approved  bool
	Dismissed []int64
	Failed    []int64
}

// Reconciler applies Plans through a Service.
type Reconciler struct {
	svc            Service
	approvalBody   string
	dismissMessage string
	concurrency    int
}

// NewReconciler constructs a Reconciler with the provided options.
func NewReconciler(svc Service, opts ...Option) *Reconciler {
	r := &Reconciler{
		svc:            svc,
		dismissMessage: DefaultDismissMessage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile makes the review state of pull request number match decision.
//
// An approval is submitted unconditionally when decision is Approved; review
// history is additive so a duplicate approval is harmless. When decision is
// Withheld every planned dismissal is attempted even if an earlier one fails,
// and the failures are returned joined.
func (r *Reconciler) Reconcile(ctx context.Context, number int, decision trust.Decision, managed trust.Set, current []Review) (*Result, error) {
	log := clog.FromContext(ctx)
	plan := PlanFor(decision, managed, current)

	if plan.Approve {
		log.Debugf("Creating approving review for pull request #%d", number)
		if err := r.svc.CreateApprovingReview(ctx, number, r.approvalBody); err != nil {
			return &Result{}, fmt.Errorf("creating approving review: %w", err)
		}
		log.Infof("Approved pull request #%d", number)
		return &Result{Approved: true}, nil
	}

	if len(plan.Dismiss) == 0 {
		log.Info("No managed approvals to dismiss")
		return &Result{}, nil
	}

	errs := make([]error, len(plan.Dismiss))
	dismiss := func(i int) {
		rev := plan.Dismiss[i]
		if err := r.svc.DismissReview(ctx, number, rev.ID, r.dismissMessage); err != nil {
			errs[i] = fmt.Errorf("dismissing review %d by %s: %w", rev.ID, rev.Author, err)
			return
		}
		log.With("review", rev.ID, "author", rev.Author.String()).Info("Dismissed managed approval")
	}

	if r.concurrency > 1 {
		var g errgroup.Group
		g.SetLimit(r.concurrency)
		for i := range plan.Dismiss {
			g.Go(func() error {
				dismiss(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range plan.Dismiss {
			dismiss(i)
		}
	}

	res := &Result{}
	for i, rev := range plan.Dismiss {
		if errs[i] != nil {
			res.Failed = append(res.Failed, rev.ID)
			continue
		}
		res.Dismissed = append(res.Dismissed, rev.ID)
	}
	return res, errors.Join(errs...)
}
