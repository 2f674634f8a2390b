/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package approver runs the auto-approval policy for a single pull request.
//
// A run fetches the pull request and its commits, evaluates commit
// authorship, reconciles reviews with the resulting decision and, when the
// pull request was approved and auto-merge is enabled, activates auto-merge.
// Nothing is carried between runs.
package approver

import (
	"context"
	"fmt"

	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/githubclient"
	"chainguard.dev/autoapprove/metrics"
	"chainguard.dev/autoapprove/reviews"
	"chainguard.dev/autoapprove/trust"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "chainguard.dev/autoapprove/approver"

// Service is the remote review service a run reads from and mutates.
type Service interface {
	GetPullRequest(ctx context.Context, number int) (*githubclient.PullRequest, error)
	ListCommits(ctx context.Context, number int) ([]trust.Commit, error)
	ListReviews(ctx context.Context, number int) ([]reviews.Review, error)

	reviews.Service
	automerge.Service
}

var _ Service = (*githubclient.Client)(nil)

// Outcome describes what a run observed and did.
type Outcome struct {
	PullRequest *githubclient.PullRequest
	Commits     []trust.Commit
	Verdict     trust.Verdict
	Reviews     *reviews.Result
	// AutoMerge is nil when auto-merge was not attempted.
	AutoMerge *automerge.Outcome
}

// Approver evaluates and reconciles pull requests.
type Approver struct {
	svc        Service
	trusted    trust.Set
	managed    trust.Set
	reconciler *reviews.Reconciler
	activator  *automerge.Activator
	metrics    *metrics.Recorder
	tracer     trace.Tracer

	reviewOpts []reviews.Option
}

// Option configures the Approver.
type Option func(*Approver)

// WithAutoMerge enables auto-merge on approved pull requests.
func WithAutoMerge(opts ...automerge.Option) Option {
	return func(a *Approver) {
		a.activator = automerge.New(a.svc, opts...)
	}
}

// WithReviewOptions configures the review reconciler.
func WithReviewOptions(opts ...reviews.Option) Option {
	return func(a *Approver) {
		a.reviewOpts = append(a.reviewOpts, opts...)
	}
}

// WithMetrics records run outcomes on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(a *Approver) {
		a.metrics = m
	}
}

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Approver) {
		a.tracer = tp.Tracer(tracerName)
	}
}

// New constructs an Approver.
func New(svc Service, trusted, managed trust.Set, opts ...Option) *Approver {
	a := &Approver{
		svc:     svc,
		trusted: trusted,
		managed: managed,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.reconciler = reviews.NewReconciler(svc, a.reviewOpts...)
	return a
}

// Run applies the policy to pull request number.
//
// Errors reading state or reconciling reviews are returned; the Outcome is
// populated as far as the run got. Auto-merge failures are never returned.
func (a *Approver) Run(ctx context.Context, number int) (_ *Outcome, err error) {
	ctx, span := a.tracer.Start(ctx, "autoapprove.Run", trace.WithAttributes(attribute.Int("pull_request", number)))
	defer func() { endSpan(span, err) }()

	log := clog.FromContext(ctx)
	out := &Outcome{}

	pr, err := a.svc.GetPullRequest(ctx, number)
	if err != nil {
		return out, err
	}
	out.PullRequest = pr
	log.Infof("PR #%d opened from %s", number, pr.Creator)

	if out.Verdict, out.Commits, err = a.evaluate(ctx, number); err != nil {
		return out, err
	}
	if a.metrics != nil {
		a.metrics.ObserveDecision(out.Verdict.Decision)
	}

	if out.Reviews, err = a.reconcile(ctx, number, out.Verdict.Decision); err != nil {
		return out, err
	}

	if out.Verdict.Decision == trust.Approved && a.activator != nil {
		amCtx, amSpan := a.tracer.Start(ctx, "autoapprove.AutoMerge")
		o := a.activator.Activate(amCtx, number)
		amSpan.SetAttributes(attribute.Bool("enabled", o.Enabled))
		if o.Err != nil {
			amSpan.SetAttributes(attribute.String("failure", o.Failure.String()))
			amSpan.RecordError(o.Err)
		}
		amSpan.End()

		out.AutoMerge = &o
		if a.metrics != nil {
			a.metrics.ObserveAutoMerge(o)
		}
	}
	return out, nil
}

func (a *Approver) evaluate(ctx context.Context, number int) (_ trust.Verdict, _ []trust.Commit, err error) {
	ctx, span := a.tracer.Start(ctx, "autoapprove.Evaluate")
	defer func() { endSpan(span, err) }()

	commits, err := a.svc.ListCommits(ctx, number)
	if err != nil {
		return trust.Verdict{Index: -1}, nil, err
	}

	v := trust.Evaluate(a.trusted, commits)
	span.SetAttributes(
		attribute.Int("commits", len(commits)),
		attribute.String("decision", v.Decision.String()),
	)
	if v.Decision == trust.Withheld {
		clog.FromContext(ctx).With("commit", v.Offending.SHA, "author", v.Offending.Author.String()).Info(v.Reason())
	}
	return v, commits, nil
}

func (a *Approver) reconcile(ctx context.Context, number int, decision trust.Decision) (_ *reviews.Result, err error) {
	ctx, span := a.tracer.Start(ctx, "autoapprove.Reconcile")
	defer func() { endSpan(span, err) }()

	var current []reviews.Review
	if decision == trust.Withheld {
		if current, err = a.svc.ListReviews(ctx, number); err != nil {
			return nil, err
		}
	}

	res, err := a.reconciler.Reconcile(ctx, number, decision, a.managed, current)
	if a.metrics != nil {
		a.metrics.ObserveReconcile(res)
	}
	if res != nil {
		span.SetAttributes(
			attribute.Bool("approved", res.Approved),
			attribute.Int("dismissed", len(res.Dismissed)),
		)
	}
	if err != nil {
		return res, fmt.Errorf("reconciling reviews: %w", err)
	}
	return res, nil
}

// endSpan marks span as failed when err is set and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
