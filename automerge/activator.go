/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package automerge enables GitHub auto-merge on an approved pull request.
//
// Enabling auto-merge is best effort: the Activator never fails the run. When
// GitHub refuses the request, for example because the pull request is already
// directly mergeable, the failure is classified, logged as a warning, and
// reported in the Outcome.
package automerge

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Method is the merge method used once auto-merge fires.
// The empty Method leaves the choice to GitHub.
type Method string

const (
	MethodMerge  Method = "MERGE"
	MethodSquash Method = "SQUASH"
	MethodRebase Method = "REBASE"
)

// ParseMethod parses a case-insensitive merge method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case "", MethodMerge, MethodSquash, MethodRebase:
		return m, nil
	default:
		return "", fmt.Errorf("unknown merge method %q (want merge, squash or rebase)", s)
	}
}

// Service resolves pull request node IDs and enables auto-merge.
type Service interface {
	PullRequestNodeID(ctx context.Context, number int) (string, error)
	EnableAutoMerge(ctx context.Context, nodeID string, method Method) error
}

// Outcome reports what Activate did.
type Outcome struct {
	Enabled bool
	Failure FailureKind
	Err     error
}

// Activator enables auto-merge through a Service.
type Activator struct {
	svc    Service
	method Method
}

// Option configures the Activator.
type Option func(*Activator)

// WithMethod sets the merge method requested when enabling auto-merge.
func WithMethod(m Method) Option {
	return func(a *Activator) {
		a.method = m
	}
}

// New constructs an Activator.
func New(svc Service, opts ...Option) *Activator {
	a := &Activator{svc: svc}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Activate resolves the pull request's node ID and enables auto-merge on it.
// Failures are logged and returned in the Outcome, never as an error.
func (a *Activator) Activate(ctx context.Context, number int) Outcome {
	log := clog.FromContext(ctx).With("pull_request", number)

	id, err := a.svc.PullRequestNodeID(ctx, number)
	if err != nil {
		log.Warnf("Unable to resolve pull request #%d for auto-merge: %v", number, err)
		return Outcome{Failure: FailureUnknown, Err: fmt.Errorf("resolving node id: %w", err)}
	}

	if err := a.svc.EnableAutoMerge(ctx, id, a.method); err != nil {
		kind := Classify(err)
		log.With("failure", kind.String()).Warnf("Unable to enable auto-merge on pull request #%d: %v. %s", number, err, kind.Hint())
		return Outcome{Failure: kind, Err: fmt.Errorf("enabling auto-merge: %w", err)}
	}

	log.Infof("Enabled auto-merge on pull request #%d", number)
	return Outcome{Enabled: true}
}
