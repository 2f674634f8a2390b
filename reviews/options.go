/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviews

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithApprovalBody sets the body of the approving review.
func WithApprovalBody(body string) Option {
	return func(r *Reconciler) {
		r.approvalBody = body
	}
}

// WithDismissMessage overrides DefaultDismissMessage. An empty message keeps
// the default since GitHub rejects dismissals without one.
func WithDismissMessage(msg string) Option {
	return func(r *Reconciler) {
		if msg != "" {
			r.dismissMessage = msg
		}
	}
}

// WithConcurrency bounds how many dismissals are issued at once.
// Values below 2 keep dismissals sequential.
func WithConcurrency(n int) Option {
	return func(r *Reconciler) {
		r.concurrency = n
	}
}
