/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviews

import (
	"context"

	"chainguard.dev/autoapprove/trust"
)

// State is the state of a pull request review as reported by GitHub.
type State string

const (
	StateApproved         State = "APPROVED"
	StatePending          State = "PENDING"
	StateChangesRequested State = "CHANGES_REQUESTED"
	StateCommented        State = "COMMENTED"
	StateDismissed        State = "DISMISSED"
)

// DefaultDismissMessage is the rationale attached to dismissed approvals.
const DefaultDismissMessage = "A commit was added after an auto approval"

// Review is an existing review on a pull request.
type Review struct {
	ID     int64
	Author trust.Identity
	State  State
}

// Service is the subset of the review service the Reconciler mutates.
type Service interface {
	CreateApprovingReview(ctx context.Context, number int, body string) error
	DismissReview(ctx context.Context, number int, reviewID int64, message string) error
}
