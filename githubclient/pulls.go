/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubclient

import (
	"context"
	"fmt"

	"chainguard.dev/autoapprove/reviews"
	"chainguard.dev/autoapprove/trust"
	"github.com/google/go-github/v84/github"
)

const perPage = 100

// PullRequest is the pull request metadata autoapprove reads.
type PullRequest struct {
	Number  int
	Creator trust.Identity
	NodeID  string
	State   string
	HeadSHA string
	Draft   bool
}

// GetPullRequest fetches pull request number.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request #%d: %w", number, err)
	}
	return &PullRequest{
		Number:  pr.GetNumber(),
		Creator: trust.Login(pr.GetUser().GetLogin()),
		NodeID:  pr.GetNodeID(),
		State:   pr.GetState(),
		HeadSHA: pr.GetHead().GetSHA(),
		Draft:   pr.GetDraft(),
	}, nil
}

// ListCommits returns the commits on pull request number in order.
// Commits whose author is not linked to a GitHub account carry trust.Unknown.
func (c *Client) ListCommits(ctx context.Context, number int) ([]trust.Commit, error) {
	var out []trust.Commit
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := c.gh.PullRequests.ListCommits(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits of pull request #%d: %w", number, err)
		}
		for _, rc := range page {
			out = append(out, trust.Commit{
				SHA:    rc.GetSHA(),
				Author: trust.Login(rc.GetAuthor().GetLogin()),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListReviews returns every review on pull request number.
func (c *Client) ListReviews(ctx context.Context, number int) ([]reviews.Review, error) {
	var out []reviews.Review
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := c.gh.PullRequests.ListReviews(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews of pull request #%d: %w", number, err)
		}
		for _, r := range page {
			out = append(out, reviews.Review{
				ID:     r.GetID(),
				Author: trust.Login(r.GetUser().GetLogin()),
				State:  reviews.State(r.GetState()),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateApprovingReview submits an APPROVE review on pull request number.
func (c *Client) CreateApprovingReview(ctx context.Context, number int, body string) error {
	req := &github.PullRequestReviewRequest{
		Event: github.Ptr("APPROVE"),
	}
	if body != "" {
		req.Body = github.Ptr(body)
	}
	if _, _, err := c.gh.PullRequests.CreateReview(ctx, c.owner, c.repo, number, req); err != nil {
		return fmt.Errorf("approving pull request #%d: %w", number, err)
	}
	return nil
}

// DismissReview dismisses review reviewID on pull request number.
func (c *Client) DismissReview(ctx context.Context, number int, reviewID int64, message string) error {
	if _, _, err := c.gh.PullRequests.DismissReview(ctx, c.owner, c.repo, number, reviewID, &github.PullRequestReviewDismissalRequest{
		Message: github.Ptr(message),
	}); err != nil {
		return fmt.Errorf("dismissing review %d: %w", reviewID, err)
	}
	return nil
}
