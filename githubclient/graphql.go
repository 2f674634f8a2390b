/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubclient

import (
	"context"
	"fmt"

	"chainguard.dev/autoapprove/automerge"
	"github.com/shurcooL/githubv4"
)

// PullRequestNodeID resolves the GraphQL node ID of pull request number.
func (c *Client) PullRequestNodeID(ctx context.Context, number int) (string, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				ID githubv4.ID
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(c.owner),
		"repo":   githubv4.String(c.repo),
		"number": githubv4.Int(number),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("graphql query: %w", err)
	}

	id, ok := query.Repository.PullRequest.ID.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("pull request #%d has no node id", number)
	}
	return id, nil
}

// EnableAutoMerge enables auto-merge on the pull request with the given node
// ID. An empty method lets GitHub pick the repository default.
func (c *Client) EnableAutoMerge(ctx context.Context, nodeID string, method automerge.Method) error {
	var mutation struct {
		EnablePullRequestAutoMerge struct {
			PullRequest struct {
				Number int
			}
		} `graphql:"enablePullRequestAutoMerge(input: $input)"`
	}

	input := githubv4.EnablePullRequestAutoMergeInput{
		PullRequestID: githubv4.ID(nodeID),
	}
	if method != "" {
		m := githubv4.PullRequestMergeMethod(method)
		input.MergeMethod = &m
	}

	if err := c.gql.Mutate(ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("graphql mutation: %w", err)
	}
	return nil
}
