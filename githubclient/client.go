/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubclient implements the pull request and review operations
// autoapprove needs on top of the GitHub REST and GraphQL APIs.
//
// Reads and review mutations use go-github; resolving node IDs and enabling
// auto-merge use githubv4, sharing the REST client's authenticated transport.
package githubclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client talks to a single repository.
type Client struct {
	gh    *github.Client
	gql   *githubv4.Client
	owner string
	repo  string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	apiURL     string
	graphqlURL string
}

// WithEndpoints points the client at a GitHub Enterprise Server (or a test
// server). Empty values keep the github.com defaults.
func WithEndpoints(apiURL, graphqlURL string) Option {
	return func(o *options) {
		o.apiURL = apiURL
		o.graphqlURL = graphqlURL
	}
}

// New returns a Client for owner/repo that sends requests through hc.
// hc is expected to carry authentication, see TokenHTTPClient and AppHTTPClient.
func New(hc *http.Client, owner, repo string, opts ...Option) (*Client, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required, got %q/%q", owner, repo)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	gh := github.NewClient(hc)
	if o.apiURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API URL %q: %w", o.apiURL, err)
		}
		gh.BaseURL = u
	}

	gql := githubv4.NewClient(gh.Client())
	if o.graphqlURL != "" {
		gql = githubv4.NewEnterpriseClient(o.graphqlURL, gh.Client())
	}

	return &Client{
		gh:    gh,
		gql:   gql,
		owner: owner,
		repo:  repo,
	}, nil
}

// Owner returns the repository owner.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Client) Repo() string { return c.repo }

// ParseRepository splits an "owner/repo" string such as GITHUB_REPOSITORY.
func ParseRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", s)
	}
	return owner, repo, nil
}

// TokenHTTPClient returns an HTTP client authenticating with a static token.
func TokenHTTPClient(ctx context.Context, token string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// AppHTTPClient returns an HTTP client authenticating as a GitHub App
// installation. apiURL overrides the endpoint used to mint installation
// tokens on GitHub Enterprise Server.
func AppHTTPClient(appID, installationID int64, privateKey []byte, apiURL string) (*http.Client, error) {
	if appID == 0 || installationID == 0 || len(privateKey) == 0 {
		return nil, errors.New("app id, installation id and private key are all required")
	}
	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	if apiURL != "" {
		tr.BaseURL = strings.TrimSuffix(apiURL, "/")
	}
	return &http.Client{Transport: tr}, nil
}
