/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package event reads the GitHub Actions event that triggered the run.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/go-github/v84/github"
)

// SupportedEvents are the triggers a run accepts. Review events are
// excluded: the approving review would trigger another run.
var SupportedEvents = []string{"pull_request", "pull_request_target"}

var (
	// ErrNoPullRequest is returned when the payload has no pull_request.
	ErrNoPullRequest = errors.New("event payload missing `pull_request`")
	// ErrUnsupportedEvent is returned for a named trigger outside SupportedEvents.
	ErrUnsupportedEvent = errors.New("unsupported event")
)

// Context is the pull request context of the triggering event.
type Context struct {
	Name   string
	Action string
	Number int
	// Sender is the login that triggered the event.
	Sender string
}

// payload is the subset shared by every pull request flavored event.
type payload struct {
	Action      string              `json:"action"`
	PullRequest *github.PullRequest `json:"pull_request"`
	Sender      *github.User        `json:"sender"`
}

// Load reads the event payload at path. name is the GITHUB_EVENT_NAME.
func Load(path, name string) (*Context, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	return Parse(b, name)
}

// Parse decodes an event payload. An empty name skips the trigger check.
func Parse(b []byte, name string) (*Context, error) {
	if name != "" && !slices.Contains(SupportedEvents, name) {
		return nil, fmt.Errorf("%w: this action must be triggered by one of %s (got %q)",
			ErrUnsupportedEvent, strings.Join(SupportedEvents, ", "), name)
	}

	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decoding event payload: %w", err)
	}
	if p.PullRequest == nil || p.PullRequest.GetNumber() == 0 {
		return nil, fmt.Errorf("%w: this action must be triggered by one of %s (got %q)",
			ErrNoPullRequest, strings.Join(SupportedEvents, ", "), name)
	}
	return &Context{
		Name:   name,
		Action: p.Action,
		Number: p.PullRequest.GetNumber(),
		Sender: p.Sender.GetLogin(),
	}, nil
}
