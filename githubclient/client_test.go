/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/reviews"
	"chainguard.dev/autoapprove/trust"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.Client(), "octo", "widgets", WithEndpoints(srv.URL, srv.URL+"/graphql"))
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func TestGetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widgets/pulls/7", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"number":  7,
			"node_id": "PR_kwDOA7",
			"state":   "open",
			"draft":   false,
			"user":    map[string]any{"login": "dependabot[bot]"},
			"head":    map[string]any{"sha": "abc123"},
		})
	})
	c := newTestClient(t, mux)

	pr, err := c.GetPullRequest(context.Background(), 7)
	require.NoError(t, err)
	want := &PullRequest{
		Number:  7,
		Creator: trust.Login("dependabot[bot]"),
		NodeID:  "PR_kwDOA7",
		State:   "open",
		HeadSHA: "abc123",
	}
	if diff := cmp.Diff(want, pr, cmp.AllowUnexported(trust.Identity{})); diff != "" {
		t.Errorf("GetPullRequest() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPullRequestError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widgets/pulls/7", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	c := newTestClient(t, mux)

	_, err := c.GetPullRequest(context.Background(), 7)
	require.ErrorContains(t, err, "fetching pull request #7")
}

func TestListCommitsPaginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widgets/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/widgets/pulls/7/commits?page=2&per_page=100>; rel="next"`, srvURL))
			writeJSON(t, w, []map[string]any{
				{"sha": "a1", "author": map[string]any{"login": "bot-a"}},
				{"sha": "a2", "author": nil},
			})
		case "2":
			writeJSON(t, w, []map[string]any{
				{"sha": "a3", "author": map[string]any{"login": "human-1"}},
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	c, err := New(srv.Client(), "octo", "widgets", WithEndpoints(srv.URL, srv.URL+"/graphql"))
	require.NoError(t, err)

	commits, err := c.ListCommits(context.Background(), 7)
	require.NoError(t, err)
	want := []trust.Commit{
		{SHA: "a1", Author: trust.Login("bot-a")},
		{SHA: "a2", Author: trust.Unknown},
		{SHA: "a3", Author: trust.Login("human-1")},
	}
	if diff := cmp.Diff(want, commits, cmp.AllowUnexported(trust.Identity{})); diff != "" {
		t.Errorf("ListCommits() mismatch (-want +got):\n%s", diff)
	}
}

func TestListReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widgets/pulls/7/reviews", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 10, "state": "APPROVED", "user": map[string]any{"login": "github-actions[bot]"}},
			{"id": 11, "state": "CHANGES_REQUESTED", "user": map[string]any{"login": "human-2"}},
			{"id": 12, "state": "APPROVED", "user": nil},
		})
	})
	c := newTestClient(t, mux)

	got, err := c.ListReviews(context.Background(), 7)
	require.NoError(t, err)
	want := []reviews.Review{
		{ID: 10, Author: trust.Login("github-actions[bot]"), State: reviews.StateApproved},
		{ID: 11, Author: trust.Login("human-2"), State: reviews.StateChangesRequested},
		{ID: 12, Author: trust.Unknown, State: reviews.StateApproved},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(trust.Identity{})); diff != "" {
		t.Errorf("ListReviews() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateApprovingReview(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/widgets/pulls/7/reviews", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, map[string]any{"id": 99, "state": "APPROVED"})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.CreateApprovingReview(context.Background(), 7, "trusted"))
	require.Equal(t, "APPROVE", body["event"])
	require.Equal(t, "trusted", body["body"])
}

func TestCreateApprovingReviewOmitsEmptyBody(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/widgets/pulls/7/reviews", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, map[string]any{"id": 99})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.CreateApprovingReview(context.Background(), 7, ""))
	_, hasBody := body["body"]
	require.False(t, hasBody)
}

func TestDismissReview(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/octo/widgets/pulls/7/reviews/10/dismissals", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, map[string]any{"id": 10, "state": "DISMISSED"})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.DismissReview(context.Background(), 7, 10, reviews.DefaultDismissMessage))
	require.Equal(t, reviews.DefaultDismissMessage, body["message"])
}

func TestPullRequestNodeID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "pullRequest(number: $number)")
		require.Equal(t, "octo", req.Variables["owner"])
		require.Equal(t, "widgets", req.Variables["repo"])
		require.EqualValues(t, 7, req.Variables["number"])
		writeJSON(t, w, map[string]any{
			"data": map[string]any{
				"repository": map[string]any{
					"pullRequest": map[string]any{"id": "PR_kwDOA7"},
				},
			},
		})
	})
	c := newTestClient(t, mux)

	id, err := c.PullRequestNodeID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "PR_kwDOA7", id)
}

func TestEnableAutoMerge(t *testing.T) {
	var input map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "enablePullRequestAutoMerge(input: $input)")
		input, _ = req.Variables["input"].(map[string]any)
		writeJSON(t, w, map[string]any{
			"data": map[string]any{
				"enablePullRequestAutoMerge": map[string]any{
					"pullRequest": map[string]any{"number": 7},
				},
			},
		})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.EnableAutoMerge(context.Background(), "PR_kwDOA7", automerge.MethodSquash))
	require.Equal(t, "PR_kwDOA7", input["pullRequestId"])
	require.Equal(t, "SQUASH", input["mergeMethod"])
}

func TestEnableAutoMergeRefused(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(t, w, map[string]any{
			"data": map[string]any{"enablePullRequestAutoMerge": nil},
			"errors": []map[string]any{{
				"type":    "UNPROCESSABLE",
				"message": "Pull request Pull request is in clean status",
			}},
		})
	})
	c := newTestClient(t, mux)

	err := c.EnableAutoMerge(context.Background(), "PR_kwDOA7", "")
	require.Error(t, err)
	require.Equal(t, automerge.FailureAlreadyMergeable, automerge.Classify(err))
}

func TestParseRepository(t *testing.T) {
	owner, repo, err := ParseRepository("octo/widgets")
	require.NoError(t, err)
	require.Equal(t, "octo", owner)
	require.Equal(t, "widgets", repo)

	for _, bad := range []string{"", "octo", "/widgets", "octo/", "a/b/c"} {
		_, _, err := ParseRepository(bad)
		require.Error(t, err, bad)
	}
}

func TestNewRequiresRepository(t *testing.T) {
	_, err := New(http.DefaultClient, "", "widgets")
	require.Error(t, err)
}

func TestAppHTTPClientValidates(t *testing.T) {
	_, err := AppHTTPClient(0, 1, []byte("key"), "")
	require.Error(t, err)
	_, err = AppHTTPClient(1, 1, []byte("not a pem key"), "")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "installation transport"))
}
