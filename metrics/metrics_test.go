/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/reviews"
	"chainguard.dev/autoapprove/trust"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.ObserveDecision(trust.Approved)
	r.ObserveDecision(trust.Withheld)
	r.ObserveDecision(trust.Withheld)
	r.ObserveReconcile(&reviews.Result{Approved: true})
	r.ObserveReconcile(&reviews.Result{Dismissed: []int64{1, 2}, Failed: []int64{3}})
	r.ObserveReconcile(nil)
	r.ObserveAutoMerge(automerge.Outcome{Enabled: true})
	r.ObserveAutoMerge(automerge.Outcome{Failure: automerge.FailureAlreadyMergeable, Err: errors.New("clean status")})

	require.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("approved")))
	require.Equal(t, 2.0, testutil.ToFloat64(r.decisions.WithLabelValues("withheld")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.approvals))
	require.Equal(t, 2.0, testutil.ToFloat64(r.dismissals))
	require.Equal(t, 1.0, testutil.ToFloat64(r.dismissalFailures))
	require.Equal(t, 1.0, testutil.ToFloat64(r.autoMerge.WithLabelValues("enabled")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.autoMerge.WithLabelValues("already_mergeable")))
}

func TestPush(t *testing.T) {
	var (
		method string
		path   string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		path = req.URL.Path
		body, _ = io.ReadAll(req.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	r := New()
	r.ObserveDecision(trust.Approved)

	err := r.Push(context.Background(), srv.URL, "autoapprove", map[string]string{
		"repository": "widgets",
		"run_id":     "",
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, method)
	require.Equal(t, "/metrics/job/autoapprove/repository/widgets", path)
	require.NotEmpty(t, body)
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	err := New().Push(context.Background(), srv.URL, "autoapprove", nil)
	require.ErrorContains(t, err, "pushing metrics")
}

func TestRegistryFamilies(t *testing.T) {
	r := New()
	r.ObserveDecision(trust.Withheld)
	r.ObserveAutoMerge(automerge.Outcome{Enabled: true})

	mfs, err := r.Registry().Gather()
	require.NoError(t, err)

	types := map[string]dto.MetricType{}
	for _, mf := range mfs {
		types[mf.GetName()] = mf.GetType()
	}
	require.Equal(t, dto.MetricType_COUNTER, types["autoapprove_decisions_total"])
	require.Equal(t, dto.MetricType_COUNTER, types["autoapprove_auto_merge_total"])
	require.Equal(t, dto.MetricType_GAUGE, types["autoapprove_last_run_timestamp_seconds"])
}
