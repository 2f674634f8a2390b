/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records the outcome of a run as Prometheus metrics.
//
// A run is a short-lived batch job, so metrics live in a private registry
// and are pushed to a Pushgateway at the end of the run when one is
// configured.
package metrics

import (
	"context"
	"fmt"
	"time"

	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/reviews"
	"chainguard.dev/autoapprove/trust"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder holds the metrics of one run.
type Recorder struct {
	reg *prometheus.Registry

	decisions         *prometheus.CounterVec
	approvals         prometheus.Counter
	dismissals        prometheus.Counter
	dismissalFailures prometheus.Counter
	autoMerge         *prometheus.CounterVec
	lastRun           prometheus.Gauge
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoapprove_decisions_total",
				Help: "Trust decisions by outcome",
			},
			[]string{"decision"},
		),
		approvals: f.NewCounter(prometheus.CounterOpts{
			Name: "autoapprove_approvals_total",
			Help: "Approving reviews submitted",
		}),
		dismissals: f.NewCounter(prometheus.CounterOpts{
			Name: "autoapprove_dismissals_total",
			Help: "Managed approvals dismissed",
		}),
		dismissalFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "autoapprove_dismissal_failures_total",
			Help: "Managed approvals that could not be dismissed",
		}),
		autoMerge: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoapprove_auto_merge_total",
				Help: "Auto-merge activations by result",
			},
			[]string{"result"},
		),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "autoapprove_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// ObserveDecision records a trust decision.
func (r *Recorder) ObserveDecision(d trust.Decision) {
	r.decisions.WithLabelValues(d.String()).Inc()
}

// ObserveReconcile records the mutations of a reconciliation.
func (r *Recorder) ObserveReconcile(res *reviews.Result) {
	if res == nil {
		return
	}
	if res.Approved {
		r.approvals.Inc()
	}
	r.dismissals.Add(float64(len(res.Dismissed)))
	r.dismissalFailures.Add(float64(len(res.Failed)))
}

// ObserveAutoMerge records an auto-merge activation.
func (r *Recorder) ObserveAutoMerge(o automerge.Outcome) {
	result := "enabled"
	if !o.Enabled {
		result = o.Failure.String()
	}
	r.autoMerge.WithLabelValues(result).Inc()
}

// Push sends the run's metrics to the Pushgateway at url, grouped by the
// given labels.
func (r *Recorder) Push(ctx context.Context, url, job string, grouping map[string]string) error {
	r.lastRun.Set(float64(time.Now().Unix()))

	p := push.New(url, job).Gatherer(r.reg)
	for k, v := range grouping {
		if v != "" {
			p = p.Grouping(k, v)
		}
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
