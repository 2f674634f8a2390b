/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command autoapprove approves pull requests whose commits were all authored
// by trusted committers, and dismisses its own approvals otherwise. It runs
// as a GitHub Actions step and is configured through the step environment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/autoapprove/approver"
	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/config"
	"chainguard.dev/autoapprove/event"
	"chainguard.dev/autoapprove/githubclient"
	"chainguard.dev/autoapprove/metrics"
	"chainguard.dev/autoapprove/report"
	"chainguard.dev/autoapprove/reviews"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-githubactions"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gha := githubactions.New()
	if err := run(ctx, gha); err != nil {
		cancel()
		clog.ErrorContextf(ctx, "autoapprove failed: %v", err)
		gha.Fatalf("%v", err)
	}
}

func run(ctx context.Context, gha *githubactions.Action) error {
	cfg, err := config.Load(ctx, envconfig.OsLookuper())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("repository", cfg.Owner+"/"+cfg.Repo))

	shutdown, err := setupTracing(ctx, cfg.OTLPEndpoint)
	if err != nil {
		clog.WarnContextf(ctx, "Tracing disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			clog.WarnContextf(ctx, "Unable to flush traces: %v", err)
		}
	}()

	ev, err := event.Load(cfg.EventPath, cfg.EventName)
	if err != nil {
		return err
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("pull_request", ev.Number, "event", ev.Name))
	clog.DebugContextf(ctx, "Trusted committers: %s", cfg.Trusted)
	clog.DebugContextf(ctx, "Managed reviewers: %s", cfg.Managed)

	hc, err := httpClient(ctx, cfg)
	if err != nil {
		return err
	}
	gh, err := githubclient.New(hc, cfg.Owner, cfg.Repo, githubclient.WithEndpoints(cfg.APIURL, cfg.GraphQLURL))
	if err != nil {
		return err
	}

	rec := metrics.New()
	opts := []approver.Option{
		approver.WithMetrics(rec),
		approver.WithReviewOptions(
			reviews.WithApprovalBody(cfg.ReviewMessage),
			reviews.WithDismissMessage(cfg.DismissMessage),
			reviews.WithConcurrency(cfg.DismissConcurrency),
		),
	}
	if cfg.AutoMerge {
		opts = append(opts, approver.WithAutoMerge(automerge.WithMethod(cfg.MergeMethod)))
	}

	out, err := approver.New(gh, cfg.Trusted, cfg.Managed, opts...).Run(ctx, ev.Number)
	if out != nil && out.Reviews != nil {
		report.Publish(gha, ev.Number, out, cfg.Trusted)
	}
	pushMetrics(ctx, cfg, rec)
	return err
}

func httpClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if cfg.Credentials.IsApp() {
		clog.InfoContextf(ctx, "Authenticating as GitHub App %d (installation %d)", cfg.Credentials.AppID, cfg.Credentials.InstallationID)
		return githubclient.AppHTTPClient(cfg.Credentials.AppID, cfg.Credentials.InstallationID, cfg.Credentials.PrivateKey, cfg.APIURL)
	}
	return githubclient.TokenHTTPClient(ctx, cfg.Credentials.Token), nil
}

func pushMetrics(ctx context.Context, cfg *config.Config, rec *metrics.Recorder) {
	if cfg.PushgatewayURL == "" {
		return
	}
	if err := rec.Push(ctx, cfg.PushgatewayURL, "autoapprove", map[string]string{
		"repository": cfg.Owner + "/" + cfg.Repo,
		"run_id":     cfg.RunID,
	}); err != nil {
		clog.WarnContextf(ctx, "Unable to push metrics: %v", err)
		return
	}
	clog.DebugContextf(ctx, "Pushed metrics to %s", cfg.PushgatewayURL)
}
