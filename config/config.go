/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads autoapprove's settings from the action inputs and the
// runner environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/autoapprove/automerge"
	"chainguard.dev/autoapprove/githubclient"
	"chainguard.dev/autoapprove/trust"
	"github.com/sethvargo/go-envconfig"
)

const (
	// DefaultTrustedCommitters is used when no trusted committers are configured.
	DefaultTrustedCommitters = "dependabot[bot],dependabot-preview[bot]"
	// DefaultManagedReviewers is the identity GITHUB_TOKEN approvals are attributed to.
	DefaultManagedReviewers = "github-actions[bot]"
)

// ErrMissingCredentials is returned when neither a token nor GitHub App
// credentials are configured.
var ErrMissingCredentials = errors.New("missing credentials: set the github_token input or app_id, installation_id and private_key")

// Flag is a boolean action input. Actions pass unset inputs as empty strings,
// which decode as false.
type Flag bool

// EnvDecode implements envconfig.Decoder.
func (f *Flag) EnvDecode(val string) error {
	val = strings.TrimSpace(val)
	if val == "" {
		*f = false
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", val, err)
	}
	*f = Flag(b)
	return nil
}

// Number is an integer action input; the empty string decodes as zero.
type Number int64

// EnvDecode implements envconfig.Decoder.
func (n *Number) EnvDecode(val string) error {
	val = strings.TrimSpace(val)
	if val == "" {
		*n = 0
		return nil
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", val, err)
	}
	*n = Number(i)
	return nil
}

type inputs struct {
	// Credentials: either a token or GitHub App installation credentials.
	Token          string `env:"INPUT_GITHUB_TOKEN"`
	AppID          Number `env:"INPUT_APP_ID"`
	InstallationID Number `env:"INPUT_INSTALLATION_ID"`
	PrivateKey     string `env:"INPUT_PRIVATE_KEY"`

	TrustedCommitters  string `env:"INPUT_TRUSTED_COMMITTERS"`
	ManagedReviewers   string `env:"INPUT_MANAGED_REVIEWERS"`
	PolicyFile         string `env:"INPUT_POLICY_FILE"`
	AutoMerge          Flag   `env:"INPUT_AUTO_MERGE"`
	MergeMethod        string `env:"INPUT_MERGE_METHOD"`
	ReviewMessage      string `env:"INPUT_REVIEW_MESSAGE"`
	DismissMessage     string `env:"INPUT_DISMISS_MESSAGE"`
	DismissConcurrency Number `env:"INPUT_DISMISS_CONCURRENCY"`
	PushgatewayURL     string `env:"INPUT_PUSHGATEWAY_URL"`
	OTLPEndpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Runner environment.
	Repository string `env:"GITHUB_REPOSITORY,required"`
	EventName  string `env:"GITHUB_EVENT_NAME"`
	EventPath  string `env:"GITHUB_EVENT_PATH,required"`
	APIURL     string `env:"GITHUB_API_URL,default=https://api.github.com"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL,default=https://api.github.com/graphql"`
	RunID      string `env:"GITHUB_RUN_ID"`
	Debug      Flag   `env:"RUNNER_DEBUG"`
}

// Credentials selects how autoapprove authenticates to GitHub.
type Credentials struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
}

// IsApp reports whether GitHub App credentials are configured.
func (c Credentials) IsApp() bool {
	return c.Token == "" && c.AppID != 0
}

// Config is the resolved configuration of a run.
type Config struct {
	Credentials Credentials

	Trusted            trust.Set
	Managed            trust.Set
	AutoMerge          bool
	MergeMethod        automerge.Method
	ReviewMessage      string
	DismissMessage     string
	DismissConcurrency int
	PushgatewayURL     string
	OTLPEndpoint       string

	Owner      string
	Repo       string
	EventName  string
	EventPath  string
	APIURL     string
	GraphQLURL string
	RunID      string
	Debug      bool
}

// Load reads the configuration through l, typically envconfig.OsLookuper().
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var in inputs
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &in,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	creds := Credentials{
		Token:          strings.TrimSpace(in.Token),
		AppID:          int64(in.AppID),
		InstallationID: int64(in.InstallationID),
		PrivateKey:     []byte(in.PrivateKey),
	}
	if creds.Token == "" && (creds.AppID == 0 || creds.InstallationID == 0 || len(creds.PrivateKey) == 0) {
		return nil, ErrMissingCredentials
	}

	owner, repo, err := githubclient.ParseRepository(in.Repository)
	if err != nil {
		return nil, err
	}

	method, err := automerge.ParseMethod(in.MergeMethod)
	if err != nil {
		return nil, err
	}

	trusted := trust.ParseSet(in.TrustedCommitters)
	managed := trust.ParseSet(in.ManagedReviewers)
	if in.PolicyFile != "" {
		pf, err := LoadPolicyFile(in.PolicyFile)
		if err != nil {
			return nil, err
		}
		trusted = trusted.Union(trust.NewSet(pf.TrustedCommitters...))
		managed = managed.Union(trust.NewSet(pf.ManagedReviewers...))
	}
	if len(trusted) == 0 {
		trusted = trust.ParseSet(DefaultTrustedCommitters)
	}
	if len(managed) == 0 {
		managed = trust.ParseSet(DefaultManagedReviewers)
	}

	return &Config{
		Credentials:        creds,
		Trusted:            trusted,
		Managed:            managed,
		AutoMerge:          bool(in.AutoMerge),
		MergeMethod:        method,
		ReviewMessage:      in.ReviewMessage,
		DismissMessage:     in.DismissMessage,
		DismissConcurrency: int(in.DismissConcurrency),
		PushgatewayURL:     in.PushgatewayURL,
		OTLPEndpoint:       in.OTLPEndpoint,
		Owner:              owner,
		Repo:               repo,
		EventName:          in.EventName,
		EventPath:          in.EventPath,
		APIURL:             in.APIURL,
		GraphQLURL:         in.GraphQLURL,
		RunID:              in.RunID,
		Debug:              bool(in.Debug),
	}, nil
}
