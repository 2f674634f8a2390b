/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyFile lists additional identities, typically checked in at
// .github/autoapprove.yaml. Its entries are added to the ones given as inputs.
type PolicyFile struct {
	TrustedCommitters []string `yaml:"trusted_committers"`
	ManagedReviewers  []string `yaml:"managed_reviewers"`
}

// LoadPolicyFile reads and decodes the policy file at path.
// Unknown keys are rejected. An empty file is an empty policy.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening policy file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var pf PolicyFile
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding policy file %s: %w", path, err)
	}
	return &pf, nil
}
