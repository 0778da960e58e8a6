// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package receipt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dormnet/dormnet/lib/platform"
)

// FileName is the receipt's name inside the application directory.
const FileName = ".dormnet-receipt.yaml"

// ArtifactKind classifies a recorded file.
type ArtifactKind string

const (
	KindCredentials ArtifactKind = "credentials"
	KindDescriptor  ArtifactKind = "descriptor"
)

// Artifact is one file created by the install.
type Artifact struct {
	Path   string       `yaml:"path"`
	Kind   ArtifactKind `yaml:"kind"`
	Digest string       `yaml:"blake3"`
}

// Receipt describes a completed install.
type Receipt struct {
	Service     string        `yaml:"service"`
	Platform    platform.Kind `yaml:"platform"`
	InstalledAt time.Time     `yaml:"installed_at"`
	Version     string        `yaml:"version"`
	Artifacts   []Artifact    `yaml:"artifacts"`
}

// Record hashes path and appends it to the receipt.
func (r *Receipt) Record(path string, kind ArtifactKind) error {
	digest, err := HashFile(path)
	if err != nil {
		return err
	}
	r.Artifacts = append(r.Artifacts, Artifact{Path: path, Kind: kind, Digest: digest.String()})
	return nil
}

// Paths returns the recorded paths of the given kind.
func (r *Receipt) Paths(kind ArtifactKind) []string {
	var paths []string
	for _, artifact := range r.Artifacts {
		if artifact.Kind == kind {
			paths = append(paths, artifact.Path)
		}
	}
	return paths
}

// Write stores the receipt at path with owner-only permissions; it
// lists the credential file's location.
func Write(path string, receipt *Receipt) error {
	data, err := yaml.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}
	return nil
}

// Read loads the receipt at path. The returned error wraps
// fs.ErrNotExist when there is none.
func Read(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading receipt: %w", err)
	}
	var receipt Receipt
	if err := yaml.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("parsing receipt %s: %w", path, err)
	}
	return &receipt, nil
}

// State is the result of checking one artifact against its digest.
type State string

const (
	StateIntact   State = "intact"
	StateModified State = "modified"
	StateMissing  State = "missing"
	StateError    State = "error"
)

// Check is the verification result for one artifact.
type Check struct {
	Artifact Artifact
	State    State
	Err      error
}

// Verify rehashes every recorded artifact.
func (r *Receipt) Verify() []Check {
	checks := make([]Check, 0, len(r.Artifacts))
	for _, artifact := range r.Artifacts {
		checks = append(checks, verifyArtifact(artifact))
	}
	return checks
}

func verifyArtifact(artifact Artifact) Check {
	want, err := ParseDigest(artifact.Digest)
	if err != nil {
		return Check{Artifact: artifact, State: StateError, Err: err}
	}
	got, err := HashFile(artifact.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Check{Artifact: artifact, State: StateMissing}
	case err != nil:
		return Check{Artifact: artifact, State: StateError, Err: err}
	case got != want:
		return Check{Artifact: artifact, State: StateModified}
	default:
		return Check{Artifact: artifact, State: StateIntact}
	}
}
