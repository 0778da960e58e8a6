// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/platform"
)

// Registration carries the per-install inputs of a descriptor.
type Registration struct {
	// WorkingDir is the absolute, symlink-resolved application
	// directory.
	WorkingDir string

	// EnvFile is the absolute path of the credential file.
	EnvFile string

	// Credentials are the values just written to EnvFile. Registrars
	// that embed values into their descriptor and find this nil read
	// EnvFile instead.
	Credentials *credential.Set
}

// Registrar installs and removes the application as a managed service
// on one platform.
type Registrar interface {
	// Platform returns the platform this registrar serves.
	Platform() platform.Kind

	// Register renders the descriptor, writes it and hands it to the
	// service manager.
	Register(ctx context.Context, registration Registration) error

	// Deregister stops the live service and removes it from the
	// service manager. It does not delete descriptor files. It returns
	// ErrNotRegistered when there is evidently nothing to remove.
	Deregister(ctx context.Context) error

	// Artifacts lists the files Register creates.
	Artifacts() []string
}

// Reloader is implemented by registrars whose service manager caches
// descriptors and must be told after one is deleted.
type Reloader interface {
	Reload(ctx context.Context) error
}

// FollowUp is implemented by registrars that leave a manual step to
// the operator after a successful Register.
type FollowUp interface {
	FollowUp() string
}

// ErrNotRegistered is returned by Deregister when no descriptor exists.
var ErrNotRegistered = errors.New("service is not registered")

// Stage names the registration step that failed.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageRead    Stage = "read"
	StageRender  Stage = "render"
	StageWrite   Stage = "write"
	StageReload  Stage = "reload"
	StageEnable  Stage = "enable"
	StageStart   Stage = "start"
	StageRun     Stage = "run"
)

// RegistrationError reports a failed Register call.
type RegistrationError struct {
	Platform platform.Kind
	Stage    Stage

	// ManagerChanged is set when the service manager's own state was
	// already modified before the failure (for example a unit was
	// enabled but would not start). Removing the descriptor does not
	// undo that.
	ManagerChanged bool

	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s service registration failed at %s: %v", e.Platform, e.Stage, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// StartCommand is the command the service manager runs.
type StartCommand struct {
	// Binary is the executable name or path (e.g., "npm").
	Binary string

	// Args follow the binary (e.g., ["start"]).
	Args []string
}

// LookPathFunc resolves a binary name to an absolute path.
type LookPathFunc func(name string) (string, error)

// resolveBinary returns binary as an absolute path, searching PATH
// with lookPath when it is a bare name.
func resolveBinary(binary string, lookPath LookPathFunc) (string, error) {
	if filepath.IsAbs(binary) {
		return binary, nil
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	resolved, err := lookPath(binary)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", binary, err)
	}
	return filepath.Abs(resolved)
}

// writeCredentialDescriptor writes a descriptor that embeds credential
// values with the credential file's mode. The mode is set again after
// writing because os.WriteFile keeps the mode of an existing file.
func writeCredentialDescriptor(path, content string) error {
	if err := os.WriteFile(path, []byte(content), credential.FileMode); err != nil {
		return err
	}
	return os.Chmod(path, credential.FileMode)
}
