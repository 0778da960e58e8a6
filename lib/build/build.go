// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package build installs the application's dependencies and builds it
// by invoking its package manager (npm by default) as two sequential
// subprocesses. It reports pass or fail only; build output goes to the
// writers the caller supplies.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dormnet/dormnet/lib/process"
)

// Stage names the build step that failed.
type Stage string

const (
	StageInstall Stage = "install"
	StageBuild   Stage = "build"
)

// Error reports a failed build step. Err wraps either a
// *process.LaunchError (the tool is missing) or a
// *process.ExitStatusError (the tool ran and failed).
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dependency %s step failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Launch reports whether the tool could not be started at all.
func (e *Error) Launch() bool {
	return process.IsLaunchError(e.Err)
}

// ExitCode returns the tool's exit status, or -1 when it never ran.
func (e *Error) ExitCode() int {
	var coder interface{ ExitCode() int }
	if errors.As(e.Err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

// Tool describes the package manager invocation.
type Tool struct {
	// Binary is the package manager executable (e.g., "npm").
	Binary string

	// InstallArgs install dependencies (e.g., ["install"]).
	InstallArgs []string

	// BuildArgs build the application (e.g., ["run", "build"]).
	BuildArgs []string
}

// Runner runs the dependency install and build steps.
type Runner struct {
	Tool    Tool
	Process process.Runner

	// Output receives the tool's stdout and stderr. Nil discards it.
	Output io.Writer
}

// InstallAndBuild runs the install step and then, if it succeeded, the
// build step, both in appDir.
func (r *Runner) InstallAndBuild(ctx context.Context, appDir string) error {
	steps := []struct {
		stage Stage
		args  []string
	}{
		{StageInstall, r.Tool.InstallArgs},
		{StageBuild, r.Tool.BuildArgs},
	}

	for _, step := range steps {
		command := process.Command{
			Name:   r.Tool.Binary,
			Args:   step.args,
			Dir:    appDir,
			Stdout: r.Output,
			Stderr: r.Output,
		}
		if err := r.Process.Run(ctx, command); err != nil {
			return &Error{Stage: step.stage, Err: err}
		}
	}
	return nil
}
