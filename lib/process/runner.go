// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	// Name is the binary, resolved against PATH when not absolute.
	Name string

	// Args are the arguments after the binary name.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands and waits for them to finish.
type Runner interface {
	Run(ctx context.Context, command Command) error
}

// LaunchError reports that a command could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot start %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitStatusError reports that a command ran and exited non-zero.
type ExitStatusError struct {
	Command string
	Code    int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// ExitCode returns the child's exit status.
func (e *ExitStatusError) ExitCode() int { return e.Code }

// IsLaunchError reports whether err (or anything it wraps) is a
// LaunchError.
func IsLaunchError(err error) bool {
	var launchError *LaunchError
	return errors.As(err, &launchError)
}

// Exec runs commands as real subprocesses.
type Exec struct{}

// Run starts command and waits for it to exit.
func (Exec) Run(ctx context.Context, command Command) error {
	child := exec.CommandContext(ctx, command.Name, command.Args...)
	child.Dir = command.Dir
	child.Stdout = command.Stdout
	child.Stderr = command.Stderr

	if err := child.Start(); err != nil {
		return &LaunchError{Command: command.String(), Err: err}
	}

	if err := child.Wait(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return &ExitStatusError{Command: command.String(), Code: exitError.ExitCode()}
		}
		return fmt.Errorf("waiting for %s: %w", command, err)
	}
	return nil
}
