// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package processtest provides a recording [process.Runner] for tests
// of code that drives external tools.
package processtest

import (
	"context"
	"errors"
	"sync"

	"github.com/dormnet/dormnet/lib/process"
)

// Runner records every command and returns scripted results. Commands
// without a scripted result succeed.
type Runner struct {
	mu       sync.Mutex
	calls    []process.Command
	failures map[string]error

	// OnRun, when set, is called for each command after it is recorded
	// and before the scripted result is looked up. A non-nil return
	// value replaces the scripted result.
	OnRun func(command process.Command) error
}

// New returns a Runner on which every command succeeds.
func New() *Runner {
	return &Runner{failures: make(map[string]error)}
}

// FailExit makes commandLine (as rendered by process.Command.String)
// exit with code.
func (r *Runner) FailExit(commandLine string, code int) {
	r.fail(commandLine, &process.ExitStatusError{Command: commandLine, Code: code})
}

// FailLaunch makes commandLine fail to start.
func (r *Runner) FailLaunch(commandLine string) {
	r.fail(commandLine, &process.LaunchError{Command: commandLine, Err: errors.New("executable file not found in $PATH")})
}

func (r *Runner) fail(commandLine string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[commandLine] = err
}

// Run records command and returns its scripted result.
func (r *Runner) Run(_ context.Context, command process.Command) error {
	r.mu.Lock()
	r.calls = append(r.calls, command)
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		if err := hook(command); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures[command.String()]
}

// Calls returns the recorded commands in order.
func (r *Runner) Calls() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]process.Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// CommandLines returns the recorded commands rendered as strings.
func (r *Runner) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for index, call := range calls {
		lines[index] = call.String()
	}
	return lines
}
