// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/process"
)

// basePath is appended to the start binary's directory to form the
// agent's PATH; launchd starts agents with a minimal environment.
const basePath = "/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin"

// Launchd registers the application as a per-user LaunchAgent. Register
// only writes the property list; loading it is left to the operator.
type Launchd struct {
	// Label is the launchd job label (e.g., "com.dormnet.app").
	Label string

	// AgentsDir is the invoking user's LaunchAgents directory.
	AgentsDir string

	// StdoutPath and StderrPath receive the service's output.
	StdoutPath string
	StderrPath string

	Start    StartCommand
	LookPath LookPathFunc
	Process  process.Runner

	// Output receives launchctl's output. Nil discards it.
	Output io.Writer
}

type launchdPlistData struct {
	Label            string
	ProgramArguments []string
	WorkingDir       string
	Environment      []credential.Entry
	StdoutPath       string
	StderrPath       string
}

// Platform returns platform.MacOS.
func (l *Launchd) Platform() platform.Kind { return platform.MacOS }

// PlistPath returns where the property list is written.
func (l *Launchd) PlistPath() string {
	return filepath.Join(l.AgentsDir, l.Label+".plist")
}

// Artifacts returns the property list path.
func (l *Launchd) Artifacts() []string {
	return []string{l.PlistPath()}
}

// FollowUp returns the command the operator runs to load the agent.
func (l *Launchd) FollowUp() string {
	return fmt.Sprintf("launchctl load %s", l.PlistPath())
}

// RenderPlist returns the property list for registration. Credential
// values are read back from the environment file: by the time the
// registrar runs, the installer has dropped its in-memory copy.
func (l *Launchd) RenderPlist(registration Registration) (string, error) {
	credentials, err := credential.Read(registration.EnvFile)
	if err != nil {
		return "", &RegistrationError{Platform: platform.MacOS, Stage: StageRead, Err: err}
	}

	binary, err := resolveBinary(l.Start.Binary, l.LookPath)
	if err != nil {
		return "", &RegistrationError{Platform: platform.MacOS, Stage: StageResolve, Err: err}
	}

	environment := credentials.Entries()
	if _, ok := credentials.Get("PATH"); !ok {
		environment = append(environment, credential.Entry{
			Key:   "PATH",
			Value: filepath.Dir(binary) + ":" + basePath,
		})
	}

	content, err := render("launchd.plist.tmpl", launchdPlistData{
		Label:            l.Label,
		ProgramArguments: append([]string{binary}, l.Start.Args...),
		WorkingDir:       registration.WorkingDir,
		Environment:      environment,
		StdoutPath:       l.StdoutPath,
		StderrPath:       l.StderrPath,
	})
	if err != nil {
		return "", &RegistrationError{Platform: platform.MacOS, Stage: StageRender, Err: err}
	}
	return content, nil
}

// Register renders the property list and writes it to the agents
// directory, creating the directory if needed.
func (l *Launchd) Register(_ context.Context, registration Registration) error {
	content, err := l.RenderPlist(registration)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(l.AgentsDir, 0o755); err != nil {
		return &RegistrationError{Platform: platform.MacOS, Stage: StageWrite, Err: err}
	}
	if err := writeCredentialDescriptor(l.PlistPath(), content); err != nil {
		return &RegistrationError{Platform: platform.MacOS, Stage: StageWrite, Err: err}
	}
	return nil
}

// Deregister unloads the agent if its property list exists.
func (l *Launchd) Deregister(ctx context.Context) error {
	if _, err := os.Stat(l.PlistPath()); errors.Is(err, fs.ErrNotExist) {
		return ErrNotRegistered
	}

	args := []string{"unload", l.PlistPath()}
	err := l.Process.Run(ctx, process.Command{Name: "launchctl", Args: args, Stdout: l.Output, Stderr: l.Output})
	if err != nil {
		return fmt.Errorf("launchctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
