// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/process"
)

// NSSM registers the application as a Windows service through the
// Non-Sucking Service Manager. nssm cannot point a service at an
// environment file, so the credentials are copied into the service's
// environment block by the generated script.
type NSSM struct {
	// ServiceName is the Windows service name (e.g., "DormNet").
	ServiceName string

	// ScriptDir is where the install script is written.
	ScriptDir string

	Start   StartCommand
	Process process.Runner

	// Output receives the script's and nssm's output. Nil discards it.
	Output io.Writer
}

type nssmScriptData struct {
	ServiceName string
	Binary      string
	Args        []string
	WorkingDir  string
	Environment []credential.Entry
}

// Platform returns platform.Windows.
func (n *NSSM) Platform() platform.Kind { return platform.Windows }

// ScriptPath returns where the install script is written.
func (n *NSSM) ScriptPath() string {
	return filepath.Join(n.ScriptDir, ScriptName(n.ServiceName))
}

// ScriptName returns the install script file name for a service.
func ScriptName(serviceName string) string {
	return fmt.Sprintf("install_%s_service.bat", lowerASCII(serviceName))
}

// Artifacts returns the install script path.
func (n *NSSM) Artifacts() []string {
	return []string{n.ScriptPath()}
}

// RenderScript returns the install script for registration.
func (n *NSSM) RenderScript(registration Registration) (string, error) {
	credentials := registration.Credentials
	if credentials == nil {
		var err error
		credentials, err = credential.Read(registration.EnvFile)
		if err != nil {
			return "", err
		}
	}

	return render("nssm.bat.tmpl", nssmScriptData{
		ServiceName: n.ServiceName,
		Binary:      n.Start.Binary,
		Args:        n.Start.Args,
		WorkingDir:  registration.WorkingDir,
		Environment: credentials.Entries(),
	})
}

// Register writes the install script and runs it with cmd /C. A
// non-zero exit may leave a half-configured service behind (the script
// stops at the first failing nssm call), so it is reported with
// ManagerChanged set.
func (n *NSSM) Register(ctx context.Context, registration Registration) error {
	content, err := n.RenderScript(registration)
	if err != nil {
		return &RegistrationError{Platform: platform.Windows, Stage: StageRender, Err: err}
	}

	if err := writeCredentialDescriptor(n.ScriptPath(), content); err != nil {
		return &RegistrationError{Platform: platform.Windows, Stage: StageWrite, Err: err}
	}

	err = n.Process.Run(ctx, process.Command{
		Name:   "cmd",
		Args:   []string{"/C", n.ScriptPath()},
		Dir:    n.ScriptDir,
		Stdout: n.Output,
		Stderr: n.Output,
	})
	if err != nil {
		return &RegistrationError{
			Platform:       platform.Windows,
			Stage:          StageRun,
			ManagerChanged: !process.IsLaunchError(err),
			Err:            err,
		}
	}
	return nil
}

// Deregister stops the service and removes it from nssm. A failed stop
// (typically "not running") does not prevent the removal attempt.
func (n *NSSM) Deregister(ctx context.Context) error {
	stopError := n.nssm(ctx, "stop", n.ServiceName)
	removeError := n.nssm(ctx, "remove", n.ServiceName, "confirm")
	return errors.Join(stopError, removeError)
}

func (n *NSSM) nssm(ctx context.Context, args ...string) error {
	command := process.Command{Name: "nssm", Args: args, Stdout: n.Output, Stderr: n.Output}
	if err := n.Process.Run(ctx, command); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

func lowerASCII(s string) string {
	out := []byte(s)
	for index, b := range out {
		if b >= 'A' && b <= 'Z' {
			out[index] = b + ('a' - 'A')
		}
	}
	return string(out)
}
