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

	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/process"
)

// DescriptorMode is the permission of written unit files. The unit
// references the credential file instead of embedding its values; the
// NSSM script and launchd property list embed them and are written with
// credential.FileMode.
const DescriptorMode = 0o644

// Systemd registers the application as a systemd system unit.
type Systemd struct {
	// Unit is the unit name without the ".service" suffix.
	Unit string

	// Description is the unit's Description= value.
	Description string

	// User runs the service.
	User string

	// UnitDir is the directory the unit file is written to, normally
	// /etc/systemd/system.
	UnitDir string

	Start    StartCommand
	LookPath LookPathFunc
	Process  process.Runner

	// Output receives systemctl's output. Nil discards it.
	Output io.Writer
}

type systemdUnitData struct {
	Description string
	User        string
	WorkingDir  string
	ExecStart   string
	EnvFile     string
}

// Platform returns platform.Linux.
func (s *Systemd) Platform() platform.Kind { return platform.Linux }

// UnitName returns the full unit name, e.g. "dormnet.service".
func (s *Systemd) UnitName() string {
	return s.Unit + ".service"
}

// UnitPath returns where the unit file is written.
func (s *Systemd) UnitPath() string {
	return filepath.Join(s.UnitDir, s.UnitName())
}

// Artifacts returns the unit file path.
func (s *Systemd) Artifacts() []string {
	return []string{s.UnitPath()}
}

// RenderUnit returns the unit file content for registration.
func (s *Systemd) RenderUnit(registration Registration) (string, error) {
	binary, err := resolveBinary(s.Start.Binary, s.LookPath)
	if err != nil {
		return "", err
	}

	words := []string{systemdQuote(binary)}
	for _, argument := range s.Start.Args {
		words = append(words, systemdQuote(argument))
	}

	return render("systemd.service.tmpl", systemdUnitData{
		Description: s.Description,
		User:        s.User,
		WorkingDir:  registration.WorkingDir,
		ExecStart:   strings.Join(words, " "),
		EnvFile:     registration.EnvFile,
	})
}

// Register writes the unit file, reloads systemd, and enables and
// starts the unit. Each systemctl call is a separate stage; a failure
// after enable succeeded is reported with ManagerChanged set.
func (s *Systemd) Register(ctx context.Context, registration Registration) error {
	content, err := s.RenderUnit(registration)
	if err != nil {
		return &RegistrationError{Platform: platform.Linux, Stage: StageRender, Err: err}
	}

	if err := os.WriteFile(s.UnitPath(), []byte(content), DescriptorMode); err != nil {
		return &RegistrationError{Platform: platform.Linux, Stage: StageWrite, Err: err}
	}

	steps := []struct {
		stage Stage
		args  []string
	}{
		{StageReload, []string{"daemon-reload"}},
		{StageEnable, []string{"enable", s.UnitName()}},
		{StageStart, []string{"start", s.UnitName()}},
	}

	managerChanged := false
	for _, step := range steps {
		if err := s.systemctl(ctx, step.args...); err != nil {
			return &RegistrationError{
				Platform:       platform.Linux,
				Stage:          step.stage,
				ManagerChanged: managerChanged,
				Err:            err,
			}
		}
		if step.stage == StageEnable {
			managerChanged = true
		}
	}
	return nil
}

// Deregister stops and disables the unit. Both are attempted; their
// errors are joined.
func (s *Systemd) Deregister(ctx context.Context) error {
	if _, err := os.Stat(s.UnitPath()); errors.Is(err, fs.ErrNotExist) {
		return ErrNotRegistered
	}

	stopError := s.systemctl(ctx, "stop", s.UnitName())
	disableError := s.systemctl(ctx, "disable", s.UnitName())
	return errors.Join(stopError, disableError)
}

// Reload runs systemctl daemon-reload so systemd forgets a deleted unit.
func (s *Systemd) Reload(ctx context.Context) error {
	return s.systemctl(ctx, "daemon-reload")
}

func (s *Systemd) systemctl(ctx context.Context, args ...string) error {
	err := s.Process.Run(ctx, process.Command{
		Name:   "systemctl",
		Args:   args,
		Stdout: s.Output,
		Stderr: s.Output,
	})
	if err != nil {
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
