// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import "fmt"

// State is the terminal state of an install.
type State string

const (
	StateCompleted  State = "completed"
	StateRolledBack State = "rolled-back"
	StatePartial    State = "partial"
)

// Stage is the install step that failed.
type Stage string

const (
	StageSecrets  Stage = "secrets"
	StageBuild    Stage = "build"
	StagePlatform Stage = "platform"
	StageRegister Stage = "register"
)

// Outcome is the result of Installer.Install.
type Outcome struct {
	State State

	// Stage is set for failed installs.
	Stage Stage

	// Err is the failure that ended the install.
	Err error

	// Reason explains a Partial outcome.
	Reason string
}

// Succeeded reports whether the install completed.
func (o Outcome) Succeeded() bool { return o.State == StateCompleted }

// ExitCode returns the process exit code for the outcome.
func (o Outcome) ExitCode() int {
	if o.Succeeded() {
		return 0
	}
	return 1
}

func (o Outcome) String() string {
	switch o.State {
	case StateCompleted:
		return "completed"
	case StatePartial:
		return fmt.Sprintf("failed at %s, partially rolled back: %s", o.Stage, o.Reason)
	default:
		return fmt.Sprintf("failed at %s, rolled back", o.Stage)
	}
}

// UninstallState is the terminal state of an uninstall.
type UninstallState string

const (
	UninstallCompleted   UninstallState = "completed"
	UninstallDeclined    UninstallState = "declined"
	UninstallUnsupported UninstallState = "unsupported"
)

// UninstallOutcome is the result of Uninstaller.Uninstall.
type UninstallOutcome struct {
	State UninstallState

	// Err is set when confirmation could not be read.
	Err error

	// Residue lists files that could not be removed.
	Residue []string
}

// ExitCode returns the process exit code for the outcome. Residue does
// not fail an uninstall; it is reported to the operator.
func (o UninstallOutcome) ExitCode() int {
	if o.State == UninstallCompleted {
		return 0
	}
	return 1
}
