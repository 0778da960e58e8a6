// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/console"
	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/receipt"
)

type statusParams struct {
	commonParams
}

func statusCommand(s host) *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Check what is installed",
		Description: `Report whether the credential file exists and holds the required keys,
whether the service descriptor for this host is in place, and whether
every file recorded in the install receipt still matches its digest.

Exits 1 if any check fails. Nothing is modified.`,
		Usage: "dormnet status [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runStatus(params, s)
		},
	}
}

func runStatus(params statusParams, s host) error {
	env, err := newEnvironment("status", params.commonParams, allowMissingAppDir, s)
	if err != nil {
		return err
	}

	var checks []console.Check
	checks = append(checks, checkCredentials(env.config.App.EnvFile))

	kind := env.detector.Detect()
	registrar, ok := env.registrars[kind]
	if !kind.Supported() || !ok {
		checks = append(checks, console.Fail("platform", fmt.Sprintf("%s is not supported", kind)))
	} else {
		checks = append(checks, console.Pass("platform", kind.String()))
		for _, path := range registrar.Artifacts() {
			checks = append(checks, checkPresent("service descriptor", path))
		}
	}

	checks = append(checks, checkReceipt(env.config.App.Receipt)...)

	if env.console.Checklist(checks) {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func checkCredentials(path string) console.Check {
	set, err := credential.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return console.Fail("credential file", "not found at "+path)
	case err != nil:
		return console.Fail("credential file", err.Error())
	}

	if missing := set.Missing(credential.KeyMongoURI, credential.KeySessionPassword); len(missing) > 0 {
		set.Clear()
		return console.Fail("credential file", "missing "+strings.Join(missing, ", "))
	}
	set.Clear()
	return console.Pass("credential file", path)
}

func checkPresent(name, path string) console.Check {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return console.Pass(name, path)
	case errors.Is(err, fs.ErrNotExist):
		return console.Fail(name, "not found at "+path)
	default:
		return console.Fail(name, err.Error())
	}
}

// checkReceipt verifies each artifact the install recorded. A missing
// receipt is only a warning: installs that could not write one still
// work.
func checkReceipt(path string) []console.Check {
	installed, err := receipt.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []console.Check{console.Warn("install receipt", "not found at "+path)}
	}
	if err != nil {
		return []console.Check{console.Fail("install receipt", err.Error())}
	}

	checks := []console.Check{console.Pass("install receipt",
		fmt.Sprintf("%s service installed %s", installed.Platform, installed.InstalledAt.Format("2006-01-02 15:04 MST")))}
	for _, check := range installed.Verify() {
		name := string(check.Artifact.Kind)
		switch check.State {
		case receipt.StateIntact:
			checks = append(checks, console.Pass(name, check.Artifact.Path))
		case receipt.StateModified:
			checks = append(checks, console.Fail(name, check.Artifact.Path+" changed since install"))
		case receipt.StateMissing:
			checks = append(checks, console.Fail(name, check.Artifact.Path+" is missing"))
		default:
			checks = append(checks, console.Fail(name, fmt.Sprintf("%s: %v", check.Artifact.Path, check.Err)))
		}
	}
	return checks
}
