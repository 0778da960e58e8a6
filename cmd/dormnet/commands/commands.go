// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the dormnet command tree: install, uninstall,
// status and version. Each command loads the configuration, wires the
// lib/ packages together for the current host and hands control to the
// provisioning state machine in lib/provision.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/process"
	"github.com/dormnet/dormnet/lib/version"
)

// host is what commands touch outside the process: the standard
// streams and the runner for external tools. Tests substitute buffers
// and a recording runner.
type host struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	runner process.Runner
}

// Root builds the complete dormnet command tree on the process's
// standard streams, running real subprocesses.
func Root() *cli.Command {
	return newRoot(host{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, runner: process.Exec{}})
}

func newRoot(s host) *cli.Command {
	return &cli.Command{
		Name: "dormnet",
		Description: `DormNet provisioner.

Installs the DormNet application as an operating system service
(systemd on Linux, NSSM on Windows, launchd on macOS) and removes it
again. A failed install rolls back everything it created.`,
		HelpOutput: s.errOut,
		Subcommands: []*cli.Command{
			installCommand(s),
			uninstallCommand(s),
			statusCommand(s),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					if len(args) > 0 {
						return cli.Validation("unexpected argument: %s", args[0])
					}
					fmt.Fprintf(s.out, "dormnet %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Install next to a checkout in ../dormnet",
				Command:     "sudo dormnet install",
			},
			{
				Description: "Install a checkout elsewhere, reading the URI from the environment",
				Command:     "DORMNET_MONGO_URI=mongodb://db:27017/dormnet dormnet install --app-dir /srv/dormnet",
			},
			{
				Description: "Check what is installed",
				Command:     "dormnet status",
			},
			{
				Description: "Remove the service without prompting",
				Command:     "sudo dormnet uninstall --yes",
			},
		},
	}
}
