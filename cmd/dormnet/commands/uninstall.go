// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/prompt"
	"github.com/dormnet/dormnet/lib/provision"
)

type uninstallParams struct {
	commonParams
	Yes bool `flag:"yes,y" desc:"do not ask for confirmation"`
}

func uninstallCommand(s host) *cli.Command {
	var params uninstallParams

	return &cli.Command{
		Name:    "uninstall",
		Summary: "Remove the DormNet service and its credentials",
		Description: `Stop and deregister the DormNet service, then delete the credential
file, the service descriptor and the install receipt.

Missing pieces are reported and skipped, so uninstall can be re-run after
a partial install or a previous partial uninstall. The application
folder itself is left for the operator to delete.`,
		Usage: "dormnet uninstall [flags]",
		Examples: []cli.Example{
			{
				Description: "Uninstall after confirming",
				Command:     "sudo dormnet uninstall",
			},
			{
				Description: "Uninstall from a script",
				Command:     "sudo dormnet uninstall --yes",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("uninstall", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runUninstall(ctx, params, s)
		},
	}
}

func runUninstall(ctx context.Context, params uninstallParams, s host) error {
	env, err := newEnvironment("uninstall", params.commonParams, allowMissingAppDir, s)
	if err != nil {
		return err
	}

	uninstaller := &provision.Uninstaller{
		AppDir:      env.config.App.Dir,
		ReceiptPath: env.config.App.Receipt,
		AssumeYes:   params.Yes,
		Confirmer:   prompt.New(s.in, s.errOut),
		Detector:    env.detector,
		Registrars:  env.registrars,
		Cleanup:     env.cleanup,
		Console:     env.console,
		Logger:      env.logger,
	}

	outcome := uninstaller.Uninstall(ctx)
	env.logger.Debug("uninstall finished", "state", string(outcome.State), "residue", outcome.Residue)
	if code := outcome.ExitCode(); code != 0 {
		return &cli.ExitError{Code: code}
	}
	return nil
}
