// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/build"
	"github.com/dormnet/dormnet/lib/prompt"
	"github.com/dormnet/dormnet/lib/provision"
	"github.com/dormnet/dormnet/lib/secret"
	"github.com/dormnet/dormnet/lib/version"
)

// MongoURIEnvVar supplies the MongoDB URI without a prompt.
const MongoURIEnvVar = "DORMNET_MONGO_URI"

type installParams struct {
	commonParams
	MongoURI     string `flag:"mongo-uri" desc:"MongoDB connection string (default: $DORMNET_MONGO_URI, then prompt)"`
	MongoURIFile string `flag:"mongo-uri-file" desc:"read the MongoDB connection string from a file, or stdin with -"`
}

func installCommand(s host) *cli.Command {
	var params installParams

	return &cli.Command{
		Name:    "install",
		Summary: "Install DormNet as a service",
		Description: `Write the application's credentials, build it, and register it with
the host's service manager.

The MongoDB URI comes from --mongo-uri or --mongo-uri-file, then
$DORMNET_MONGO_URI, then an interactive prompt. A session secret is generated. If any step fails,
everything the install created is removed again and the command exits 1.`,
		Usage: "dormnet install [flags]",
		Examples: []cli.Example{
			{
				Description: "Install, prompting for the MongoDB URI",
				Command:     "sudo dormnet install",
			},
			{
				Description: "Read the URI from a file instead of the command line",
				Command:     "sudo dormnet install --mongo-uri-file /root/dormnet-mongo-uri",
			},
			{
				Description: "Install a checkout at a specific path",
				Command:     "sudo dormnet install --app-dir /srv/dormnet",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("install", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runInstall(ctx, params, s)
		},
	}
}

func runInstall(ctx context.Context, params installParams, s host) error {
	env, err := newEnvironment("install", params.commonParams, requireAppDir, s)
	if err != nil {
		return err
	}

	mongoURI, err := readMongoURI(params, s)
	if err != nil {
		return err
	}

	cfg := env.config
	installer := &provision.Installer{
		AppDir:      cfg.App.Dir,
		EnvFile:     cfg.App.EnvFile,
		ReceiptPath: cfg.App.Receipt,
		ServiceName: cfg.Service.Name,
		Version:     version.Short(),
		Secrets: provision.SecretPolicy{
			Length:  cfg.Secrets.SessionLength,
			Charset: cfg.Secrets.Charset,
		},
		Builder: &build.Runner{
			Tool: build.Tool{
				Binary:      cfg.Build.Tool,
				InstallArgs: cfg.Build.InstallArgs,
				BuildArgs:   cfg.Build.BuildArgs,
			},
			Process: s.runner,
			Output:  env.console.Writer(),
		},
		Detector:   env.detector,
		Registrars: env.registrars,
		Cleanup:    env.cleanup,
		Console:    env.console,
		Logger:     env.logger,
	}

	outcome := installer.Install(ctx, mongoURI)
	env.logger.Debug("install finished", "outcome", outcome.String())
	if !outcome.Succeeded() {
		return &cli.ExitError{Code: outcome.ExitCode()}
	}
	return nil
}

// readMongoURI takes the URI from the flags, the environment or the
// operator, in that order. The caller owns the returned buffer.
func readMongoURI(params installParams, s host) (*secret.Buffer, error) {
	if params.MongoURI != "" && params.MongoURIFile != "" {
		return nil, cli.Validation("--mongo-uri and --mongo-uri-file are mutually exclusive")
	}

	var buffer *secret.Buffer
	var err error
	switch {
	case params.MongoURIFile == "-":
		buffer, err = secret.ReadLine(s.in)
	case params.MongoURIFile != "":
		buffer, err = secret.ReadFromPath(params.MongoURIFile)
	case params.MongoURI != "":
		buffer, err = secret.ReadLine(strings.NewReader(params.MongoURI))
	case os.Getenv(MongoURIEnvVar) != "":
		buffer, err = secret.ReadLine(strings.NewReader(os.Getenv(MongoURIEnvVar)))
	default:
		buffer, err = prompt.New(s.in, s.errOut).AskSecret("Enter your MongoDB URI")
		if errors.Is(err, prompt.ErrNoInput) {
			return nil, cli.Validation("a MongoDB URI is required (--mongo-uri, --mongo-uri-file or $%s)", MongoURIEnvVar)
		}
	}
	if err != nil {
		return nil, cli.Validation("MongoDB URI: %w", err)
	}
	return buffer, nil
}
