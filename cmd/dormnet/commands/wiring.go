// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"log/slog"

	"github.com/dormnet/dormnet/cmd/dormnet/cli"
	"github.com/dormnet/dormnet/lib/cleanup"
	"github.com/dormnet/dormnet/lib/config"
	"github.com/dormnet/dormnet/lib/console"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/provision"
	"github.com/dormnet/dormnet/lib/service"
)

// commonParams are the flags every provisioning command accepts.
type commonParams struct {
	Config   string `flag:"config" desc:"configuration file (default: $DORMNET_CONFIG, then built-in defaults)"`
	AppDir   string `flag:"app-dir" desc:"application directory (overrides app.dir)"`
	Platform string `flag:"platform" desc:"skip detection and treat the host as linux, windows or macos"`
	Verbose  bool   `flag:"verbose,v" desc:"log diagnostic detail to stderr"`
}

// environment is everything a command needs once the configuration is
// loaded.
type environment struct {
	config     *config.Config
	console    *console.Printer
	logger     *slog.Logger
	detector   platform.Detector
	registrars map[platform.Kind]service.Registrar
	cleanup    *cleanup.Coordinator
}

// appDirPolicy says whether a command needs the application checkout
// to exist.
type appDirPolicy int

const (
	// requireAppDir is for install, which builds in the checkout.
	requireAppDir appDirPolicy = iota

	// allowMissingAppDir is for uninstall and status, which must still
	// find the credential file and service descriptors after the
	// operator has deleted the checkout.
	allowMissingAppDir
)

func newEnvironment(command string, params commonParams, policy appDirPolicy, s host) (*environment, error) {
	cfg, err := loadConfig(params, policy)
	if err != nil {
		return nil, err
	}

	printer := console.New(s.out)
	logger := cli.NewCommandLogger(params.Verbose).With("command", command)

	detector := platform.Detector(platform.Runtime{})
	if kind, _ := cfg.PlatformKind(); kind != "" {
		detector = platform.Fixed(kind)
	}

	registrars := newRegistrars(cfg, s)
	return &environment{
		config:     cfg,
		console:    printer,
		logger:     logger,
		detector:   detector,
		registrars: registrars,
		cleanup: &cleanup.Coordinator{
			CredentialsPath: cfg.App.EnvFile,
			Descriptors:     provision.DescriptorPaths(registrars),
			ReceiptPath:     cfg.App.Receipt,
			Console:         printer,
			Logger:          logger,
		},
	}, nil
}

// loadConfig reads the configuration, applies flag overrides, then
// expands and validates it. Every failure is the operator's to fix.
func loadConfig(params commonParams, policy appDirPolicy) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if params.Config != "" {
		cfg, err = config.LoadFile(params.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	if params.AppDir != "" {
		cfg.App.Dir = params.AppDir
	}
	if params.Platform != "" {
		cfg.Platform = params.Platform
	}

	expand := cfg.Expand
	if policy == allowMissingAppDir {
		expand = cfg.ExpandAllowMissing
	}
	if err := expand(); err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func newRegistrars(cfg *config.Config, s host) map[platform.Kind]service.Registrar {
	start := service.StartCommand{Binary: cfg.Service.Command, Args: cfg.Service.Args}
	runner := s.runner

	return map[platform.Kind]service.Registrar{
		platform.Linux: &service.Systemd{
			Unit:        cfg.Service.Name,
			Description: cfg.Service.Description,
			User:        cfg.ServiceUser(),
			UnitDir:     cfg.Systemd.UnitDir,
			Start:       start,
			Process:     runner,
			Output:      s.errOut,
		},
		platform.Windows: &service.NSSM{
			ServiceName: cfg.NSSM.ServiceName,
			ScriptDir:   cfg.NSSM.ScriptDir,
			Start:       start,
			Process:     runner,
			Output:      s.errOut,
		},
		platform.MacOS: &service.Launchd{
			Label:      cfg.Launchd.Label,
			AgentsDir:  cfg.Launchd.AgentsDir,
			StdoutPath: cfg.Launchd.StdoutPath,
			StderrPath: cfg.Launchd.StderrPath,
			Start:      start,
			Process:    runner,
			Output:     s.errOut,
		},
	}
}
