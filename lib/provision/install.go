// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dormnet/dormnet/lib/build"
	"github.com/dormnet/dormnet/lib/cleanup"
	"github.com/dormnet/dormnet/lib/console"
	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/receipt"
	"github.com/dormnet/dormnet/lib/secret"
	"github.com/dormnet/dormnet/lib/service"
)

// Builder installs dependencies and builds the application.
type Builder interface {
	InstallAndBuild(ctx context.Context, appDir string) error
}

// SecretPolicy controls the generated session secret.
type SecretPolicy struct {
	Length  int
	Charset string
}

// Installer provisions the application as a service.
type Installer struct {
	// AppDir is the absolute, resolved application directory.
	AppDir string

	// EnvFile is the credential file.
	EnvFile string

	// ReceiptPath is where the install receipt is written. Empty
	// disables the receipt.
	ReceiptPath string

	// ServiceName is recorded in the receipt.
	ServiceName string

	// Version is recorded in the receipt.
	Version string

	Secrets    SecretPolicy
	Builder    Builder
	Detector   platform.Detector
	Registrars map[platform.Kind]service.Registrar
	Cleanup    *cleanup.Coordinator
	Console    *console.Printer
	Logger     *slog.Logger

	// Now returns the install time. Nil means time.Now.
	Now func() time.Time
}

// Install runs the provisioning state machine. It takes ownership of
// mongoURI and closes it once the credential file is written.
func (i *Installer) Install(ctx context.Context, mongoURI *secret.Buffer) Outcome {
	defer mongoURI.Close()
	logger := i.logger()

	// Start -> SecretsWritten
	i.Console.Step("Writing credentials to %s", i.EnvFile)
	credentials, err := i.writeCredentials(mongoURI)
	mongoURI.Close()
	if err != nil {
		return i.rollback(StageSecrets, err, platform.Unsupported, false)
	}
	defer credentials.Clear()
	logger.Info("credentials written", "path", i.EnvFile, "keys", credentials.Keys())

	// SecretsWritten -> Built
	i.Console.Step("Installing dependencies and building in %s", i.AppDir)
	if err := i.Builder.InstallAndBuild(ctx, i.AppDir); err != nil {
		return i.rollback(StageBuild, describeBuildError(err), platform.Unsupported, false)
	}
	logger.Info("build finished", "dir", i.AppDir)

	// Built -> Registered
	kind := i.Detector.Detect()
	registrar, ok := i.Registrars[kind]
	if !kind.Supported() || !ok {
		return i.rollback(StagePlatform, platform.ErrUnsupported, platform.Unsupported, false)
	}
	logger.Info("platform detected", "platform", string(kind))

	i.Console.Step("Registering %s service", kind)
	registration := service.Registration{
		WorkingDir:  i.AppDir,
		EnvFile:     i.EnvFile,
		Credentials: credentials,
	}
	if err := registrar.Register(ctx, registration); err != nil {
		var registrationError *service.RegistrationError
		managerChanged := errors.As(err, &registrationError) && registrationError.ManagerChanged
		return i.rollback(StageRegister, err, kind, managerChanged)
	}
	credentials.Clear()
	logger.Info("service registered", "platform", string(kind), "artifacts", registrar.Artifacts())

	// Registered -> Completed
	i.writeReceipt(kind, registrar)
	i.Console.Success("DormNet is installed as a %s service", i.Console.Bold(kind.String()))
	if followUp, ok := registrar.(service.FollowUp); ok {
		i.Console.Info("To start it now, run:")
		i.Console.Hint("%s", followUp.FollowUp())
	}
	return Outcome{State: StateCompleted}
}

func (i *Installer) writeCredentials(mongoURI *secret.Buffer) (*credential.Set, error) {
	sessionSecret, err := secret.Generate(i.Secrets.Length, i.Secrets.Charset)
	if err != nil {
		return nil, fmt.Errorf("generating session secret: %w", err)
	}

	credentials, err := credential.NewSet(
		credential.Entry{Key: credential.KeyMongoURI, Value: mongoURI.String()},
		credential.Entry{Key: credential.KeySessionPassword, Value: sessionSecret},
	)
	if err != nil {
		return nil, err
	}

	if err := credential.Write(i.EnvFile, credentials); err != nil {
		credentials.Clear()
		return nil, err
	}
	return credentials, nil
}

// rollback reports err, removes what the run created and returns the
// failed outcome. kind is the platform whose descriptor may exist, or
// Unsupported before registration was attempted.
func (i *Installer) rollback(stage Stage, err error, kind platform.Kind, managerChanged bool) Outcome {
	i.logger().Error("install failed", "stage", string(stage), "error", err)
	i.Console.Error("%s", failureMessage(stage, err))
	i.Console.Step("Rolling back")

	i.Cleanup.RemoveCredentials()
	if stage == StageRegister {
		i.Cleanup.RemoveServiceDescriptor(kind)
	}

	var reasons []string
	if residue := i.Cleanup.Residue(); len(residue) > 0 {
		reasons = append(reasons, "could not remove "+strings.Join(residue, ", "))
	}
	if managerChanged {
		reasons = append(reasons, fmt.Sprintf("the %s service manager was changed before the failure; run `dormnet uninstall` to deregister the service", kind))
	}

	if len(reasons) > 0 {
		outcome := Outcome{State: StatePartial, Stage: stage, Err: err, Reason: strings.Join(reasons, "; ")}
		i.Console.Warn("Install failed and was only partially rolled back: %s", outcome.Reason)
		return outcome
	}
	i.Console.Info("Install failed; no changes remain.")
	return Outcome{State: StateRolledBack, Stage: stage, Err: err}
}

func (i *Installer) writeReceipt(kind platform.Kind, registrar service.Registrar) {
	if i.ReceiptPath == "" {
		return
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}

	installReceipt := &receipt.Receipt{
		Service:     i.ServiceName,
		Platform:    kind,
		InstalledAt: now().UTC(),
		Version:     i.Version,
	}
	err := installReceipt.Record(i.EnvFile, receipt.KindCredentials)
	for _, path := range registrar.Artifacts() {
		if err != nil {
			break
		}
		err = installReceipt.Record(path, receipt.KindDescriptor)
	}
	if err == nil {
		err = receipt.Write(i.ReceiptPath, installReceipt)
	}
	if err != nil {
		i.logger().Warn("install receipt not written", "path", i.ReceiptPath, "error", err)
		i.Console.Warn("Could not write install receipt: %v", err)
	}
}

func (i *Installer) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return i.Logger
}

func describeBuildError(err error) error {
	var buildError *build.Error
	if errors.As(err, &buildError) && buildError.Launch() {
		return fmt.Errorf("build tool could not be started (is it installed and on PATH?): %w", err)
	}
	return err
}

func failureMessage(stage Stage, err error) string {
	switch stage {
	case StageSecrets:
		return fmt.Sprintf("Could not write credentials: %v", err)
	case StageBuild:
		return fmt.Sprintf("Build failed: %v", err)
	case StagePlatform:
		return fmt.Sprintf("Cannot register a service on this host: %v", err)
	default:
		if errors.Is(err, os.ErrPermission) {
			return fmt.Sprintf("Service registration failed (try again with elevated privileges): %v", err)
		}
		return fmt.Sprintf("Service registration failed: %v", err)
	}
}
