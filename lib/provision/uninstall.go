// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/dormnet/dormnet/lib/cleanup"
	"github.com/dormnet/dormnet/lib/console"
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/receipt"
	"github.com/dormnet/dormnet/lib/service"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	AskConfirm(prompt string, defaultYes bool) (bool, error)
}

// Uninstaller removes the application's service registration and
// credentials.
type Uninstaller struct {
	// AppDir is named in the closing reminder.
	AppDir string

	// ReceiptPath is read for descriptors recorded by the install, then
	// removed.
	ReceiptPath string

	// AssumeYes skips the confirmation prompt.
	AssumeYes bool

	Confirmer  Confirmer
	Detector   platform.Detector
	Registrars map[platform.Kind]service.Registrar
	Cleanup    *cleanup.Coordinator
	Console    *console.Printer
	Logger     *slog.Logger
}

// Uninstall removes DormNet from the host after confirmation.
func (u *Uninstaller) Uninstall(ctx context.Context) UninstallOutcome {
	logger := u.logger()

	if !u.AssumeYes {
		confirmed, err := u.Confirmer.AskConfirm("Are you sure you want to uninstall DormNet?", true)
		if err != nil {
			u.Console.Error("Could not read confirmation: %v", err)
			return UninstallOutcome{State: UninstallDeclined, Err: err}
		}
		if !confirmed {
			u.Console.Info("Uninstall cancelled. Nothing was changed.")
			return UninstallOutcome{State: UninstallDeclined}
		}
	}

	u.Console.Step("Removing credentials")
	u.Cleanup.RemoveCredentials()

	kind := u.Detector.Detect()
	registrar, ok := u.Registrars[kind]
	if !kind.Supported() || !ok {
		logger.Error("uninstall stopped", "platform", string(kind), "error", platform.ErrUnsupported)
		u.Console.Error("%v", platform.ErrUnsupported)
		return UninstallOutcome{State: UninstallUnsupported, Residue: u.Cleanup.Residue()}
	}
	logger.Info("platform detected", "platform", string(kind))

	u.mergeReceiptDescriptors(kind)

	u.Console.Step("Stopping and removing the %s service", kind)
	switch err := registrar.Deregister(ctx); {
	case errors.Is(err, service.ErrNotRegistered):
		u.Console.Info("The %s service is not registered.", kind)
	case err != nil:
		logger.Warn("deregistration failed", "platform", string(kind), "error", err)
		u.Console.Warn("Could not deregister the service (it may already be gone): %v", err)
	default:
		u.Console.Success("Service stopped and deregistered")
	}

	removed := u.Cleanup.RemoveServiceDescriptor(kind)
	if reloader, ok := registrar.(service.Reloader); ok && removed {
		if err := reloader.Reload(ctx); err != nil {
			logger.Warn("service manager reload failed", "error", err)
			u.Console.Warn("Could not reload the service manager: %v", err)
		}
	}
	u.Cleanup.RemoveReceipt()

	residue := u.Cleanup.Residue()
	if len(residue) > 0 {
		u.Console.Warn("Some files could not be removed: %s", strings.Join(residue, ", "))
	}
	u.Console.Success("DormNet has been uninstalled")
	u.Console.Info("You can now delete the application folder %s.", u.AppDir)
	return UninstallOutcome{State: UninstallCompleted, Residue: residue}
}

// mergeReceiptDescriptors adds descriptor paths from the install
// receipt, so descriptors written under a different configuration are
// still removed.
func (u *Uninstaller) mergeReceiptDescriptors(kind platform.Kind) {
	if u.ReceiptPath == "" {
		return
	}
	installReceipt, err := receipt.Read(u.ReceiptPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			u.logger().Warn("install receipt unreadable", "path", u.ReceiptPath, "error", err)
		}
		return
	}
	if installReceipt.Platform != kind {
		u.logger().Warn("install receipt is for another platform", "receipt", string(installReceipt.Platform), "host", string(kind))
		return
	}
	u.Cleanup.AddDescriptors(kind, installReceipt.Paths(receipt.KindDescriptor)...)
}

func (u *Uninstaller) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return u.Logger
}
