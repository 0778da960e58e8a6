// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package provision sequences installing and uninstalling DormNet as a
// managed service.
//
// [Installer] is a strict state machine:
//
//	Start -> SecretsWritten -> Built -> Registered -> Completed
//
// Any failure ends the run. The cause is printed first, then the
// cleanup coordinator removes what this run created (the credential
// file, and after a registration attempt the service descriptor), and
// the run ends as RolledBack or, when cleanup left residue or the
// service manager had already been changed, as Partial. Nothing is
// retried.
//
// [Uninstaller] asks for confirmation, then removes the credential
// file, deregisters the live service and removes its descriptors.
// Every step is a best-effort removal, so there is no rollback.
//
// Both orchestrators return an outcome instead of exiting; the CLI
// maps it to the process exit code. Neither takes a lock: running two
// provisioners against the same application directory at once is not
// supported.
package provision
