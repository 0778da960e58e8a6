// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package service registers the application with the host's service
// manager and removes it again.
//
// [Registrar] is implemented once per supported platform:
//
//   - [Systemd] writes a unit file, then runs systemctl daemon-reload,
//     enable and start.
//   - [NSSM] writes a batch script that registers the service with the
//     Non-Sucking Service Manager, then runs it.
//   - [Launchd] writes a per-user LaunchAgent property list. It does
//     not load it; the operator runs launchctl load afterwards.
//
// Descriptors are rendered from the embedded templates in templates/.
// Registrars return *[RegistrationError] naming the failed stage and
// never remove what they wrote: rollback is the caller's job, using
// the paths reported by Artifacts.
//
// Paths (unit directory, LaunchAgents directory, script directory)
// are injected through the registrar fields so tests run against
// temporary directories.
package service
