// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package process runs the external tools the installer drives (the
// application's package manager, systemctl, nssm, launchctl).
//
// [Runner] is the seam between provisioning logic and the host. [Exec]
// runs real subprocesses; tests substitute the recording fake in
// processtest. Failures are split in two:
//
//   - [LaunchError]: the binary could not be started at all (not on
//     PATH, not executable). Retrying cannot help.
//   - [ExitStatusError]: the binary ran and exited non-zero.
//
// Calls block until the child exits. No timeout is imposed; the
// context passed to Run kills the child when cancelled (the CLI
// cancels it on SIGINT/SIGTERM).
package process
