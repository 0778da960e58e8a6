// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the dormnet binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X: [GitCommit], [GitDirty], [BuildTime] and [Version].
// They default to "unknown" / "0.1.0-dev" in development builds and
// test runs.
//
// [Info] is printed by `dormnet version` and recorded in install
// receipts; [Full] adds the Go version and platform.
package version
