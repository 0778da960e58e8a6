// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package console prints operator-facing progress and results.
//
// Output is styled with lipgloss when the writer is a terminal and
// plain otherwise, so redirected output and test buffers contain no
// escape sequences. Diagnostics for developers go through slog, not
// through this package.
package console
