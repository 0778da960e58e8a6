// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LogLevelEnvVar overrides the diagnostic log level (debug, info, warn,
// error).
const LogLevelEnvVar = "DORMNET_LOG_LEVEL"

// NewCommandLogger creates the structured logger commands use for
// diagnostics. Operator-facing progress goes through the console
// printer; the logger only carries detail useful when something goes
// wrong, so it defaults to warnings. verbose lowers the level to debug.
//
// When stderr is a terminal the output is slog text; otherwise it is
// JSON so it can be captured by whatever runs the installer.
func NewCommandLogger(verbose bool) *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose, os.Getenv(LogLevelEnvVar))
}

func newLogger(w io.Writer, terminal, verbose bool, levelText string) *slog.Logger {
	level := slog.LevelWarn
	if levelText != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(strings.TrimSpace(levelText))); err == nil {
			level = parsed
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
