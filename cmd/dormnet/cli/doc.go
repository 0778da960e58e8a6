// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the dormnet CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in
// cmd/dormnet/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and help output with
// examples.
//
// Flags are declared on tagged parameter structs and bound with
// [FlagsFromParams]. When a user types an unknown subcommand or flag,
// the framework suggests the closest known name by edit distance.
//
// Errors returned from Run are either [ToolError] (a categorized
// failure the operator should read) or [ExitError] (the command has
// already reported the problem and only the exit code remains).
// [NewCommandLogger] builds the slog logger commands use for
// diagnostics.
package cli
