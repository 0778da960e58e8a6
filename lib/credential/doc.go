// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential holds the application's runtime credentials and
// persists them as an environment file.
//
// A [Set] is an ordered collection of unique KEY=VALUE pairs. The
// installer builds one with the MongoDB connection string and a
// generated session password, writes it with [Write], and drops it.
// From then on the file is the only copy: registrars that need the
// values again (launchd inlines them into its property list) call
// [Read].
//
// The file format is one KEY=VALUE per line with no quoting or
// escaping. Values that cannot be represented that way (control
// characters, quotes, backslashes) are rejected by [Set.Add] and
// [Write] rather than written in a form the service manager would
// misread. Keys are split from values on the first '=', so values may
// contain '='.
//
// Writes go to a temporary file in the target directory which is
// renamed over the destination, so a crash never leaves a torn file
// behind. There is no locking: one installer process owns the file
// at a time.
package credential
