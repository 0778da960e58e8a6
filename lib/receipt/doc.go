// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package receipt records what a completed install created.
//
// A receipt is a small YAML file written next to the application after
// registration succeeds. It lists each artifact (credential file,
// service descriptor) with a BLAKE3 digest of its content, so that
// `dormnet status` can tell an intact install from one whose files
// were edited or removed, and uninstall can find descriptors written
// under a different configuration.
//
// The receipt is informational: install does not fail when it cannot
// be written, and uninstall works without one.
package receipt
