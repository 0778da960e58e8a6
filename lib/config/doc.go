// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the provisioner's YAML configuration.
//
// Configuration comes from a single file named by the --config flag
// or the DORMNET_CONFIG environment variable. When neither is given,
// [Default] applies: it reproduces the conventional layout (the
// application checked out next to the provisioner, npm as the build
// tool, the stock systemd, nssm and launchd locations).
//
// After flags are applied, [Config.Expand] resolves the application
// directory to an absolute, symlink-free path and expands ${APP_DIR},
// ${HOME} and ${VAR:-default} in every path field. [Config.Validate]
// reports all problems at once.
//
// Key exports:
//
//   - [Config] -- app, service, secrets, build and per-platform sections
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
