// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret generates random credentials and holds operator-entered
// secrets in memory until they are persisted.
//
// [Generate] draws a string of a given length uniformly (with
// replacement) from a character set using crypto/rand. It is used for
// the application's session password.
//
// [Buffer] holds sensitive bytes such as the MongoDB connection string
// between the prompt and the credential file write. On Linux the memory
// is allocated outside the Go heap via mmap(MAP_ANONYMOUS), locked into
// RAM via mlock and excluded from core dumps via madvise(MADV_DONTDUMP).
// On other platforms the buffer is heap-backed; in both cases Close
// zeros the contents and any later access panics. Close is idempotent.
//
// Depends on golang.org/x/sys/unix on Linux. No DormNet-internal
// dependencies.
package secret
