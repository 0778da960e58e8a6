// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for DormNet packages.
//
// The helpers probe and prepare the filesystem: provisioning tests
// assert on which files exist after an install or rollback, so
// [RequireExists], [RequireAbsent] and [ReadFile] keep those
// assertions short. [Layout] builds the directory tree an install
// touches inside a single temporary root.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
