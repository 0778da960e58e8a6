// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package cleanup removes the files an install creates.
//
// Every removal is best effort and idempotent. A file that does not
// exist is "nothing to remove"; any other error is reported and the
// path is remembered as residue, but no error is ever returned. The
// orchestrators call these methods after a failure has already been
// reported, and a cleanup problem must not hide that failure.
//
// Removals only delete files. Stopping or deregistering a live service
// is the service registrar's job.
package cleanup
