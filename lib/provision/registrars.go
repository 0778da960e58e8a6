// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"github.com/dormnet/dormnet/lib/platform"
	"github.com/dormnet/dormnet/lib/service"
)

// DescriptorPaths collects each registrar's artifacts, for the cleanup
// coordinator.
func DescriptorPaths(registrars map[platform.Kind]service.Registrar) map[platform.Kind][]string {
	paths := make(map[platform.Kind][]string, len(registrars))
	for kind, registrar := range registrars {
		paths[kind] = registrar.Artifacts()
	}
	return paths
}
