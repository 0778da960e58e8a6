// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package secret

// allocate returns heap memory. Windows and macOS builds of the
// installer only hold the secret for the duration of a single install
// run; Close still zeros it.
func allocate(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func release([]byte) error {
	return nil
}
