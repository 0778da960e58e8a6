// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package secret

import "testing"

// On the heap path release is a no-op, so the slice stays readable
// after Close and must hold only zeros.
func TestBuffer_CloseZeroesHeapStorage(t *testing.T) {
	buffer, err := NewFromBytes([]byte(testMongoURI))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	storage := buffer.data

	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(storage) != len(testMongoURI) {
		t.Fatalf("retained storage has %d bytes", len(storage))
	}
	if index := firstNonZero(storage); index >= 0 {
		t.Errorf("byte %d survived Close", index)
	}
	if buffer.data != nil {
		t.Error("Close left data attached to the buffer")
	}
}

func TestRelease_HeapIsNoOp(t *testing.T) {
	data, err := allocate(16)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for range 2 {
		if err := release(data); err != nil {
			t.Fatalf("release: %v", err)
		}
	}
}
