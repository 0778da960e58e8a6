// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package receipt

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed hash of a file's content.
type Digest [32]byte

// digestKey separates receipt digests from any other BLAKE3 use of the
// same bytes. It is the ASCII domain name zero-padded to 32 bytes;
// changing it invalidates every existing receipt.
var digestKey = [32]byte{
	'd', 'o', 'r', 'm', 'n', 'e', 't', '.', 'r', 'e', 'c', 'e', 'i', 'p', 't', '.',
	'a', 'r', 't', 'i', 'f', 'a', 'c', 't',
}

// HashFile streams the file at path through BLAKE3.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		return Digest{}, err
	}
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String returns the hex encoding used in receipts.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a 64-character hex digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
