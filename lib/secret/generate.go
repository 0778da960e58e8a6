// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// AlphaNumeric is the default character set for generated credentials.
const AlphaNumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	// ErrInvalidCharset is returned by Generate when the character set
	// is empty.
	ErrInvalidCharset = errors.New("secret: character set is empty")

	// ErrInvalidLength is returned by Generate for a negative length.
	ErrInvalidLength = errors.New("secret: length must not be negative")
)

// Generate returns a random string of exactly length runes, each drawn
// uniformly and independently from the distinct runes of charset.
// Duplicate runes in charset do not bias the draw. A zero length
// yields the empty string.
func Generate(length int, charset string) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	alphabet := distinctRunes(charset)
	if len(alphabet) == 0 {
		return "", ErrInvalidCharset
	}

	limit := big.NewInt(int64(len(alphabet)))
	var builder strings.Builder
	builder.Grow(length)
	for range length {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("secret: reading random source: %w", err)
		}
		builder.WriteRune(alphabet[index.Int64()])
	}
	return builder.String(), nil
}

// distinctRunes returns the runes of s in first-seen order with
// duplicates removed.
func distinctRunes(s string) []rune {
	seen := make(map[rune]struct{}, len(s))
	var runes []rune
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		runes = append(runes, r)
	}
	return runes
}
