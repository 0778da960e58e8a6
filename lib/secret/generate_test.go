// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerate_LengthAndCharset(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		charset string
	}{
		{name: "default alphabet", length: 32, charset: AlphaNumeric},
		{name: "single character", length: 10, charset: "x"},
		{name: "binary digits", length: 200, charset: "01"},
		{name: "multibyte runes", length: 16, charset: "äöü€"},
		{name: "length one", length: 1, charset: "abc"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for range 20 {
				generated, err := Generate(test.length, test.charset)
				if err != nil {
					t.Fatalf("Generate(%d, %q) error: %v", test.length, test.charset, err)
				}
				if count := utf8.RuneCountInString(generated); count != test.length {
					t.Fatalf("Generate(%d, %q) produced %d runes", test.length, test.charset, count)
				}
				for _, r := range generated {
					if !strings.ContainsRune(test.charset, r) {
						t.Fatalf("Generate(%d, %q) produced rune %q outside charset", test.length, test.charset, r)
					}
				}
			}
		})
	}
}

func TestGenerate_ZeroLength(t *testing.T) {
	generated, err := Generate(0, AlphaNumeric)
	if err != nil {
		t.Fatalf("Generate(0) error: %v", err)
	}
	if generated != "" {
		t.Errorf("Generate(0) = %q, want empty string", generated)
	}
}

func TestGenerate_EmptyCharset(t *testing.T) {
	_, err := Generate(8, "")
	if !errors.Is(err, ErrInvalidCharset) {
		t.Fatalf("Generate with empty charset: got %v, want ErrInvalidCharset", err)
	}
}

func TestGenerate_NegativeLength(t *testing.T) {
	_, err := Generate(-1, AlphaNumeric)
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Generate(-1): got %v, want ErrInvalidLength", err)
	}
}

func TestGenerate_DuplicateRunesDoNotBias(t *testing.T) {
	// "aaaaaaab" has two distinct runes; with 4000 draws the share of
	// 'b' stays near one half. A biased draw would give about 1/8.
	generated, err := Generate(4000, "aaaaaaab")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	count := strings.Count(generated, "b")
	if count < 1600 || count > 2400 {
		t.Errorf("'b' appeared %d times in 4000 draws, want roughly 2000", count)
	}
}

func TestGenerate_Varies(t *testing.T) {
	first, err := Generate(32, AlphaNumeric)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	second, err := Generate(32, AlphaNumeric)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if first == second {
		t.Error("two 32-character secrets were identical")
	}
}
