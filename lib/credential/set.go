// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known keys written by the installer.
const (
	KeyMongoURI        = "MONGO_URI"
	KeySessionPassword = "SESSION_PASSWORD"
)

var (
	// ErrInvalidKey is returned for keys that are empty or contain
	// characters other than ASCII letters, digits and underscores, or
	// that start with a digit.
	ErrInvalidKey = errors.New("invalid credential key")

	// ErrInvalidValue is returned for values that cannot be written to
	// an unquoted KEY=VALUE line.
	ErrInvalidValue = errors.New("invalid credential value")

	// ErrDuplicateKey is returned when a key is added twice.
	ErrDuplicateKey = errors.New("duplicate credential key")
)

// Entry is a single credential.
type Entry struct {
	Key   string
	Value string
}

// Set is an ordered collection of credentials with unique keys. The
// zero value is an empty set ready to use.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet builds a set from entries in order. It fails on the first
// invalid or duplicate entry.
func NewSet(entries ...Entry) (*Set, error) {
	set := &Set{}
	for _, entry := range entries {
		if err := set.Add(entry.Key, entry.Value); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add appends a credential. The key must be new to the set.
func (s *Set) Add(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}
	if _, exists := s.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, Value: value})
	return nil
}

// Get returns the value for key.
func (s *Set) Get(key string) (string, bool) {
	position, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.entries[position].Value, true
}

// Entries returns a copy of the credentials in insertion order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Keys returns the credential keys in insertion order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.entries))
	for position, entry := range s.entries {
		keys[position] = entry.Key
	}
	return keys
}

// Len returns the number of credentials.
func (s *Set) Len() int {
	return len(s.entries)
}

// Missing returns the keys from required that are absent from the set.
func (s *Set) Missing(required ...string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := s.index[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Equal reports whether both sets hold the same entries in the same
// order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for position, entry := range s.entries {
		if other.entries[position] != entry {
			return false
		}
	}
	return true
}

// Clear drops every entry.
func (s *Set) Clear() {
	s.entries = nil
	s.index = nil
}

// ValidateKey checks that key is a portable environment variable name.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	for position, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && position > 0:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// ValidateValue checks that value survives an unquoted KEY=VALUE line
// as read by systemd, nssm and the application's dotenv loader, and
// reads back byte for byte. The
// error names the key but never echoes the value.
func ValidateValue(key, value string) error {
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w for %s: contains a control character", ErrInvalidValue, key)
		}
	}
	if strings.TrimSpace(value) != value {
		return fmt.Errorf("%w for %s: leading or trailing whitespace", ErrInvalidValue, key)
	}
	if strings.ContainsAny(value, "\"'\\") {
		return fmt.Errorf("%w for %s: quotes and backslashes are not supported", ErrInvalidValue, key)
	}
	return nil
}
