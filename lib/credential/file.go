// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMode is the permission of written credential files.
const FileMode = 0o600

// Write persists set to path, replacing any existing file. Entries are
// written one KEY=VALUE per line in insertion order. The content is
// written to a temporary file in the same directory, synced, and
// renamed over path; on failure the temporary file is removed and path
// is left as it was.
func Write(path string, set *Set) error {
	for _, entry := range set.entries {
		if err := ValidateKey(entry.Key); err != nil {
			return err
		}
		if err := ValidateValue(entry.Key, entry.Value); err != nil {
			return err
		}
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating credential file in %s: %w", directory, err)
	}
	temporaryPath := temporary.Name()

	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	if err := temporary.Chmod(FileMode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", temporaryPath, err)
	}

	writer := bufio.NewWriter(temporary)
	for _, entry := range set.entries {
		if _, err := fmt.Fprintf(writer, "%s=%s\n", entry.Key, entry.Value); err != nil {
			return fmt.Errorf("writing %s: %w", temporaryPath, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		committed = true
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	committed = true
	return nil
}

// Read parses the credential file at path. Blank lines and lines
// starting with '#' are skipped. Every other line must contain '=';
// duplicate keys are an error. Entry order follows the file.
func Read(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	set := &Set{}
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%s line %d: expected KEY=VALUE", path, lineNumber)
		}
		if err := set.Add(key, value); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading credential file %s: %w", path, err)
	}

	return set, nil
}
