// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string, mode fs.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// ReadFile returns the content of path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// RequireExists fails the test unless path exists.
func RequireExists(t testing.TB, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

// RequireAbsent fails the test if path exists.
func RequireAbsent(t testing.TB, path string) {
	t.Helper()
	_, err := os.Stat(path)
	if err == nil {
		t.Fatalf("expected %s to be absent", path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("probing %s: %v", path, err)
	}
}

// Layout is a throwaway host layout for provisioning tests: an
// application directory and the three service descriptor directories,
// all under one temporary root.
type Layout struct {
	Root      string
	AppDir    string
	UnitDir   string
	ScriptDir string
	AgentsDir string
}

// NewLayout creates the application, unit and script directories. The
// agents directory is left absent, as on a fresh macOS account.
func NewLayout(t testing.TB) Layout {
	t.Helper()
	root := t.TempDir()
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("resolving %s: %v", root, err)
	}

	layout := Layout{
		Root:      resolved,
		AppDir:    filepath.Join(resolved, "dormnet"),
		UnitDir:   filepath.Join(resolved, "etc", "systemd", "system"),
		ScriptDir: filepath.Join(resolved, "installer"),
		AgentsDir: filepath.Join(resolved, "home", "Library", "LaunchAgents"),
	}
	for _, directory := range []string{layout.AppDir, layout.UnitDir, layout.ScriptDir} {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			t.Fatalf("creating %s: %v", directory, err)
		}
	}
	return layout
}
