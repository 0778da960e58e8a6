// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"install", "install", 0},
		{"instal", "install", 1},
		{"uninstal", "install", 3},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "install"}, {Name: "uninstall"}, {Name: "status"}, {Name: "version"}}

	tests := []struct {
		input string
		want  string
	}{
		{"instll", "install"},
		{"statsu", "status"},
		{"verison", "version"},
		{"deploy", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("uninstall", pflag.ContinueOnError)
	flagSet.Bool("yes", false, "")
	flagSet.String("app-dir", "", "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--app-dri", "/srv"}, "--app-dir"},
		{[]string{"--yes", "--ys"}, "--yes"},
		{[]string{"--app-dri=/srv"}, "--app-dir"},
		{[]string{"--completely-unrelated"}, ""},
		{[]string{"--", "--ys"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
