// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform identifies which service manager the host uses.
// The result is a closed set: Linux (systemd), Windows (nssm), macOS
// (launchd), or Unsupported. It is determined once per run.
package platform

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Kind is the host platform as far as service registration cares.
type Kind string

const (
	Linux       Kind = "linux"
	Windows     Kind = "windows"
	MacOS       Kind = "macos"
	Unsupported Kind = "unsupported"
)

// ErrUnsupported is returned when no service registrar exists for the
// host platform.
var ErrUnsupported = errors.New("unsupported platform: only Linux (systemd), Windows (nssm) and macOS (launchd) are supported")

// Known lists the platforms that have a service registrar.
var Known = []Kind{Linux, Windows, MacOS}

// String returns the display name of the platform.
func (k Kind) String() string {
	switch k {
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	case MacOS:
		return "macOS"
	default:
		return "unsupported"
	}
}

// Supported reports whether k has a service registrar.
func (k Kind) Supported() bool {
	return slices.Contains(Known, k)
}

// Parse converts a configuration value into a Kind. It accepts the
// Kind names and the GOOS spellings ("darwin"). The empty string is
// rejected; callers treat it as "detect".
func Parse(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	case "macos", "darwin":
		return MacOS, nil
	case "unsupported":
		return Unsupported, nil
	default:
		names := make([]string, len(Known))
		for i, kind := range Known {
			names[i] = string(kind)
		}
		return "", fmt.Errorf("unknown platform %q (expected one of %s)", value, strings.Join(names, ", "))
	}
}

// FromGOOS maps a Go GOOS value to a Kind.
func FromGOOS(goos string) Kind {
	switch goos {
	case "linux":
		return Linux
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Unsupported
	}
}

// Detector reports the platform of the current host.
type Detector interface {
	Detect() Kind
}

// Runtime detects the platform from the GOOS the binary was built for.
type Runtime struct{}

// Detect returns the Kind for runtime.GOOS.
func (Runtime) Detect() Kind {
	return FromGOOS(runtime.GOOS)
}

// Fixed is a Detector that always reports the same Kind. The CLI uses
// it for the --platform override.
type Fixed Kind

// Detect returns the fixed Kind.
func (f Fixed) Detect() Kind {
	return Kind(f)
}
