// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package cleanup

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/dormnet/dormnet/lib/console"
	"github.com/dormnet/dormnet/lib/platform"
)

// Coordinator removes install artifacts. It is not safe for concurrent
// use; provisioning runs one step at a time.
type Coordinator struct {
	// CredentialsPath is the env file.
	CredentialsPath string

	// Descriptors lists the service descriptor files per platform.
	Descriptors map[platform.Kind][]string

	// ReceiptPath is the install receipt.
	ReceiptPath string

	Console *console.Printer
	Logger  *slog.Logger

	residue []string
}

// RemoveCredentials deletes the credential file and reports whether a
// file was removed.
func (c *Coordinator) RemoveCredentials() bool {
	return c.remove(c.CredentialsPath, "credential file")
}

// RemoveServiceDescriptor deletes every descriptor file registered for
// kind. It reports whether at least one file was removed.
func (c *Coordinator) RemoveServiceDescriptor(kind platform.Kind) bool {
	paths := c.Descriptors[kind]
	if len(paths) == 0 {
		c.logger().Debug("no service descriptors configured", "platform", string(kind))
		return false
	}

	removed := false
	for _, path := range paths {
		if c.remove(path, kind.String()+" service descriptor") {
			removed = true
		}
	}
	return removed
}

// AddDescriptors registers additional descriptor paths for kind, such
// as those recorded in an install receipt. Known paths are ignored.
func (c *Coordinator) AddDescriptors(kind platform.Kind, paths ...string) {
	if c.Descriptors == nil {
		c.Descriptors = make(map[platform.Kind][]string)
	}
	for _, path := range paths {
		if path != "" && !slices.Contains(c.Descriptors[kind], path) {
			c.Descriptors[kind] = append(c.Descriptors[kind], path)
		}
	}
}

// RemoveReceipt deletes the install receipt.
func (c *Coordinator) RemoveReceipt() bool {
	return c.remove(c.ReceiptPath, "install receipt")
}

// Residue returns the paths whose last removal attempt failed for a
// reason other than the file not existing.
func (c *Coordinator) Residue() []string {
	return slices.Clone(c.residue)
}

func (c *Coordinator) remove(path, what string) bool {
	if path == "" {
		return false
	}

	err := os.Remove(path)
	switch {
	case err == nil:
		c.clearResidue(path)
		c.logger().Info("removed", "what", what, "path", path)
		if c.Console != nil {
			c.Console.Success("Removed %s %s", what, path)
		}
		return true

	case errors.Is(err, fs.ErrNotExist):
		c.clearResidue(path)
		c.logger().Debug("nothing to remove", "what", what, "path", path)
		if c.Console != nil {
			c.Console.Info("No %s to remove at %s", what, path)
		}
		return false

	default:
		if !slices.Contains(c.residue, path) {
			c.residue = append(c.residue, path)
		}
		c.logger().Warn("removal failed", "what", what, "path", path, "error", err)
		if c.Console != nil {
			c.Console.Warn("Could not remove %s %s: %v", what, path, err)
		}
		return false
	}
}

func (c *Coordinator) clearResidue(path string) {
	c.residue = slices.DeleteFunc(c.residue, func(candidate string) bool {
		return candidate == path
	})
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
