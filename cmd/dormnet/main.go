// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Command dormnet installs the DormNet application as an operating
// system service and removes it again.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dormnet/dormnet/cmd/dormnet/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that report their own outcome (install rollbacks,
		// failing status checks) return an error carrying only the exit
		// code. Don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
