// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command t32migrate prepares a 32-bit system for the transition to the 64-bit
// time ABI.
//
// All libraries are relocated into shadow directories next to the library
// directories and all binaries get a search path pointing to them, so the
// old binaries keep working while packages are rebuilt.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/t32migrate/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	exitCode := cmd.Run(ctx, os.Args[1:], cmd.IO{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		ConfigFS: os.DirFS("/"),
	})

	cancel()
	os.Exit(exitCode)
}
