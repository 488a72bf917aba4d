// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"golang.org/x/sys/unix"
)

// runCommand runs the given executable with the given arguments and waits for
// it to finish. Stdout is written to outW, if not nil. It returns an
// [ExecError] in case the command could not be run or returned with a non-zero
// exit code.
func runCommand(
	ctx context.Context,
	outW io.Writer,
	executable string,
	args ...string,
) error {
	var stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Stdout = outW
	cmd.Stderr = &stderrBuf

	slog.Debug("Run command", slog.Any("args", cmd.Args))

	err := cmd.Run()
	if err != nil {
		return &ExecError{
			Cmd:    cmd.Args,
			Err:    err,
			Stderr: stderrBuf.String(),
		}
	}

	return nil
}

// CheckExecutable checks that the given executable can be run. Names without
// path separator are looked up in PATH.
func CheckExecutable(executable string) error {
	path, err := exec.LookPath(executable)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotExecutable, err)
	}

	err = unix.Access(path, unix.X_OK)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotExecutable, path, err)
	}

	return nil
}
