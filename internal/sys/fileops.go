// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const shadowDirPerm = 0o755

// FileOps implements file system operations on the host.
//
// Copy, move and link operations are delegated to coreutils, so ownership,
// permissions, timestamps and extended attributes are preserved the same way
// the package manager would do it.
type FileOps struct{}

// CopyFile copies src to dst preserving all attributes.
func (FileOps) CopyFile(ctx context.Context, src, dst string) error {
	return runCommand(ctx, nil, "cp", "-a", "--", src, dst)
}

// Replace atomically replaces dst with src.
func (FileOps) Replace(_ context.Context, src, dst string) error {
	slog.Debug("Rename", slog.String("src", src), slog.String("dst", dst))

	err := os.Rename(src, dst)
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}

	return nil
}

// Remove removes the given file.
func (FileOps) Remove(_ context.Context, path string) error {
	slog.Debug("Remove", slog.String("path", path))

	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}

// MkdirAll creates the given directory and all missing parents.
func (FileOps) MkdirAll(_ context.Context, dir string) error {
	slog.Debug("Create directory", slog.String("path", dir))

	err := os.MkdirAll(dir, shadowDirPerm)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return nil
}

// CopyInto copies all given files into the given directory preserving all
// attributes. Symbolic links are copied as links.
func (FileOps) CopyInto(ctx context.Context, dir string, files ...string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"-a", "--"}, files...)

	return runCommand(ctx, nil, "cp", append(args, dir)...)
}

// MoveInto moves all given files into the given directory.
func (FileOps) MoveInto(ctx context.Context, dir string, files ...string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"--"}, files...)

	return runCommand(ctx, nil, "mv", append(args, dir)...)
}

// ForceSymlink creates a symbolic link at link pointing to target. An
// existing file at link is replaced.
func (FileOps) ForceSymlink(ctx context.Context, target, link string) error {
	return runCommand(ctx, nil, "ln", "-sfn", "--", target, link)
}
