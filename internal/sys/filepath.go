// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// MustAbsolutePath calls [AbsolutePath] and panics in case of errors.
func MustAbsolutePath(path string) string {
	abs, err := AbsolutePath(path)
	if err != nil {
		panic(err)
	}

	return abs
}

// InRoot returns the host path of the given path as seen from inside the
// root directory.
//
// Paths installed by the package manager and paths reported by the dynamic
// linker are relative to the target root. They need to be prefixed with the
// root before they can be accessed from outside. For root "/" the path is
// only cleaned.
func InRoot(root, path string) string {
	return filepath.Join(root, path)
}

// ResolveInRoot returns the given path, as seen from inside the root, with all
// symbolic links resolved.
//
// The result is again a path as seen from inside the root. Links pointing out
// of the root can not be expressed that way and result in an error, as do
// paths that do not exist.
func ResolveInRoot(root, path string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(InRoot(root, path))
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}

	rel, err := filepath.Rel(realRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return filepath.Join("/", rel), nil
}

// IsCanonical reports whether the given path, as seen from inside the root,
// exists and has no symbolic link components.
func IsCanonical(root, path string) bool {
	resolved, err := ResolveInRoot(root, path)
	return err == nil && resolved == filepath.Clean(path)
}
