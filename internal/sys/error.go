// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"strings"
)

// ExecError is returned if an external command failed to run or returned
// with a non-zero exit code.
type ExecError struct {
	Cmd    []string
	Err    error
	Stderr string
}

// Error implements the [error] interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Cmd, " "), e.Err)

	stderr := strings.TrimSpace(e.Stderr)
	if stderr != "" {
		msg += ": " + stderr
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*ExecError) Is(other error) bool {
	_, ok := other.(*ExecError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// ConflictingSearchPathError is returned if an ELF file has both DT_RPATH and
// DT_RUNPATH entries. The dynamic linker ignores DT_RPATH in this case, but it
// is unclear which of both is meant to be the authoritative one, so the file
// must not be changed automatically.
type ConflictingSearchPathError struct {
	Path    string
	Rpath   string
	Runpath string
}

// Error implements the [error] interface.
func (e *ConflictingSearchPathError) Error() string {
	return fmt.Sprintf(
		"%s: %v (rpath %q, runpath %q)",
		e.Path,
		ErrConflictingSearchPaths,
		e.Rpath,
		e.Runpath,
	)
}

// Is implements the [errors.Is] interface.
func (*ConflictingSearchPathError) Is(other error) bool {
	_, ok := other.(*ConflictingSearchPathError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (*ConflictingSearchPathError) Unwrap() error {
	return ErrConflictingSearchPaths
}
