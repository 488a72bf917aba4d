// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrSkipELF is wrapped by all errors of [InspectELF] that indicate the
	// file is not subject to migration. This includes files that are not ELF
	// files at all, files that vanished and files that cannot be read.
	ErrSkipELF = errors.New("skip ELF file")

	// ErrNotELF32 is returned if an ELF file is not of the 32-bit class.
	ErrNotELF32 = errors.New("not a 32-bit ELF file")

	// ErrNotDynamic is returned if an ELF file has no dynamic section, so it
	// is statically linked.
	ErrNotDynamic = errors.New("no dynamic section in ELF file")

	// ErrConflictingSearchPaths is returned if an ELF file carries both,
	// DT_RPATH and DT_RUNPATH.
	ErrConflictingSearchPaths = errors.New("both DT_RPATH and DT_RUNPATH present")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrOutsideRoot is returned if a path resolves to a location outside of
	// the target root.
	ErrOutsideRoot = errors.New("path outside of root")

	// ErrNotExecutable is returned if a required executable is not present or
	// cannot be executed.
	ErrNotExecutable = errors.New("not executable")
)
