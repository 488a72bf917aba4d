// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "context"

// DefaultPatchelf is the default executable used for patching ELF files.
const DefaultPatchelf = "patchelf"

// Patchelf rewrites dynamic section entries of ELF files by running the
// patchelf tool.
type Patchelf struct {
	// Executable is the patchelf executable to run. If empty,
	// [DefaultPatchelf] is used.
	Executable string
}

// SetRunpath sets the search path of the ELF file at the given path.
//
// An existing DT_RPATH entry is replaced, otherwise DT_RUNPATH is set.
func (p *Patchelf) SetRunpath(ctx context.Context, path, runpath string) error {
	executable := p.Executable
	if executable == "" {
		executable = DefaultPatchelf
	}

	return runCommand(ctx, nil, executable, "--set-rpath", runpath, path)
}
