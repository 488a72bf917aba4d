// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"fmt"
	"strings"
)

// ELFInfo describes the dynamic linking properties of a 32-bit ELF file.
type ELFInfo struct {
	// Runpath is the value of the DT_RUNPATH or DT_RPATH entry, whichever is
	// present.
	Runpath string
	// HasRunpath is true if any of DT_RUNPATH or DT_RPATH is present, even
	// if its value is empty.
	HasRunpath bool
	// HasNeeded is true if the file has at least one DT_NEEDED entry.
	HasNeeded bool
}

// NeedsRunpath reports whether the file should get a new search path. Files
// that neither have a search path nor any dependencies never resolved shared
// objects via search paths and are left alone.
func (i ELFInfo) NeedsRunpath() bool {
	return i.Runpath != "" || i.HasNeeded
}

// InspectELF reads the dynamic linking information of the file at the given
// path.
//
// Only dynamically linked 32-bit ELF files are inspected. For any other file
// an error wrapping [ErrSkipELF] is returned. This includes files that can not
// be opened, e.g. because they vanished in the meantime. Callers are expected
// to skip these files silently.
//
// A [ConflictingSearchPathError] is returned if the file has both DT_RPATH
// and DT_RUNPATH entries.
func InspectELF(path string) (ELFInfo, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		return ELFInfo{}, fmt.Errorf("%w: %w", ErrSkipELF, err)
	}
	defer elfFile.Close()

	if elfFile.Class != elf.ELFCLASS32 {
		return ELFInfo{}, fmt.Errorf("%w: %w: %s", ErrSkipELF, ErrNotELF32, elfFile.Class)
	}

	if elfFile.SectionByType(elf.SHT_DYNAMIC) == nil {
		return ELFInfo{}, fmt.Errorf("%w: %w", ErrSkipELF, ErrNotDynamic)
	}

	rpath, err := elfFile.DynString(elf.DT_RPATH)
	if err != nil {
		return ELFInfo{}, fmt.Errorf("%w: read rpath: %w", ErrSkipELF, err)
	}

	runpath, err := elfFile.DynString(elf.DT_RUNPATH)
	if err != nil {
		return ELFInfo{}, fmt.Errorf("%w: read runpath: %w", ErrSkipELF, err)
	}

	needed, err := elfFile.ImportedLibraries()
	if err != nil {
		return ELFInfo{}, fmt.Errorf("%w: read needed: %w", ErrSkipELF, err)
	}

	info := ELFInfo{
		HasNeeded: len(needed) > 0,
	}

	switch {
	case len(rpath) > 0 && len(runpath) > 0:
		return ELFInfo{}, &ConflictingSearchPathError{
			Path:    path,
			Rpath:   joinSearchPath(rpath),
			Runpath: joinSearchPath(runpath),
		}
	case len(runpath) > 0:
		info.Runpath = joinSearchPath(runpath)
		info.HasRunpath = true
	case len(rpath) > 0:
		info.Runpath = joinSearchPath(rpath)
		info.HasRunpath = true
	}

	return info, nil
}

// joinSearchPath joins multiple entries of the same tag. The dynamic linker
// only uses the first one, but there is no harm in keeping all directories.
func joinSearchPath(values []string) string {
	return strings.Join(values, ":")
}
