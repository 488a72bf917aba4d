// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileID identifies a file system object by device and inode number.
//
// Two paths refer to the same object if their FileIDs are equal, regardless
// of symbolic links or bind mounts in between.
type FileID struct {
	Dev uint64
	Ino uint64
}

// Identify returns the [FileID] of the given path. Symbolic links are
// followed.
func Identify(path string) (FileID, error) {
	var stat unix.Stat_t

	err := unix.Stat(path, &stat)
	if err != nil {
		return FileID{}, fmt.Errorf("stat %s: %w", path, err)
	}

	//nolint:unconvert
	return FileID{
		Dev: uint64(stat.Dev),
		Ino: uint64(stat.Ino),
	}, nil
}
