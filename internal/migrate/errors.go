// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import "errors"

var (
	// ErrLinkerCache is returned if the dynamic linker cache can not be
	// queried.
	ErrLinkerCache = errors.New("linker cache query failed")

	// ErrNoLibDirs is returned if the dynamic linker cache does not contain
	// any library in a directory with the requested name.
	ErrNoLibDirs = errors.New("no library directories found")

	// ErrPackageDB is returned if the package database can not be read.
	ErrPackageDB = errors.New("package database read failed")

	// ErrMigrationFailed is returned if any step of applying a [Plan] failed.
	ErrMigrationFailed = errors.New("migration failed")
)
