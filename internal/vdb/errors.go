// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb

import "errors"

var (
	// ErrInvalidLine is returned if a line of a CONTENTS file can not be
	// parsed.
	ErrInvalidLine = errors.New("invalid line")

	// ErrInvalidPackage is returned if a package key is not of the form
	// category/name-version.
	ErrInvalidPackage = errors.New("invalid package")
)
