// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb

import "fmt"

// ParseError is returned if a CONTENTS file is malformed.
type ParseError struct {
	Package string
	Line    int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", e.Package, e.Line, e.Err)
}

// Is returns true if the other error is [ErrInvalidLine].
func (*ParseError) Is(other error) bool {
	return other == ErrInvalidLine
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
