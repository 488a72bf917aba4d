// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"testing"

	"github.com/aibor/t32migrate/internal/sys"
	"github.com/stretchr/testify/assert"
)

func TestExecErrorIs(t *testing.T) {
	//nolint:testifylint
	assert.ErrorIs(t, error(&sys.ExecError{}), &sys.ExecError{})
	assert.NotErrorIs(t, assert.AnError, &sys.ExecError{})
}

func TestConflictingSearchPathErrorIs(t *testing.T) {
	err := error(&sys.ConflictingSearchPathError{Path: "/usr/bin/foo"})

	assert.ErrorIs(t, err, &sys.ConflictingSearchPathError{})
	assert.ErrorIs(t, err, sys.ErrConflictingSearchPaths)
	assert.NotErrorIs(t, err, sys.ErrSkipELF)
	assert.ErrorContains(t, err, "/usr/bin/foo: both DT_RPATH and DT_RUNPATH present")
}
