// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb_test

import (
	"testing"

	"github.com/aibor/t32migrate/internal/vdb"
	"github.com/stretchr/testify/assert"
)

func TestPackageName(t *testing.T) {
	tests := []struct {
		pkg      string
		expected string
	}{
		{"sys-libs/glibc-2.41", "sys-libs/glibc"},
		{"sys-libs/glibc-2.41-r2", "sys-libs/glibc"},
		{"dev-libs/foo-1.2.3b_rc1_p2", "dev-libs/foo"},
		{"dev-vcs/git-9999", "dev-vcs/git"},
		{"media-libs/x264-0.0.20240314", "media-libs/x264"},
		{"dev-libs/libfoo-bar-2", "dev-libs/libfoo-bar"},
		{"sys-libs/glibc", "sys-libs/glibc"},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			assert.Equal(t, tt.expected, vdb.PackageName(tt.pkg))
		})
	}
}

func TestPackageNameMatcher(t *testing.T) {
	matcher := vdb.PackageNameMatcher("sys-libs/glibc", "sys-libs/musl")

	assert.True(t, matcher("sys-libs/glibc-2.41-r2"))
	assert.True(t, matcher("sys-libs/musl-1.2.5"))
	assert.False(t, matcher("sys-libs/glibc-utils-2.41"))
	assert.False(t, matcher("dev-libs/glibc-2.41"))

	assert.False(t, vdb.PackageNameMatcher()("sys-libs/glibc-2.41"))
}
