// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"debug/elf"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/t32migrate/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectELF(t *testing.T) {
	tests := []struct {
		name          string
		spec          sys.TestELF
		expected      sys.ELFInfo
		expectedErr   error
		needsRunpath  bool
		skipWriteFile bool
	}{
		{
			name: "runpath and needed",
			spec: sys.TestELF{
				Needed:  []string{"libc.so.6"},
				Runpath: []string{"/usr/lib:/opt/foo/lib"},
			},
			expected: sys.ELFInfo{
				Runpath:    "/usr/lib:/opt/foo/lib",
				HasRunpath: true,
				HasNeeded:  true,
			},
			needsRunpath: true,
		},
		{
			name: "legacy rpath",
			spec: sys.TestELF{
				Rpath: []string{"$ORIGIN/../lib"},
			},
			expected: sys.ELFInfo{
				Runpath:    "$ORIGIN/../lib",
				HasRunpath: true,
			},
			needsRunpath: true,
		},
		{
			name: "needed only",
			spec: sys.TestELF{
				Needed: []string{"libz.so.1", "libc.so.6"},
			},
			expected: sys.ELFInfo{
				HasNeeded: true,
			},
			needsRunpath: true,
		},
		{
			name: "empty runpath",
			spec: sys.TestELF{
				Runpath: []string{""},
			},
			expected: sys.ELFInfo{
				HasRunpath: true,
			},
		},
		{
			name:     "nothing",
			spec:     sys.TestELF{},
			expected: sys.ELFInfo{},
		},
		{
			name: "rpath and runpath",
			spec: sys.TestELF{
				Rpath:   []string{"/a"},
				Runpath: []string{"/b"},
			},
			expectedErr: sys.ErrConflictingSearchPaths,
		},
		{
			name: "64 bit",
			spec: sys.TestELF{
				Class: elf.ELFCLASS64,
			},
			expectedErr: sys.ErrNotELF32,
		},
		{
			name: "static",
			spec: sys.TestELF{
				Static: true,
				Needed: []string{"libc.so.6"},
			},
			expectedErr: sys.ErrNotDynamic,
		},
		{
			name:          "vanished",
			skipWriteFile: true,
			expectedErr:   sys.ErrSkipELF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file")
			if !tt.skipWriteFile {
				sys.WriteTestELF(t, path, tt.spec)
			}

			info, err := sys.InspectELF(path)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, info)
			assert.Equal(t, tt.needsRunpath, info.NeedsRunpath())
		})
	}
}

func TestInspectELF_Skip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o755))

	_, err := sys.InspectELF(path)
	require.ErrorIs(t, err, sys.ErrSkipELF)
}

func TestInspectELF_DefectIsNotSkip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	sys.WriteTestELF(t, path, sys.TestELF{
		Rpath:   []string{"/a"},
		Runpath: []string{"/b"},
	})

	_, err := sys.InspectELF(path)
	require.NotErrorIs(t, err, sys.ErrSkipELF)

	var defect *sys.ConflictingSearchPathError
	require.ErrorAs(t, err, &defect)
	assert.Equal(t, path, defect.Path)
	assert.Equal(t, "/a", defect.Rpath)
	assert.Equal(t, "/b", defect.Runpath)
}

func TestInspectELF_SkipWrapsNotELF32(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	sys.WriteTestELF(t, path, sys.TestELF{Class: elf.ELFCLASS64})

	_, err := sys.InspectELF(path)
	require.ErrorIs(t, err, sys.ErrSkipELF)
}
