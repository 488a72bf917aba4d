// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/t32migrate/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInRoot(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "usr", "lib"), 0o755))
	require.NoError(t, os.Symlink("usr/lib", filepath.Join(root, "lib")))
	require.NoError(t, os.Symlink("/", filepath.Join(root, "host")))

	tests := []struct {
		name        string
		path        string
		expected    string
		expectedErr error
	}{
		{
			name:     "real directory",
			path:     "/usr/lib",
			expected: "/usr/lib",
		},
		{
			name:     "unclean path",
			path:     "/usr/../usr/lib/",
			expected: "/usr/lib",
		},
		{
			name:     "symlinked directory",
			path:     "/lib",
			expected: "/usr/lib",
		},
		{
			name:     "relative through symlink",
			path:     "/lib/../lib",
			expected: "/usr/lib",
		},
		{
			name:        "missing",
			path:        "/usr/lib64",
			expectedErr: fs.ErrNotExist,
		},
		{
			name:        "outside root",
			path:        "/host",
			expectedErr: sys.ErrOutsideRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := sys.ResolveInRoot(root, tt.path)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, resolved)
		})
	}
}

func TestIsCanonical(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "usr", "lib"), 0o755))
	require.NoError(t, os.Symlink("usr/lib", filepath.Join(root, "lib")))

	assert.True(t, sys.IsCanonical(root, "/usr/lib"))
	assert.True(t, sys.IsCanonical(root, "/usr/lib/"))
	assert.False(t, sys.IsCanonical(root, "/lib"))
	assert.False(t, sys.IsCanonical(root, "/usr/lib64"))
}
