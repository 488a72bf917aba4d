// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/aibor/t32migrate/internal/migrate"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func testLibDirs() *migrate.LibDirs {
	identity := fakeIdentity{
		"/lib":         1,
		"/usr/lib":     2,
		"/usr/libt32":  3,
		"/opt/foo/lib": 4,
		"/usr/bin":     5,
		"/alias/lib":   2,
	}

	return migrate.NewLibDirs("/", []string{"/usr/lib", "/lib"}, identity.identify)
}

func TestExpandOrigin(t *testing.T) {
	tests := []struct {
		name       string
		searchPath string
		expected   string
	}{
		{
			name:       "plain",
			searchPath: "$ORIGIN/../lib",
			expected:   "/opt/app/bin/../lib",
		},
		{
			name:       "bracketed",
			searchPath: "${ORIGIN}/lib:$ORIGIN",
			expected:   "/opt/app/bin/lib:/opt/app/bin",
		},
		{
			name:       "none",
			searchPath: "/usr/lib",
			expected:   "/usr/lib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := migrate.ExpandOrigin(tt.searchPath, "/opt/app/bin/app")
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestRewriteRunpath(t *testing.T) {
	dirs := testLibDirs()

	tests := []struct {
		name     string
		binary   string
		current  string
		expected string
	}{
		{
			name:     "library directory replaced",
			binary:   "/usr/bin/foo",
			current:  "/usr/lib:/opt/foo/lib",
			expected: "/opt/foo/lib:/libt32:/usr/libt32",
		},
		{
			name:     "empty",
			binary:   "/usr/bin/foo",
			current:  "",
			expected: "/libt32:/usr/libt32",
		},
		{
			name:     "origin in library directory",
			binary:   "/usr/lib/libfoo.so.1",
			current:  "$ORIGIN:${ORIGIN}/foo",
			expected: "/usr/lib/foo:/libt32:/usr/libt32",
		},
		{
			name:     "origin elsewhere",
			binary:   "/usr/bin/foo",
			current:  "$ORIGIN",
			expected: "/usr/bin:/libt32:/usr/libt32",
		},
		{
			name:     "alias of library directory",
			binary:   "/usr/bin/foo",
			current:  "/alias/lib",
			expected: "/libt32:/usr/libt32",
		},
		{
			name:     "shadow directories dropped",
			binary:   "/usr/bin/foo",
			current:  "/opt/foo/lib:/libt32:/usr/libt32",
			expected: "/opt/foo/lib:/libt32:/usr/libt32",
		},
		{
			name:     "empty entries dropped",
			binary:   "/usr/bin/foo",
			current:  "::/opt/foo/lib:",
			expected: "/opt/foo/lib:/libt32:/usr/libt32",
		},
		{
			name:     "unknown entries kept",
			binary:   "/usr/bin/foo",
			current:  "/does/not/exist:relative",
			expected: "/does/not/exist:relative:/libt32:/usr/libt32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := dirs.RewriteRunpath(tt.binary, tt.current)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestRewriteRunpath_Properties(t *testing.T) {
	dirs := testLibDirs()
	shadows := dirs.Shadows()

	entryGen := rapid.SampledFrom([]string{
		"/lib",
		"/usr/lib",
		"/usr/lib/.",
		"/alias/lib",
		"/libt32",
		"/usr/libt32",
		"/opt/foo/lib",
		"/opt/bar/lib",
		"$ORIGIN",
		"${ORIGIN}/../lib",
		"$ORIGIN/plugins",
		"",
	})

	binaryGen := rapid.SampledFrom([]string{
		"/usr/bin/foo",
		"/usr/lib/libfoo.so.1",
		"/opt/foo/bin/foo",
	})

	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOf(entryGen).Draw(t, "entries")
		binary := binaryGen.Draw(t, "binary")

		current := strings.Join(entries, ":")
		actual := strings.Split(dirs.RewriteRunpath(binary, current), ":")

		assert.NotContains(t, strings.Join(actual, ":"), "ORIGIN",
			"origin tokens must be expanded")

		kept := actual[:len(actual)-len(shadows)]
		assert.Equal(t, shadows, actual[len(actual)-len(shadows):],
			"shadow directories must be appended in order")

		for _, entry := range kept {
			assert.NotEmpty(t, entry)
			assert.False(t, dirs.IsLibOrShadow(entry),
				"%s must have been removed", entry)
		}

		if binary == "/usr/bin/foo" && slices.Contains(entries, "$ORIGIN") {
			assert.Contains(t, kept, "/usr/bin",
				"origin must be expanded to the binary's directory")
		}

		again := dirs.RewriteRunpath(binary, strings.Join(actual, ":"))
		assert.Equal(t, strings.Join(actual, ":"), again,
			"rewriting must be idempotent")
	})
}
