// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import (
	"path/filepath"
	"strings"
)

const searchPathSeparator = ":"

// originTokens are the spellings of the dynamic string token the dynamic
// linker replaces with the directory of the object.
var originTokens = []string{"${ORIGIN}", "$ORIGIN"}

// ExpandOrigin replaces all origin tokens in the search path with the
// directory of the given binary.
func ExpandOrigin(searchPath, binary string) string {
	origin := filepath.Dir(binary)
	for _, token := range originTokens {
		searchPath = strings.ReplaceAll(searchPath, token, origin)
	}

	return searchPath
}

// RewriteRunpath returns the new search path for the binary at the given path
// with the given current search path.
//
// Origin tokens are expanded unconditionally, as the binary itself might be
// relocated later. Entries referring to any library directory or shadow
// directory are removed. All shadow directories are appended in order. An
// empty current search path results in just the shadow directories.
func (d *LibDirs) RewriteRunpath(binary, current string) string {
	expanded := ExpandOrigin(current, binary)

	var entries []string

	for entry := range strings.SplitSeq(expanded, searchPathSeparator) {
		if entry == "" || d.IsLibOrShadow(entry) {
			continue
		}

		entries = append(entries, entry)
	}

	entries = append(entries, d.Shadows()...)

	return strings.Join(entries, searchPathSeparator)
}
