// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb

import (
	"regexp"
	"slices"

	"github.com/aibor/t32migrate/internal/migrate"
)

// versionPattern matches Portage versions including suffixes and revision,
// like 2.39, 1.2.3b_rc1_p2 or 9999-r3.
var versionPattern = regexp.MustCompile(
	`-[0-9]+(\.[0-9]+)*[a-z]?(_(alpha|beta|pre|rc|p)[0-9]*)*(-r[0-9]+)?$`,
)

// PackageName returns the package key without version.
func PackageName(pkg string) string {
	loc := versionPattern.FindStringIndex(pkg)
	if loc == nil {
		return pkg
	}

	return pkg[:loc[0]]
}

// PackageNameMatcher returns a [migrate.PackageMatcher] that matches packages
// by name regardless of their version. Names are of the form category/name.
func PackageNameMatcher(names ...string) migrate.PackageMatcher {
	return func(pkg string) bool {
		return slices.Contains(names, PackageName(pkg))
	}
}
