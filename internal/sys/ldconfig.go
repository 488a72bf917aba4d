// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
)

// DefaultLdconfig is the default executable used for querying the dynamic
// linker cache.
const DefaultLdconfig = "ldconfig"

// Ldconfig queries the dynamic linker cache by running "ldconfig -p".
type Ldconfig struct {
	// Executable is the ldconfig executable to run. If empty,
	// [DefaultLdconfig] is used.
	Executable string
}

// Libraries returns the paths of all shared objects in the dynamic linker
// cache of the given root directory.
//
// The paths are as seen from inside the root. An [ExecError] is returned if
// ldconfig can not be run or fails.
func (l *Ldconfig) Libraries(ctx context.Context, root string) ([]string, error) {
	executable := l.Executable
	if executable == "" {
		executable = DefaultLdconfig
	}

	args := []string{"-p"}
	if filepath.Clean(root) != "/" {
		args = append([]string{"-r", root}, args...)
	}

	var output bytes.Buffer

	err := runCommand(ctx, &output, executable, args...)
	if err != nil {
		return nil, err
	}

	return parseLdconfigOutput(&output), nil
}

// parseLdconfigOutput returns the library paths of an "ldconfig -p" output.
//
// The format of the relevant lines is
//
//	\tlibz.so.1 (libc6) => /usr/lib/libz.so.1
//
// Other lines, like the header and the trailer, are ignored.
func parseLdconfigOutput(output io.Reader) []string {
	var paths []string

	scanner := bufio.NewScanner(output)
	for scanner.Scan() {
		_, path, found := strings.Cut(scanner.Text(), " => ")
		if !found {
			continue
		}

		path = strings.TrimSpace(path)
		if filepath.IsAbs(path) {
			paths = append(paths, path)
		}
	}

	return paths
}
