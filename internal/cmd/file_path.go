// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"strings"

	"github.com/aibor/t32migrate/internal/sys"
)

// FilePath is a [flag.Value] for absolute paths. Relative paths are made
// absolute on set.
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

func (f *FilePath) Set(s string) error {
	path, err := sys.AbsolutePath(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*f = FilePath(path)

	return nil
}

// StringList is a [flag.Value] for lists. The flag may be given multiple
// times and each value may be a comma separated list. An empty value clears
// the list, which allows to remove default values.
type StringList []string

func (l *StringList) String() string {
	return strings.Join(*l, ",")
}

func (l *StringList) Set(s string) error {
	if s == "" {
		*l = nil
		return nil
	}

	for e := range strings.SplitSeq(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			*l = append(*l, e)
		}
	}

	return nil
}
