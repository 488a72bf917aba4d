// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aibor/t32migrate/internal/migrate"
)

const symlinkSeparator = " -> "

// Entry types as written by Portage.
const (
	typeDir  = "dir"
	typeObj  = "obj"
	typeSym  = "sym"
	typeDev  = "dev"
	typeFifo = "fif"
)

// parseContents parses a CONTENTS file. Empty lines are ignored.
func parseContents(pkg string, reader io.Reader) ([]migrate.Entry, error) {
	var (
		entries []migrate.Entry
		lineNo  int
	)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Package: pkg, Line: lineNo, Err: err}
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read contents of %s: %w", pkg, err)
	}

	return entries, nil
}

// parseLine parses a single CONTENTS line.
//
// Paths may contain spaces, so the trailing fields are cut off from the end:
//
//	dir <path>
//	obj <path> <md5> <mtime>
//	sym <path> -> <target> <mtime>
//	dev <path>
//	fif <path>
func parseLine(line string) (migrate.Entry, error) {
	typ, rest, found := strings.Cut(line, " ")
	if !found || rest == "" {
		return migrate.Entry{}, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}

	var (
		entry migrate.Entry
		path  string
		ok    bool
	)

	switch typ {
	case typeDir:
		entry.Type = migrate.EntryDirectory
		path, ok = rest, true
	case typeObj:
		entry.Type = migrate.EntryRegular
		path, ok = cutLastFields(rest, 2)
	case typeSym:
		entry.Type = migrate.EntrySymlink
		path, _, ok = strings.Cut(rest, symlinkSeparator)
	case typeDev, typeFifo:
		entry.Type = migrate.EntryOther
		path, ok = rest, true
	default:
		return migrate.Entry{}, fmt.Errorf("%w: unknown type %q", ErrInvalidLine, typ)
	}

	if !ok || !filepath.IsAbs(path) {
		return migrate.Entry{}, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}

	entry.Path = filepath.Clean(path)

	return entry, nil
}

// cutLastFields removes n space separated fields from the end of s.
func cutLastFields(s string, n int) (string, bool) {
	for range n {
		idx := strings.LastIndexByte(s, ' ')
		if idx < 0 {
			return "", false
		}

		s = s[:idx]
	}

	return s, true
}
