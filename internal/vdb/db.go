// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aibor/t32migrate/internal/migrate"
)

const (
	// Dir is the location of the database relative to the root directory.
	Dir = "var/db/pkg"

	contentsFile = "CONTENTS"

	// Portage prefixes packages that are merged right now.
	mergingPrefix = "-MERGING-"
)

// DB is the package database of a root directory.
//
// It implements [migrate.PackageDB].
type DB struct {
	fsys fs.FS
}

// New returns a [DB] reading from the given file system. The file system's
// root is the root the packages are installed into.
func New(fsys fs.FS) *DB {
	return &DB{fsys: fsys}
}

// Open returns a [DB] for packages installed into the given root directory.
func Open(root string) *DB {
	return New(os.DirFS(root))
}

// Packages returns the keys of all installed packages in the form
// category/name-version.
//
// Packages currently being merged are ignored.
func (db *DB) Packages(ctx context.Context) ([]string, error) {
	categories, err := fs.ReadDir(db.fsys, Dir)
	if err != nil {
		return nil, fmt.Errorf("read package database: %w", err)
	}

	var pkgs []string

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !category.IsDir() {
			continue
		}

		entries, err := fs.ReadDir(db.fsys, path.Join(Dir, category.Name()))
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", category.Name(), err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			pkg := path.Join(category.Name(), entry.Name())

			if strings.HasPrefix(entry.Name(), mergingPrefix) {
				slog.Warn("Ignore package being merged", slog.String("package", pkg))
				continue
			}

			pkgs = append(pkgs, pkg)
		}
	}

	return pkgs, nil
}

// Contents returns the files installed by the given package. Packages
// without CONTENTS file have no files.
func (db *DB) Contents(ctx context.Context, pkg string) ([]migrate.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !fs.ValidPath(pkg) || strings.Count(pkg, "/") != 1 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPackage, pkg)
	}

	file, err := db.fsys.Open(path.Join(Dir, pkg, contentsFile))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Package without contents", slog.String("package", pkg))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("open contents: %w", err)
	}
	defer file.Close()

	return parseContents(pkg, file)
}
