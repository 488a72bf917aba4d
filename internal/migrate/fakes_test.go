// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate_test

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/t32migrate/internal/migrate"
	"github.com/aibor/t32migrate/internal/sys"
)

// fakeIdentity identifies paths by a static map. Paths mapping to the same
// number are considered the same directory. Unknown paths do not exist.
type fakeIdentity map[string]uint64

func (f fakeIdentity) identify(path string) (sys.FileID, error) {
	ino, exists := f[filepath.Clean(path)]
	if !exists {
		return sys.FileID{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}

	return sys.FileID{Dev: 1, Ino: ino}, nil
}

type fakeLinkerCache struct {
	libs []string
	err  error
}

func (f *fakeLinkerCache) Libraries(context.Context, string) ([]string, error) {
	return f.libs, f.err
}

type fakePackageDB struct {
	contents map[string][]migrate.Entry
	err      error
}

func (f *fakePackageDB) Packages(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	var pkgs []string
	for pkg := range f.contents {
		pkgs = append(pkgs, pkg)
	}

	return pkgs, nil
}

func (f *fakePackageDB) Contents(_ context.Context, pkg string) ([]migrate.Entry, error) {
	return f.contents[pkg], nil
}

// recorder records all calls of the [migrate.Patcher] and [migrate.FileOps]
// methods. Calls fail, if their first path argument contains any of the
// failOn strings.
type recorder struct {
	calls  []string
	failOn []string
}

func (r *recorder) record(args ...string) error {
	call := strings.Join(args, " ")
	r.calls = append(r.calls, call)

	if slices.ContainsFunc(r.failOn, func(s string) bool {
		return strings.Contains(call, s)
	}) {
		return fmt.Errorf("fake failure: %s", call)
	}

	return nil
}

func (r *recorder) SetRunpath(_ context.Context, path, runpath string) error {
	return r.record("patch", path, runpath)
}

func (r *recorder) CopyFile(_ context.Context, src, dst string) error {
	return r.record("copyfile", src, dst)
}

func (r *recorder) Replace(_ context.Context, src, dst string) error {
	return r.record("replace", src, dst)
}

func (r *recorder) Remove(_ context.Context, path string) error {
	return r.record("remove", path)
}

func (r *recorder) MkdirAll(_ context.Context, dir string) error {
	return r.record("mkdir", dir)
}

func (r *recorder) CopyInto(_ context.Context, dir string, files ...string) error {
	return r.record(append([]string{"copy", dir}, files...)...)
}

func (r *recorder) MoveInto(_ context.Context, dir string, files ...string) error {
	return r.record(append([]string{"move", dir}, files...)...)
}

func (r *recorder) ForceSymlink(_ context.Context, target, link string) error {
	return r.record("symlink", target, link)
}
