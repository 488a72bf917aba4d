// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/t32migrate/internal/sys"
)

// libPrefix is the name prefix of files that are relocated.
const libPrefix = "lib"

// EntryType is the type of an installed file.
type EntryType int

// Installed file types.
const (
	EntryOther EntryType = iota
	EntryDirectory
	EntryRegular
	EntrySymlink
)

// Entry is a file installed by a package.
type Entry struct {
	// Path as seen from inside the target root.
	Path string
	Type EntryType
}

// PackageDB provides the installed packages and their files.
type PackageDB interface {
	// Packages returns the keys of all installed packages.
	Packages(ctx context.Context) ([]string, error)
	// Contents returns the files installed by the given package.
	Contents(ctx context.Context, pkg string) ([]Entry, error)
}

// PackageMatcher reports whether a package key matches.
type PackageMatcher func(pkg string) bool

// InspectFunc inspects the ELF file at the given host path. It has the same
// semantics as [sys.InspectELF].
type InspectFunc func(path string) (sys.ELFInfo, error)

// Planner builds a [Plan] from the contents of a package database.
type Planner struct {
	DB   PackageDB
	Dirs *LibDirs
	// Inspect is used for inspecting ELF files. If nil, [sys.InspectELF] is
	// used.
	Inspect InspectFunc
	// Exclude matches packages that are not migrated at all. Usually this is
	// the C library itself, as it provides both ABIs.
	Exclude PackageMatcher
	// StrictDefects makes planning fail on any binary that has both DT_RPATH
	// and DT_RUNPATH. By default such binaries are recorded in
	// [Plan.Defects] and left unchanged.
	StrictDefects bool

	// Directories already looked up, nil if not a library directory.
	dirCache map[string]*LibDir
}

// Plan walks all installed files of all not excluded packages and returns
// the resulting [Plan].
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	pkgs, err := p.DB.Packages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackageDB, err)
	}

	slices.Sort(pkgs)

	plan := NewPlan()

	for _, pkg := range pkgs {
		if p.Exclude != nil && p.Exclude(pkg) {
			slog.Debug("Skip excluded package", slog.String("package", pkg))
			continue
		}

		entries, err := p.DB.Contents(ctx, pkg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPackageDB, pkg, err)
		}

		for _, entry := range entries {
			err := p.planEntry(plan, entry)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pkg, err)
			}
		}
	}

	return plan, nil
}

func (p *Planner) planEntry(plan *Plan, entry Entry) error {
	if entry.Type != EntryRegular && entry.Type != EntrySymlink {
		return nil
	}

	dir, name := filepath.Split(entry.Path)
	if strings.HasPrefix(name, libPrefix) {
		libDir, found := p.libDirOf(filepath.Clean(dir))
		if found {
			p.planMove(plan, libDir, filepath.Clean(dir), name)
		}
	}

	if entry.Type == EntryRegular {
		return p.planRunpath(plan, entry.Path)
	}

	return nil
}

func (p *Planner) libDirOf(dir string) (LibDir, bool) {
	if p.dirCache == nil {
		p.dirCache = make(map[string]*LibDir)
	}

	cached, exists := p.dirCache[dir]
	if !exists {
		if libDir, found := p.Dirs.Lookup(dir); found {
			cached = &libDir
		}

		p.dirCache[dir] = cached
	}

	if cached == nil {
		return LibDir{}, false
	}

	return *cached, true
}

// planMove plans the relocation of the file name that is installed in dir,
// which is known to be the library directory libDir.
func (p *Planner) planMove(plan *Plan, libDir LibDir, dir, name string) {
	root := p.Dirs.Root()
	path := filepath.Join(libDir.Path, name)

	info, err := os.Lstat(sys.InRoot(root, path))
	if err != nil {
		slog.Debug("Skip missing file", slog.String("path", path))
		return
	}

	_, err = os.Lstat(sys.InRoot(root, filepath.Join(libDir.Shadow, name)))
	if err == nil {
		slog.Debug("Skip already relocated file", slog.String("path", path))
		return
	}

	if info.Mode().Type() == fs.ModeSymlink {
		target, err := os.Readlink(sys.InRoot(root, path))
		if err != nil {
			slog.Debug("Skip unreadable symlink",
				slog.String("path", path),
				slog.Any("error", err))

			return
		}

		// Relative targets are resolved by the kernel starting at the real
		// directory the link is located in.
		linkDir, err := sys.ResolveInRoot(root, dir)
		if err != nil {
			linkDir = dir
		}

		if newTarget, redirect := p.redirectTarget(linkDir, target); redirect {
			plan.ToRewriteSymlink[path] = newTarget
		}
	}

	plan.addMove(libDir.Path, name)
}

// redirectTarget returns the new target of a symbolic link located in dir
// that points to target. Only targets with a directory part that refers to
// a library directory are redirected into the shadow directory.
func (p *Planner) redirectTarget(dir, target string) (string, bool) {
	targetDir := filepath.Dir(target)
	if targetDir == "." {
		return "", false
	}

	resolvedDir := targetDir
	if !filepath.IsAbs(resolvedDir) {
		resolvedDir = filepath.Join(dir, resolvedDir)
	}

	libDir, found := p.libDirOf(resolvedDir)
	if !found {
		return "", false
	}

	name := filepath.Base(target)

	// Keep the form of the target, if the directory is referred to by its
	// name. Otherwise the link might point somewhere else from inside the
	// shadow directory.
	if filepath.Base(targetDir) == filepath.Base(libDir.Path) {
		shadowName := filepath.Base(libDir.Shadow)
		return filepath.Join(filepath.Dir(targetDir), shadowName, name), true
	}

	return filepath.Join(libDir.Shadow, name), true
}

func (p *Planner) planRunpath(plan *Plan, path string) error {
	inspect := p.Inspect
	if inspect == nil {
		inspect = sys.InspectELF
	}

	info, err := inspect(sys.InRoot(p.Dirs.Root(), path))

	switch {
	case errors.Is(err, sys.ErrSkipELF):
		return nil
	case errors.Is(err, sys.ErrConflictingSearchPaths):
		if p.StrictDefects {
			return err
		}

		slog.Error("Leaving search path of defective binary unchanged",
			slog.String("path", path),
			slog.Any("error", err))

		plan.Defects = append(plan.Defects, Defect{Path: path, Err: err})

		return nil
	case err != nil:
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	if !info.NeedsRunpath() {
		return nil
	}

	if info.HasRunpath && p.Dirs.RewriteRunpath(path, info.Runpath) == info.Runpath {
		slog.Debug("Skip binary with up to date search path",
			slog.String("path", path))

		return nil
	}

	plan.addRunpathChange(RunpathChange{
		Path:       path,
		Runpath:    info.Runpath,
		HasRunpath: info.HasRunpath,
	})

	return nil
}
