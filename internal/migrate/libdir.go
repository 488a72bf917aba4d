// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/t32migrate/internal/sys"
)

const (
	// DefaultLibDirName is the name of library directories on 32-bit
	// targets.
	DefaultLibDirName = "lib"

	shadowSuffix = "t32"
)

// LinkerCache provides the libraries known to the dynamic linker.
type LinkerCache interface {
	// Libraries returns the paths of all libraries in the dynamic linker
	// cache of the given root. Paths are as seen from inside the root.
	Libraries(ctx context.Context, root string) ([]string, error)
}

// IdentifyFunc returns the [sys.FileID] of the given host path.
type IdentifyFunc func(path string) (sys.FileID, error)

// LibDir is a library directory known to the dynamic linker.
type LibDir struct {
	// Path of the directory as seen from inside the target root.
	Path string
	// Shadow is the sibling directory the old libraries are relocated to.
	Shadow string
}

// ShadowDir returns the shadow directory for the given library directory.
func ShadowDir(dir string) string {
	dir = filepath.Clean(dir)
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+shadowSuffix)
}

// LibDirs is the ordered set of library directories of a target root.
//
// All comparisons of directories are done by device and inode number, so
// symbolic links and bind mounts are taken into account. Only if any of both
// paths can not be identified, e.g. because it does not exist (yet), the
// cleaned path strings are compared.
type LibDirs struct {
	root     string
	dirs     []LibDir
	identify IdentifyFunc
}

// NewLibDirs creates a new [LibDirs] for the given library directory paths.
//
// The paths are sorted and deduplicated. Paths identifying the same directory
// are only added once. The one without symbolic link components wins, so the
// shadow directory is created next to the real directory. If none or all of
// them are such, the first one in lexical order wins. If identify is nil,
// [sys.Identify] is used.
func NewLibDirs(root string, paths []string, identify IdentifyFunc) *LibDirs {
	if identify == nil {
		identify = sys.Identify
	}

	libDirs := &LibDirs{
		root:     root,
		identify: identify,
	}

	cleaned := make([]string, 0, len(paths))
	for _, path := range paths {
		cleaned = append(cleaned, filepath.Clean(path))
	}

	slices.Sort(cleaned)

	for _, path := range slices.Compact(cleaned) {
		libDir := LibDir{
			Path:   path,
			Shadow: ShadowDir(path),
		}

		idx := slices.IndexFunc(libDirs.dirs, func(dir LibDir) bool {
			return libDirs.Same(path, dir.Path)
		})
		if idx < 0 {
			libDirs.dirs = append(libDirs.dirs, libDir)
			continue
		}

		kept, skipped := libDirs.dirs[idx].Path, path
		if !sys.IsCanonical(root, kept) && sys.IsCanonical(root, path) {
			libDirs.dirs[idx] = libDir
			kept, skipped = path, kept
		}

		slog.Debug("Skip duplicate library directory",
			slog.String("path", skipped),
			slog.String("same_as", kept))
	}

	slices.SortFunc(libDirs.dirs, func(a, b LibDir) int {
		return strings.Compare(a.Path, b.Path)
	})

	return libDirs
}

// ResolveLibDirs queries the dynamic linker cache of the given root and
// returns the directories named libDirName the libraries are located in.
//
// It returns an error wrapping [ErrLinkerCache] if the cache can not be
// queried and [ErrNoLibDirs] if no matching directory is found.
func ResolveLibDirs(
	ctx context.Context,
	cache LinkerCache,
	root string,
	libDirName string,
	identify IdentifyFunc,
) (*LibDirs, error) {
	libs, err := cache.Libraries(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLinkerCache, err)
	}

	var paths []string

	for _, lib := range libs {
		dir := filepath.Dir(filepath.Clean(lib))
		if filepath.Base(dir) == libDirName {
			paths = append(paths, dir)
		}
	}

	libDirs := NewLibDirs(root, paths, identify)
	if libDirs.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLibDirs, libDirName)
	}

	for _, dir := range libDirs.dirs {
		slog.Debug("Found library directory",
			slog.String("path", dir.Path),
			slog.String("shadow", dir.Shadow))
	}

	return libDirs, nil
}

// Root returns the target root directory.
func (d *LibDirs) Root() string {
	return d.root
}

// Len returns the number of library directories.
func (d *LibDirs) Len() int {
	return len(d.dirs)
}

// All returns all library directories in order.
func (d *LibDirs) All() []LibDir {
	return slices.Clone(d.dirs)
}

// Shadows returns the shadow directories of all library directories in order.
func (d *LibDirs) Shadows() []string {
	shadows := make([]string, 0, len(d.dirs))
	for _, dir := range d.dirs {
		shadows = append(shadows, dir.Shadow)
	}

	return shadows
}

// Get returns the library directory with exactly the given path.
func (d *LibDirs) Get(path string) (LibDir, bool) {
	idx := slices.IndexFunc(d.dirs, func(dir LibDir) bool {
		return dir.Path == path
	})
	if idx < 0 {
		return LibDir{}, false
	}

	return d.dirs[idx], true
}

// Lookup returns the library directory the given path identifies.
func (d *LibDirs) Lookup(path string) (LibDir, bool) {
	for _, dir := range d.dirs {
		if d.Same(path, dir.Path) {
			return dir, true
		}
	}

	return LibDir{}, false
}

// IsLibOrShadow reports whether the given path identifies any library
// directory or any shadow directory.
func (d *LibDirs) IsLibOrShadow(path string) bool {
	for _, dir := range d.dirs {
		if d.Same(path, dir.Path) || d.Same(path, dir.Shadow) {
			return true
		}
	}

	return false
}

// Same reports whether both paths, as seen from inside the root, refer to the
// same directory.
func (d *LibDirs) Same(a, b string) bool {
	idA, errA := d.identify(sys.InRoot(d.root, a))
	idB, errB := d.identify(sys.InRoot(d.root, b))

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return idA == idB
}
