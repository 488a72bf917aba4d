// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aibor/t32migrate/internal/sys"
)

// tempSuffix is appended to the path of a binary for the temporary copy that
// is patched.
const tempSuffix = ".t32migrate.tmp"

// Patcher sets the search path of ELF files.
type Patcher interface {
	SetRunpath(ctx context.Context, path, runpath string) error
}

// FileOps provides the file system operations required for applying a
// [Plan]. All paths are host paths.
type FileOps interface {
	// CopyFile copies src to dst preserving all attributes.
	CopyFile(ctx context.Context, src, dst string) error
	// Replace atomically replaces dst with src.
	Replace(ctx context.Context, src, dst string) error
	// Remove removes the file.
	Remove(ctx context.Context, path string) error
	// MkdirAll creates the directory unless it exists.
	MkdirAll(ctx context.Context, dir string) error
	// CopyInto copies the files into the directory preserving all
	// attributes.
	CopyInto(ctx context.Context, dir string, files ...string) error
	// MoveInto moves the files into the directory.
	MoveInto(ctx context.Context, dir string, files ...string) error
	// ForceSymlink creates a symbolic link replacing any existing file.
	ForceSymlink(ctx context.Context, target, link string) error
}

// Executor prints or applies a [Plan].
type Executor struct {
	Dirs    *LibDirs
	Patcher Patcher
	Files   FileOps
	// Output receives a line for each action.
	Output io.Writer
	// Pretend only prints the actions without changing anything.
	Pretend bool
	// MoveSharedObjects moves shared objects instead of copying them. Copied
	// shared objects remain available for binaries that refer to them by
	// absolute path.
	MoveSharedObjects bool
}

// Execute runs all phases of the plan.
//
// Search paths are set first, as the binaries are still at their original
// location. Then the files are relocated and symbolic links redirected.
// Failures of single actions are logged and the phase is continued. If any
// action of a phase failed, the next phase is not started. An error wrapping
// [ErrMigrationFailed] is returned in this case.
func (e *Executor) Execute(ctx context.Context, plan *Plan) error {
	if e.Pretend {
		e.printf("Pretending, no changes are applied\n")
	}

	for _, defect := range plan.Defects {
		e.printf("skip defective %s: %v\n", defect.Path, defect.Err)
	}

	if plan.Empty() {
		e.printf("Nothing to do\n")
		return nil
	}

	e.setRunpaths(ctx, plan)

	if plan.Failed() {
		return fmt.Errorf("set search paths: %w", ErrMigrationFailed)
	}

	e.relocate(ctx, plan)

	if plan.Failed() {
		return fmt.Errorf("relocate files: %w", ErrMigrationFailed)
	}

	if !e.Pretend {
		e.printf("\nMigration done. Once all packages are rebuilt for the " +
			"new ABI, remove these directories:\n")

		for _, shadow := range e.Dirs.Shadows() {
			e.printf("  %s\n", shadow)
		}
	}

	return nil
}

func (e *Executor) printf(format string, a ...any) {
	fmt.Fprintf(e.Output, format, a...)
}

func (e *Executor) hostPath(path string) string {
	return sys.InRoot(e.Dirs.Root(), path)
}

func (e *Executor) fail(plan *Plan, msg, path string, err error) {
	slog.Error(msg, slog.String("path", path), slog.Any("error", err))
	plan.markFailed()
}

func (e *Executor) setRunpaths(ctx context.Context, plan *Plan) {
	for _, change := range plan.ToSetRunpath {
		runpath := e.Dirs.RewriteRunpath(change.Path, change.Runpath)

		current := "(none)"
		if change.HasRunpath {
			current = fmt.Sprintf("%q", change.Runpath)
		}

		e.printf("set runpath %s: %s -> %q\n", change.Path, current, runpath)

		if e.Pretend {
			continue
		}

		err := e.setRunpath(ctx, e.hostPath(change.Path), runpath)
		if err != nil {
			e.fail(plan, "Failed to set search path", change.Path, err)
		}
	}
}

// setRunpath patches a temporary copy of the file and replaces the original
// with it, so the file is never left half patched.
func (e *Executor) setRunpath(ctx context.Context, path, runpath string) error {
	tmp := path + tempSuffix

	err := e.Files.CopyFile(ctx, path, tmp)
	if err != nil {
		e.removeTemp(ctx, tmp)
		return fmt.Errorf("copy: %w", err)
	}

	err = e.Patcher.SetRunpath(ctx, tmp, runpath)
	if err != nil {
		e.removeTemp(ctx, tmp)
		return fmt.Errorf("patch: %w", err)
	}

	err = e.Files.Replace(ctx, tmp, path)
	if err != nil {
		e.removeTemp(ctx, tmp)
		return fmt.Errorf("replace: %w", err)
	}

	return nil
}

func (e *Executor) removeTemp(ctx context.Context, path string) {
	err := e.Files.Remove(ctx, path)
	if err != nil {
		slog.Debug("Remove temporary file",
			slog.String("path", path),
			slog.Any("error", err))
	}
}

func (e *Executor) relocate(ctx context.Context, plan *Plan) {
	for _, dir := range plan.MoveDirs() {
		libDir, found := e.Dirs.Get(dir)
		if !found {
			e.fail(plan, "Unknown library directory", dir, ErrNoLibDirs)
			continue
		}

		e.relocateDir(ctx, plan, libDir, plan.ToMove[dir])
	}
}

func (e *Executor) relocateDir(
	ctx context.Context,
	plan *Plan,
	libDir LibDir,
	names []string,
) {
	shadow := e.hostPath(libDir.Shadow)

	e.printf("mkdir %s\n", libDir.Shadow)

	if !e.Pretend {
		err := e.Files.MkdirAll(ctx, shadow)
		if err != nil {
			e.fail(plan, "Failed to create shadow directory", libDir.Shadow, err)
			return
		}
	}

	copyNames, moveNames := e.partition(names)

	var relocated []string

	for _, batch := range []struct {
		action string
		names  []string
		fn     func(context.Context, string, ...string) error
	}{
		{"copy", copyNames, e.Files.CopyInto},
		{"move", moveNames, e.Files.MoveInto},
	} {
		if len(batch.names) == 0 {
			continue
		}

		e.printf("%s %s -> %s: %s\n",
			batch.action,
			libDir.Path,
			libDir.Shadow,
			strings.Join(batch.names, " "),
		)

		if !e.Pretend {
			files := make([]string, 0, len(batch.names))
			for _, name := range batch.names {
				files = append(files, e.hostPath(filepath.Join(libDir.Path, name)))
			}

			err := batch.fn(ctx, shadow, files...)
			if err != nil {
				e.fail(plan, "Failed to "+batch.action+" files", libDir.Path, err)
				continue
			}
		}

		relocated = append(relocated, batch.names...)
	}

	for _, name := range relocated {
		target, redirect := plan.ToRewriteSymlink[filepath.Join(libDir.Path, name)]
		if !redirect {
			continue
		}

		link := filepath.Join(libDir.Shadow, name)

		e.printf("symlink %s -> %s\n", link, target)

		if e.Pretend {
			continue
		}

		err := e.Files.ForceSymlink(ctx, target, e.hostPath(link))
		if err != nil {
			e.fail(plan, "Failed to redirect symlink", link, err)
		}
	}
}

// partition splits the names into the files that are copied and the files
// that are moved.
func (e *Executor) partition(names []string) ([]string, []string) {
	var copyNames, moveNames []string

	for _, name := range names {
		if !e.MoveSharedObjects && IsSharedObject(name) {
			copyNames = append(copyNames, name)
		} else {
			moveNames = append(moveNames, name)
		}
	}

	return copyNames, moveNames
}

// IsSharedObject reports whether the file name is the one of a shared object,
// with or without version suffix.
func IsSharedObject(name string) bool {
	return strings.HasSuffix(name, ".so") || strings.Contains(name, ".so.")
}
