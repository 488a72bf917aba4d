// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package migrate

import (
	"maps"
	"path/filepath"
	"slices"
)

// RunpathChange is a binary that gets a new search path.
type RunpathChange struct {
	// Path of the binary as seen from inside the target root.
	Path string
	// Runpath is the current search path of the binary.
	Runpath string
	// HasRunpath is false if the binary has no search path at all.
	HasRunpath bool
}

// Defect is a binary that can not be handled automatically.
type Defect struct {
	Path string
	Err  error
}

// Plan is the set of changes required for a migration.
//
// All paths are as seen from inside the target root.
type Plan struct {
	// ToMove maps library directory paths to the names of the files that are
	// relocated into their shadow directory.
	ToMove map[string][]string
	// ToSetRunpath lists all binaries that get a new search path.
	ToSetRunpath []RunpathChange
	// ToRewriteSymlink maps paths of symbolic links to their new target.
	ToRewriteSymlink map[string]string
	// Defects lists binaries that are left unchanged because of unexpected
	// properties.
	Defects []Defect

	failed      bool
	seenMove    map[string]struct{}
	seenRunpath map[string]struct{}
}

// NewPlan returns a new empty [Plan].
func NewPlan() *Plan {
	return &Plan{
		ToMove:           make(map[string][]string),
		ToRewriteSymlink: make(map[string]string),
	}
}

// Empty reports whether the plan has no changes.
func (p *Plan) Empty() bool {
	return len(p.ToMove) == 0 &&
		len(p.ToSetRunpath) == 0 &&
		len(p.ToRewriteSymlink) == 0
}

// MoveDirs returns the library directories with files to relocate, sorted by
// path.
func (p *Plan) MoveDirs() []string {
	return slices.Sorted(maps.Keys(p.ToMove))
}

// Failed reports whether applying the plan failed at any point.
func (p *Plan) Failed() bool {
	return p.failed
}

func (p *Plan) markFailed() {
	p.failed = true
}

func (p *Plan) addMove(dir, name string) {
	if !addToSet(&p.seenMove, filepath.Join(dir, name)) {
		return
	}

	p.ToMove[dir] = append(p.ToMove[dir], name)
}

func (p *Plan) addRunpathChange(change RunpathChange) {
	if !addToSet(&p.seenRunpath, change.Path) {
		return
	}

	p.ToSetRunpath = append(p.ToSetRunpath, change)
}

// addToSet adds the key to the set and reports whether it was not present
// before.
func addToSet(set *map[string]struct{}, key string) bool {
	if *set == nil {
		*set = make(map[string]struct{})
	}

	if _, exists := (*set)[key]; exists {
		return false
	}

	(*set)[key] = struct{}{}

	return true
}
