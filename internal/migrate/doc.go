// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package migrate relocates shared objects built for the 32-bit time ABI
// ("time32") into shadow directories and rewrites the search paths of all
// dynamically linked 32-bit binaries, so they keep finding them once the
// primary library directories are repopulated with libraries built for the
// 64-bit time ABI.
//
// A migration is done in three steps. [ResolveLibDirs] determines the library
// directories known to the dynamic linker and their shadow directories. A
// [Planner] walks the package database and produces a [Plan]. An [Executor]
// either prints the plan or applies it.
//
// A shadow directory is a sibling of its library directory with the suffix
// "t32", e.g. "/usr/libt32" for "/usr/lib".
package migrate
