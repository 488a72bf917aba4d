// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vdb reads the database of installed packages as maintained by
// Portage below var/db/pkg.
//
// Each installed package has a directory var/db/pkg/<category>/<name-version>
// with a CONTENTS file listing all files the package installed.
package vdb
