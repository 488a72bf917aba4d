// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"os"
	"strings"
)

// EnvArgsVar is the environment variable additional arguments are read from.
const EnvArgsVar = "T32MIGRATE_ARGS"

// EnvArgs returns t32migrate arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(EnvArgsVar))
}

// MergedArgs returns the arguments from the environment followed by the
// given command line arguments, so the latter take precedence. Arguments from
// the configuration file are supposed to be put in front of them.
func MergedArgs(args []string) []string {
	return append(EnvArgs(), args...)
}
