// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/aibor/t32migrate/internal/migrate"
	"github.com/aibor/t32migrate/internal/sys"
)

const (
	name = "t32migrate"

	defaultRoot    = "/"
	defaultExclude = "sys-libs/glibc"

	usageMessage = `Usage of 't32migrate':
    t32migrate [flags...]

Relocates libraries built for the old 32-bit time ABI into shadow directories
next to the library directories (e.g. /usr/lib -> /usr/libt32) and sets the
search path of all old binaries accordingly, so packages can be rebuilt for
the 64-bit time ABI one by one.

Review the actions first:
	t32migrate -pretend

Migrate a system mounted at /mnt/gentoo:
	t32migrate -root /mnt/gentoo

All t32migrate flags can also be provided via environment variable
T32MIGRATE_ARGS:
	T32MIGRATE_ARGS="-debug" t32migrate -pretend
`
)

type flags struct {
	Root          FilePath
	LibDirName    string
	Exclude       StringList
	Pretend       bool
	MoveSO        bool
	StrictDefects bool
	Patchelf      string
	Ldconfig      string
	Debug         bool
	Version       bool
}

func newFlags() *flags {
	return &flags{
		Root:       defaultRoot,
		LibDirName: migrate.DefaultLibDirName,
		Exclude:    StringList{defaultExclude},
		Patchelf:   sys.DefaultPatchelf,
		Ldconfig:   sys.DefaultLdconfig,
	}
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags()
	flagSet := flags.flagSet(output)

	err := flagSet.Parse(args)
	if err != nil {
		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. No further
	// validation is necessary.
	if flags.Version {
		return flags, nil
	}

	if flagSet.NArg() > 0 {
		return nil, fail(flagSet, "unexpected positional arguments", nil)
	}

	if flags.LibDirName == "" {
		return nil, fail(flagSet, "library directory name must not be empty", nil)
	}

	return flags, nil
}

func (f *flags) flagSet(output io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.BoolVar(
		&f.Pretend,
		"pretend",
		f.Pretend,
		"only print what would be done",
	)

	flagSet.BoolVar(
		&f.MoveSO,
		"move-so",
		f.MoveSO,
		"move shared objects instead of copying them. Binaries referring to "+
			"them by absolute path will break",
	)

	flagSet.Var(
		&f.Root,
		"root",
		"root directory of the system to migrate",
	)

	flagSet.StringVar(
		&f.LibDirName,
		"libdir",
		f.LibDirName,
		"name of the library directories to migrate",
	)

	flagSet.Var(
		&f.Exclude,
		"exclude",
		"package (category/name) that is not migrated. Flag may be used more "+
			"than once. Empty value clears the list",
	)

	flagSet.BoolVar(
		&f.StrictDefects,
		"strict-defects",
		f.StrictDefects,
		"abort if any binary has both DT_RPATH and DT_RUNPATH instead of "+
			"leaving it unchanged",
	)

	flagSet.StringVar(
		&f.Patchelf,
		"patchelf",
		f.Patchelf,
		"patchelf binary to use",
	)

	flagSet.StringVar(
		&f.Ldconfig,
		"ldconfig",
		f.Ldconfig,
		"ldconfig binary to use",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	return flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
