// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/aibor/t32migrate/internal/migrate"
	"github.com/aibor/t32migrate/internal/sys"
	"github.com/aibor/t32migrate/internal/vdb"
)

// Exit codes of [Run].
const (
	ExitOK      = 0
	ExitFailure = 1
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// ConfigFS is the host file system [ConfigFile] is read from. If nil,
	// the host root directory is used.
	ConfigFS fs.FS
}

func checkExecutables(flags *flags) error {
	err := sys.CheckExecutable(flags.Ldconfig)
	if err != nil {
		return fmt.Errorf("ldconfig: %w", err)
	}

	// Patchelf is not needed for pretending, so do not require it to be
	// installed for reviewing the plan.
	if flags.Pretend {
		return nil
	}

	err = sys.CheckExecutable(flags.Patchelf)
	if err != nil {
		return fmt.Errorf("patchelf: %w", err)
	}

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	err := checkExecutables(flags)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	root := string(flags.Root)

	libDirs, err := migrate.ResolveLibDirs(
		ctx,
		&sys.Ldconfig{Executable: flags.Ldconfig},
		root,
		flags.LibDirName,
		sys.Identify,
	)
	if err != nil {
		return fmt.Errorf("resolve library directories: %w", err)
	}

	planner := migrate.Planner{
		DB:            vdb.Open(root),
		Dirs:          libDirs,
		Exclude:       vdb.PackageNameMatcher(flags.Exclude...),
		StrictDefects: flags.StrictDefects,
	}

	plan, err := planner.Plan(ctx)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	executor := migrate.Executor{
		Dirs:              libDirs,
		Patcher:           &sys.Patchelf{Executable: flags.Patchelf},
		Files:             sys.FileOps{},
		Output:            cfg.Stdout,
		Pretend:           flags.Pretend,
		MoveSharedObjects: flags.MoveSO,
	}

	err = executor.Execute(ctx, plan)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return ExitOK
	}

	// Parsing already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return ExitFailure
}

func handleRunError(err error) int {
	// Failures of single actions have been logged already.
	if errors.Is(err, migrate.ErrMigrationFailed) {
		slog.Error("Migration incomplete, fix the errors above and run again",
			slog.Any("error", err))

		return ExitFailure
	}

	slog.Error(err.Error())

	return ExitFailure
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	configFS := cfg.ConfigFS
	if configFS == nil {
		configFS = os.DirFS("/")
	}

	configArgs, err := ConfigArgs(configFS, ConfigFile)
	if err != nil {
		slog.Error(err.Error())
		return ExitFailure
	}

	flags, err := parseArgs(append(configArgs, MergedArgs(args)...), cfg.Stderr)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return ExitFailure
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return ExitOK
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return ExitOK
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
