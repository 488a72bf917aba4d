// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the location of the configuration file relative to the host
// root directory.
const ConfigFile = "etc/t32migrate.yaml"

// fileConfig is the content of the configuration file. Unset values keep
// their defaults.
type fileConfig struct {
	Root          string   `yaml:"root"`
	LibDir        string   `yaml:"libdir"`
	Exclude       []string `yaml:"exclude"`
	MoveSO        *bool    `yaml:"move-so"`
	StrictDefects *bool    `yaml:"strict-defects"`
	Patchelf      string   `yaml:"patchelf"`
	Ldconfig      string   `yaml:"ldconfig"`
	Debug         *bool    `yaml:"debug"`
}

// ConfigArgs returns t32migrate arguments from the configuration file. A
// missing file results in no arguments. Unknown keys are an error.
//
// A present exclude list replaces the default list.
func ConfigArgs(fsys fs.FS, file string) ([]string, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err = decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", file, err)
	}

	return cfg.args(), nil
}

func (c *fileConfig) args() []string {
	args := []string{}

	addString := func(name, value string) {
		if value != "" {
			args = append(args, "-"+name+"="+value)
		}
	}

	addBool := func(name string, value *bool) {
		if value != nil {
			args = append(args, "-"+name+"="+strconv.FormatBool(*value))
		}
	}

	addString("root", c.Root)
	addString("libdir", c.LibDir)

	if c.Exclude != nil {
		args = append(args, "-exclude=")
		for _, pkg := range c.Exclude {
			addString("exclude", pkg)
		}
	}

	addBool("move-so", c.MoveSO)
	addBool("strict-defects", c.StrictDefects)
	addString("patchelf", c.Patchelf)
	addString("ldconfig", c.Ldconfig)
	addBool("debug", c.Debug)

	return args
}
