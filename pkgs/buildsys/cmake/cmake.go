// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"context"
	"strconv"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/pkgs/buildsys"
)

// Name is the manifest tag for CMake.
const Name = "cmake"

// CMake drives CMake-based builds.
type CMake struct {
	x         proc.Executor
	bin       string
	jobs      int
	generator string
	buildType string
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// Option configures CMake.
type Option func(*CMake)

// WithBinary sets the cmake executable.
func WithBinary(path string) Option {
	return func(c *CMake) { c.bin = path }
}

// WithJobs sets the parallelism hint for Build.
func WithJobs(n int) Option {
	return func(c *CMake) { c.jobs = n }
}

// WithGenerator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func WithGenerator(name string) Option {
	return func(c *CMake) { c.generator = name }
}

// WithBuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func WithBuildType(name string) Option {
	return func(c *CMake) { c.buildType = name }
}

// New returns a CMake running its commands through x.
func New(x proc.Executor, opts ...Option) *CMake {
	c := &CMake{x: x, bin: "cmake", jobs: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CMake) Name() string { return Name }

// Configure runs `cmake <src> -D<KEY>=<VAL>...` in build.
func (c *CMake) Configure(ctx context.Context, src, build fspath.Path, conf *buildsys.Config) error {
	args := []string{src.String()}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	c.Defines(conf).Each(func(k, v string) {
		args = append(args, "-D"+k+"="+v)
	})
	return c.run(ctx, build, "configure", args...)
}

// Defines renders conf as the definitions passed to configure,
// in the order they appear on the command line.
func (c *CMake) Defines(conf *buildsys.Config) *buildsys.Defines {
	d := buildsys.NewDefines()
	if conf == nil {
		conf = &buildsys.Config{}
	}
	if !conf.Prefix.IsZero() {
		d.Set("CMAKE_INSTALL_PREFIX", conf.Prefix.String())
		d.Set("CMAKE_PREFIX_PATH", conf.Prefix.String())
	}
	if !conf.IncludeDir.IsZero() {
		d.Set("CMAKE_INCLUDE_PATH", conf.IncludeDir.String())
	}
	if !conf.LibDir.IsZero() {
		d.Set("CMAKE_LIBRARY_PATH", conf.LibDir.String())
	}
	if c.buildType != "" {
		d.Set("CMAKE_BUILD_TYPE", c.buildType)
	}
	conf.Defines.Each(func(k, v string) {
		d.Set(k, v)
	})
	return d
}

// Build runs `cmake --build . -j <N>` in build.
func (c *CMake) Build(ctx context.Context, build fspath.Path) error {
	args := []string{"--build", ".", "-j", strconv.Itoa(c.jobs)}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.run(ctx, build, "build", args...)
}

// Install runs `cmake --install .` in build.
func (c *CMake) Install(ctx context.Context, build fspath.Path) error {
	args := []string{"--install", "."}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.run(ctx, build, "install", args...)
}

func (c *CMake) run(ctx context.Context, dir fspath.Path, verb string, args ...string) error {
	_, err := c.x.Run(ctx, &proc.Command{
		Name: c.bin,
		Args: args,
		Dir:  dir,
		Tag:  "cmake " + verb + " " + dir.Base(),
	})
	return err
}
