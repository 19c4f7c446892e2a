// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package autotools wraps the configure/make/make install workflow.
package autotools

import (
	"context"
	"strconv"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/pkgs/buildsys"
)

// Name is the manifest tag for Autotools.
const Name = "autotools"

// AutoTools drives configure scripts out of tree.
type AutoTools struct {
	x    proc.Executor
	make string
	jobs int
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// Option configures AutoTools.
type Option func(*AutoTools)

// WithMake sets the make executable.
func WithMake(path string) Option {
	return func(a *AutoTools) { a.make = path }
}

// WithJobs sets the parallelism hint for Build.
func WithJobs(n int) Option {
	return func(a *AutoTools) { a.jobs = n }
}

// New returns an AutoTools running its commands through x.
func New(x proc.Executor, opts ...Option) *AutoTools {
	a := &AutoTools{x: x, make: "make", jobs: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AutoTools) Name() string { return Name }

// Configure runs `<src>/configure --prefix=<prefix> CPPFLAGS=... LDFLAGS=... K=V...` in build.
// Defines are passed as configure variable assignments.
func (a *AutoTools) Configure(ctx context.Context, src, build fspath.Path, conf *buildsys.Config) error {
	if conf == nil {
		conf = &buildsys.Config{}
	}
	var args []string
	if !conf.Prefix.IsZero() {
		args = append(args, "--prefix="+conf.Prefix.String())
	}
	if !conf.IncludeDir.IsZero() {
		args = append(args, "CPPFLAGS=-I"+conf.IncludeDir.String())
	}
	if !conf.LibDir.IsZero() {
		args = append(args, "LDFLAGS=-L"+conf.LibDir.String())
	}
	conf.Defines.Each(func(k, v string) {
		args = append(args, k+"="+v)
	})
	return a.run(ctx, build, "configure", src.Append("configure").String(), args...)
}

// Build runs `make -j<N>` in build.
func (a *AutoTools) Build(ctx context.Context, build fspath.Path) error {
	return a.run(ctx, build, "build", a.make, "-j"+strconv.Itoa(a.jobs))
}

// Install runs `make install` in build.
func (a *AutoTools) Install(ctx context.Context, build fspath.Path) error {
	return a.run(ctx, build, "install", a.make, "install")
}

func (a *AutoTools) run(ctx context.Context, dir fspath.Path, verb, bin string, args ...string) error {
	_, err := a.x.Run(ctx, &proc.Command{
		Name: bin,
		Args: args,
		Dir:  dir,
		Tag:  "autotools " + verb + " " + dir.Base(),
	})
	return err
}
