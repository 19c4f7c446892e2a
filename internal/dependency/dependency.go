// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dependency turns manifest entries into dependencies that can be
// downloaded, built and installed.
package dependency

import (
	"context"
	"errors"
	"fmt"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/repo"
	"github.com/goplus/raft/internal/target"
	"github.com/goplus/raft/internal/vcs"
	"github.com/goplus/raft/pkgs/buildsys"
	"github.com/goplus/raft/pkgs/buildsys/autotools"
	"github.com/goplus/raft/pkgs/buildsys/cmake"
)

// ErrUnsupportedBuildSystem is returned for an unknown build system tag.
var ErrUnsupportedBuildSystem = errors.New("unsupported build system")

// None is the build system tag of repository-only dependencies.
const None = "none"

// Dependency is a resolved manifest entry.
type Dependency interface {
	Name() string
	Download(ctx context.Context, p *project.Project, t target.Target) error
	Build(ctx context.Context, p *project.Project, t target.Target) error
	Install(ctx context.Context, p *project.Project, t target.Target) error
}

// NewBuildSystem returns the build system registered under name.
func NewBuildSystem(name string, x proc.Executor, conf env.Config) (buildsys.BuildSystem, error) {
	switch name {
	case cmake.Name:
		return cmake.New(x, cmake.WithBinary(conf.CMake), cmake.WithJobs(conf.Jobs)), nil
	case autotools.Name:
		return autotools.New(x, autotools.WithMake(conf.Make), autotools.WithJobs(conf.Jobs)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBuildSystem, name)
}

// New resolves desc. Nothing is spawned.
func New(desc manifest.Descriptor, x proc.Executor, conf env.Config) (Dependency, error) {
	var bs buildsys.BuildSystem
	if desc.BuildSystem != None {
		var err error
		if bs, err = NewBuildSystem(desc.BuildSystem, x, conf); err != nil {
			return nil, fmt.Errorf("dependency %s: %w", desc.Name, err)
		}
	}
	r, err := repo.New(desc.Repository, vcs.NewGitVCS(x, vcs.WithGitPath(conf.Git)))
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", desc.Name, err)
	}

	src := source{name: desc.Name, repo: r}
	if bs == nil {
		return &RepositoryOnly{source: src}, nil
	}
	return &Native{source: src, bs: bs}, nil
}

type source struct {
	name string
	repo repo.Repository
}

func (s *source) Name() string { return s.name }

func (s *source) Download(ctx context.Context, p *project.Project, t target.Target) error {
	return s.repo.Download(ctx, p.SourceDir(s.name))
}

// RepositoryOnly is downloaded but never built, e.g. header-only sources.
type RepositoryOnly struct {
	source
}

func (d *RepositoryOnly) Build(ctx context.Context, p *project.Project, t target.Target) error {
	return nil
}

func (d *RepositoryOnly) Install(ctx context.Context, p *project.Project, t target.Target) error {
	return nil
}

// Native is built and installed with a native build system.
type Native struct {
	source
	bs buildsys.BuildSystem
}

// BuildSystem returns the build system d is built with.
func (d *Native) BuildSystem() buildsys.BuildSystem { return d.bs }

func (d *Native) Build(ctx context.Context, p *project.Project, t target.Target) error {
	dir := p.BuildDir(d.name, t)
	if err := d.bs.Configure(ctx, p.SourceDir(d.name), dir, p.BuildConfig(t)); err != nil {
		return err
	}
	return d.bs.Build(ctx, dir)
}

func (d *Native) Install(ctx context.Context, p *project.Project, t target.Target) error {
	return d.bs.Install(ctx, p.BuildDir(d.name, t))
}
