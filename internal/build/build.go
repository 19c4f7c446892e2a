// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build orchestrates a project build: every dependency pipeline
// runs concurrently, and the project itself is built once all of them
// have installed.
package build

import (
	"context"
	"time"

	"github.com/goplus/raft/internal/dependency"
	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/target"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Builder runs dependency pipelines and project builds.
type Builder struct {
	x    proc.Executor
	conf env.Config
	now  func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithExecutor sets the executor every external command runs through.
func WithExecutor(x proc.Executor) Option {
	return func(b *Builder) {
		b.x = x
	}
}

// NewBuilder returns a Builder using conf for tool paths and parallelism.
func NewBuilder(conf env.Config, opts ...Option) *Builder {
	b := &Builder{conf: conf, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if b.x == nil {
		b.x = proc.NewRunner()
	}
	return b
}

type resolved struct {
	desc manifest.Descriptor
	dep  dependency.Dependency
}

// Resolve turns every manifest entry of p into a dependency. An unknown
// repository type or build system fails here, before anything is spawned.
func (b *Builder) Resolve(p *project.Project) ([]dependency.Dependency, error) {
	rs, err := b.resolve(p)
	if err != nil {
		return nil, err
	}
	deps := make([]dependency.Dependency, len(rs))
	for i, r := range rs {
		deps[i] = r.dep
	}
	return deps, nil
}

func (b *Builder) resolve(p *project.Project) ([]resolved, error) {
	if p.Manifest == nil {
		return nil, nil
	}
	rs := make([]resolved, 0, len(p.Manifest.Dependencies))
	for _, desc := range p.Manifest.Dependencies {
		d, err := dependency.New(desc, b.x, b.conf)
		if err != nil {
			return nil, err
		}
		rs = append(rs, resolved{desc: desc, dep: d})
	}
	return rs, nil
}

// Dependencies downloads, builds and installs every dependency of p for t.
// Pipelines run concurrently and a failure does not stop the others.
// It returns once all pipelines have finished, with the first error.
func (b *Builder) Dependencies(ctx context.Context, p *project.Project, t target.Target) error {
	rs, err := b.resolve(p)
	if err != nil {
		return err
	}
	return b.dependencies(ctx, p, t, rs)
}

func (b *Builder) dependencies(ctx context.Context, p *project.Project, t target.Target, rs []resolved) error {
	log := zerolog.Ctx(ctx)
	start := b.now()

	var g errgroup.Group
	for _, r := range rs {
		g.Go(func() error {
			if err := dependency.Get(ctx, p, r.dep, t); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("dependency", r.dep.Name()).Msg("dependency failed")
				return err
			}
			return b.record(p, t, r.desc)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().
		Int("count", len(rs)).
		Str("target", t.String()).
		Dur("elapsed", b.now().Sub(start)).
		Msg("dependencies installed")
	return nil
}

// Build installs every dependency of p for t and then builds the project
// itself with CMake. The project build starts only if all dependencies
// were installed.
func (b *Builder) Build(ctx context.Context, p *project.Project, t target.Target) error {
	if _, err := p.BuildRoot(t); err != nil {
		return err
	}
	rs, err := b.resolve(p)
	if err != nil {
		return err
	}
	bs, err := dependency.NewBuildSystem("cmake", b.x, b.conf)
	if err != nil {
		return err
	}
	if err := b.dependencies(ctx, p, t, rs); err != nil {
		return err
	}
	if err := p.Build(ctx, t, bs); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("target", t.String()).Msg("project built")
	return nil
}
