// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project locates a raft project and derives its directory layout.
//
// Layout, relative to the project root:
//
//	<marker>/
//	  raftfile.json
//	  libs/
//	    src/<dep>/                      # dependency sources
//	    build/<platform>/<arch>/<dep>/  # dependency build trees
//	    install/<platform>/<arch>/      # shared install prefix per target
//	      include/
//	      lib/
//	build/                              # the project's own build tree
package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/target"
	"github.com/goplus/raft/pkgs/buildsys"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when no ancestor holds a marker directory.
	ErrNotFound = errors.New("project not found")
	// ErrNotImplemented is returned for deploy builds.
	ErrNotImplemented = errors.New("not implemented")
)

// maxDepth bounds the upward search independently of IsRoot.
const maxDepth = 4096

// Project is a discovered project root and its manifest.
type Project struct {
	Root     fspath.Path
	Manifest *manifest.Manifest
	// ManifestFile is the file Manifest was read from.
	ManifestFile fspath.Path

	conf env.Config
}

// New returns a Project for an already known root.
func New(root fspath.Path, m *manifest.Manifest, conf env.Config) *Project {
	return &Project{Root: root, Manifest: m, conf: conf}
}

// Find walks upward from start and returns the nearest project whose
// marker directory exists, with its manifest loaded.
func Find(start fspath.Path, conf env.Config) (*Project, error) {
	abs, err := start.Abs()
	if err != nil {
		return nil, err
	}
	root, ok := findRoot(abs, conf.MarkerDir)
	if !ok {
		return nil, fmt.Errorf("%w: no %s directory in %s or any parent", ErrNotFound, conf.MarkerDir, abs)
	}

	marker := root.Append(conf.MarkerDir)
	names := []string{conf.ManifestFile}
	if conf.ManifestFallback != "" {
		names = append(names, conf.ManifestFallback)
	}
	m, file, err := manifest.Load(marker.String(), names...)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(env.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	p := New(root, m, conf)
	p.ManifestFile = fspath.New(file)
	return p, nil
}

// candidates returns start and its ancestors, nearest first, up to
// and including the filesystem root.
func candidates(start fspath.Path) []fspath.Path {
	var chain []fspath.Path
	p := start
	for i := 0; i < maxDepth; i++ {
		chain = append(chain, p)
		if p.IsRoot() {
			break
		}
		p = p.Parent()
	}
	return chain
}

func findRoot(start fspath.Path, marker string) (fspath.Path, bool) {
	for _, c := range candidates(start) {
		if c.Append(marker).IsDir() {
			return c, true
		}
	}
	return fspath.Path{}, false
}

// Config returns the configuration the project was opened with.
func (p *Project) Config() env.Config {
	return p.conf
}

// MarkerDir returns root/<marker>.
func (p *Project) MarkerDir() fspath.Path {
	return p.Root.Append(p.conf.MarkerDir)
}

func (p *Project) libs() fspath.Path {
	return p.MarkerDir().Append(p.conf.LibsDir)
}

// SourceDir returns where the sources of dependency name live.
func (p *Project) SourceDir(name string) fspath.Path {
	return p.libs().Append("src", name)
}

// BuildDir returns the build tree of dependency name for t.
func (p *Project) BuildDir(name string, t target.Target) fspath.Path {
	return p.libs().Append("build", string(t.Platform), string(t.Arch), name)
}

// InstallDir returns the install prefix shared by all dependencies built for t.
func (p *Project) InstallDir(t target.Target) fspath.Path {
	return p.libs().Append("install", string(t.Platform), string(t.Arch))
}

// IncludeDir returns the installed headers directory for t.
func (p *Project) IncludeDir(t target.Target) fspath.Path {
	return p.InstallDir(t).Append("include")
}

// LibDir returns the installed libraries directory for t.
func (p *Project) LibDir(t target.Target) fspath.Path {
	return p.InstallDir(t).Append("lib")
}

// InstallLock returns the lock file guarding InstallDir(t).
func (p *Project) InstallLock(t target.Target) fspath.Path {
	return p.libs().Append("install", string(t.Platform), string(t.Arch)+".lock")
}

// BuildRoot returns the project's own build directory for t.
func (p *Project) BuildRoot(t target.Target) (fspath.Path, error) {
	if t.Deploy {
		return fspath.Path{}, fmt.Errorf("deploy build: %w", ErrNotImplemented)
	}
	return p.Root.Append(p.conf.BuildDir), nil
}

// BuildConfig returns the configure inputs for anything built for t:
// the target's install prefix, its include and lib dirs, and platform flags.
func (p *Project) BuildConfig(t target.Target) *buildsys.Config {
	defines := buildsys.NewDefines()
	for _, f := range t.Flags(p.conf.AndroidNDK) {
		defines.Set(f.Key, f.Value)
	}
	return &buildsys.Config{
		Prefix:     p.InstallDir(t),
		IncludeDir: p.IncludeDir(t),
		LibDir:     p.LibDir(t),
		Defines:    defines,
	}
}

// Build configures and builds the project itself with bs.
// Dependencies must already be installed.
func (p *Project) Build(ctx context.Context, t target.Target, bs buildsys.BuildSystem) error {
	dir, err := p.BuildRoot(t)
	if err != nil {
		return err
	}
	log := zerolog.Ctx(ctx).With().Str("target", t.String()).Logger()

	log.Info().Str("stage", "configure").Str("dir", dir.String()).Msg("building project")
	if err := bs.Configure(ctx, p.Root, dir, p.BuildConfig(t)); err != nil {
		return fmt.Errorf("configure project: %w", err)
	}
	log.Info().Str("stage", "build").Msg("building project")
	if err := bs.Build(ctx, dir); err != nil {
		return fmt.Errorf("build project: %w", err)
	}
	return nil
}
