// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"fmt"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/proc"
)

// VCS defines the interface for version control operations.
type VCS interface {
	// Sync ensures dir holds a checkout of remote at ref.
	// ref can be a branch or tag; empty means the remote default.
	// If dir is not a work tree, the repo is cloned into it.
	// Otherwise updates are fetched and checked out.
	Sync(ctx context.Context, remote, ref string, dir fspath.Path) error
}

// gitVCS implements VCS using git.
type gitVCS struct {
	git string
	x   proc.Executor
}

// GitOption configures gitVCS.
type GitOption func(*gitVCS)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitVCS) {
		g.git = path
	}
}

// NewGitVCS creates a new git VCS instance running commands through x.
func NewGitVCS(x proc.Executor, opts ...GitOption) VCS {
	g := &gitVCS{git: "git", x: x}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitVCS) Sync(ctx context.Context, remote, ref string, dir fspath.Path) error {
	if !dir.Append(".git").Exists() {
		return g.clone(ctx, remote, ref, dir)
	}
	if err := g.fetch(ctx, remote, ref, dir); err != nil {
		return err
	}
	return g.checkout(ctx, dir, "FETCH_HEAD")
}

func (g *gitVCS) clone(ctx context.Context, remote, ref string, dir fspath.Path) error {
	args := []string{"clone"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, remote, dir.String())
	// Run from the parent so the destination itself is created by git.
	if err := g.run(ctx, dir.Parent(), "clone "+dir.Base(), args...); err != nil {
		return fmt.Errorf("clone %s: %w", remote, err)
	}
	return nil
}

func (g *gitVCS) fetch(ctx context.Context, remote, ref string, dir fspath.Path) error {
	if ref == "" {
		ref = "HEAD"
	}
	if err := g.run(ctx, dir, "fetch "+dir.Base(), "fetch", remote, ref); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

func (g *gitVCS) checkout(ctx context.Context, dir fspath.Path, ref string) error {
	if err := g.run(ctx, dir, "checkout "+dir.Base(), "checkout", "--force", ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

func (g *gitVCS) run(ctx context.Context, dir fspath.Path, tag string, args ...string) error {
	_, err := g.x.Run(ctx, &proc.Command{
		Name: g.git,
		Args: args,
		Dir:  dir,
		Tag:  tag,
	})
	return err
}
