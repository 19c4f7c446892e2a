// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repo fetches dependency sources.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/vcs"
)

// ErrUnsupported is returned for an unknown or missing repository type.
var ErrUnsupported = errors.New("unsupported repository")

// Kind tags a repository variant.
type Kind string

const (
	KindGit Kind = "git"
)

// Repository downloads sources into a destination directory.
type Repository interface {
	Kind() Kind
	Download(ctx context.Context, dest fspath.Path) error
}

// Git is a version-control checkout by clone URI.
type Git struct {
	URI string
	Ref string
	vcs vcs.VCS
}

var _ Repository = (*Git)(nil)

func (g *Git) Kind() Kind { return KindGit }

func (g *Git) Download(ctx context.Context, dest fspath.Path) error {
	return g.vcs.Sync(ctx, g.URI, g.Ref, dest)
}

// New returns the Repository described by r. Git repositories use v.
func New(r manifest.Repository, v vcs.VCS) (Repository, error) {
	switch Kind(r.Type) {
	case KindGit:
		if r.Location == "" {
			return nil, fmt.Errorf("%w: git repository without location", ErrUnsupported)
		}
		return &Git{URI: r.Location, Ref: r.Ref, vcs: v}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrUnsupported)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, r.Type)
}
