// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fspath provides Path, an immutable filesystem location value.
package fspath

import (
	"os"
	"path/filepath"
)

// Path is an immutable filesystem location. Two paths are equal
// when their underlying strings are equal.
type Path struct {
	s string
}

// New returns the Path for s as given.
func New(s string) Path {
	return Path{s: s}
}

// Cwd returns the current working directory.
func Cwd() (Path, error) {
	dir, err := os.Getwd()
	if err != nil {
		return Path{}, err
	}
	return New(dir), nil
}

// Home returns the current user's home directory.
func Home() (Path, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return Path{}, err
	}
	return New(dir), nil
}

// Abs returns an absolute form of p.
func (p Path) Abs() (Path, error) {
	abs, err := filepath.Abs(p.s)
	if err != nil {
		return Path{}, err
	}
	return New(abs), nil
}

// Append joins segments onto p with the platform separator.
// It never touches the filesystem.
func (p Path) Append(segments ...string) Path {
	elems := make([]string, 0, len(segments)+1)
	elems = append(elems, p.s)
	elems = append(elems, segments...)
	return New(filepath.Join(elems...))
}

// Parent returns the directory containing p.
func (p Path) Parent() Path {
	return New(filepath.Dir(p.s))
}

// IsRoot reports whether p is its own parent, e.g. "/" or "C:\".
func (p Path) IsRoot() bool {
	return p.Parent() == New(filepath.Clean(p.s))
}

// Base returns the last element of p.
func (p Path) Base() string {
	return filepath.Base(p.s)
}

func (p Path) String() string {
	return p.s
}

// IsZero reports whether p was never assigned.
func (p Path) IsZero() bool {
	return p.s == ""
}

// Exists reports whether something exists at p.
func (p Path) Exists() bool {
	_, err := os.Stat(p.s)
	return err == nil
}

// IsDir reports whether p exists and is a directory.
func (p Path) IsDir() bool {
	fi, err := os.Stat(p.s)
	return err == nil && fi.IsDir()
}

// CreateDirectory creates p and any missing parents. It returns true
// only when this call created p itself; false when p already existed
// or creation failed.
func (p Path) CreateDirectory() bool {
	if p.Exists() {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(p.s), 0o755); err != nil {
		return false
	}
	// Mkdir fails with ErrExist when a concurrent caller won the race.
	return os.Mkdir(p.s, 0o755) == nil
}
