// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest reads a project's raftfile.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"golang.org/x/mod/semver"
)

// ErrInvalid is matched by every error that makes a manifest unusable.
var ErrInvalid = errors.New("invalid manifest")

// Repository locates a dependency's sources.
type Repository struct {
	Type     string `json:"type" hcl:"type"`
	Location string `json:"location" hcl:"location"`
	// Ref is a branch or tag; empty means the remote default.
	Ref string `json:"ref,omitempty" hcl:"ref,optional"`
}

// Descriptor is one manifest dependency entry.
type Descriptor struct {
	Name        string     `json:"name" hcl:"name,label"`
	Repository  Repository `json:"repository" hcl:"repository,block"`
	BuildSystem string     `json:"buildSystem" hcl:"build_system"`
}

// Manifest is the parsed raftfile.
type Manifest struct {
	// Raft is the minimum raft version, in semver form, the project needs.
	Raft         string       `json:"raft,omitempty" hcl:"raft,optional"`
	Dependencies []Descriptor `json:"dependencies" hcl:"dependency,block"`
}

// Parse decodes a manifest. When data is nil it is read from file.
// The file extension selects the syntax: ".hcl" for HCL, JSON otherwise.
func Parse(file string, data []byte) (*Manifest, error) {
	if data == nil {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		data = b
	}

	var m Manifest
	if filepath.Ext(file) == ".hcl" {
		if err := hclsimple.Decode(filepath.Base(file), data, nil, &m); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, file, err)
		}
		return &m, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, file, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: %s: trailing data after manifest", ErrInvalid, file)
	}
	return &m, nil
}

// Load reads the first of names that exists in dir.
func Load(dir string, names ...string) (*Manifest, string, error) {
	for _, name := range names {
		file := filepath.Join(dir, name)
		if _, err := os.Stat(file); err == nil {
			m, err := Parse(file, nil)
			return m, file, err
		}
	}
	if len(names) == 0 {
		return nil, "", fmt.Errorf("%w: no manifest name given", ErrInvalid)
	}
	return nil, "", fmt.Errorf("%w: %s not found in %s", ErrInvalid, names[0], dir)
}

// Validate checks the manifest against the running raft version.
// Unknown repository types and build systems are left to resolution.
func (m *Manifest) Validate(version string) error {
	if m.Raft != "" {
		if !semver.IsValid(m.Raft) {
			return fmt.Errorf("%w: raft version %q is not a semantic version", ErrInvalid, m.Raft)
		}
		if semver.IsValid(version) && semver.Compare(m.Raft, version) > 0 {
			return fmt.Errorf("%w: requires raft %s, running %s", ErrInvalid, m.Raft, version)
		}
	}

	seen := make(map[string]bool, len(m.Dependencies))
	for i, d := range m.Dependencies {
		if err := CheckName(d.Name); err != nil {
			return fmt.Errorf("%w: dependencies[%d]: %w", ErrInvalid, i, err)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate dependency %q", ErrInvalid, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// CheckName reports whether name is usable as a single directory element, so
// per-dependency directories never overlap.
func CheckName(name string) error {
	switch {
	case name == "":
		return errors.New("empty name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.ContainsAny(name, `/\:`):
		return fmt.Errorf("name %q contains a path separator", name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("name %q has surrounding spaces", name)
	}
	return nil
}
