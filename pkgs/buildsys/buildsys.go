// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import (
	"context"

	"github.com/goplus/raft/internal/fspath"
)

// BuildSystem captures shared capabilities of native build tools (CMake, Autotools, etc).
// Each verb runs in the build directory, which is created on demand.
type BuildSystem interface {
	// Name is the manifest tag selecting this build system.
	Name() string

	// Lifecycle.
	Configure(ctx context.Context, src, build fspath.Path, conf *Config) error
	Build(ctx context.Context, build fspath.Path) error
	Install(ctx context.Context, build fspath.Path) error
}

// Config is what a configure step needs to know about its surroundings.
type Config struct {
	// Prefix is where Install puts artifacts and where installed
	// dependencies are looked up.
	Prefix fspath.Path
	// IncludeDir and LibDir hold headers and libraries of installed dependencies.
	IncludeDir fspath.Path
	LibDir     fspath.Path
	// Defines are extra definitions rendered after the ones above.
	Defines *Defines
}

// Defines is a string map that remembers insertion order.
type Defines struct {
	keys []string
	vals map[string]string
}

// NewDefines returns an empty Defines.
func NewDefines() *Defines {
	return &Defines{vals: make(map[string]string)}
}

// Set adds key, or replaces its value in place when already present.
func (d *Defines) Set(key, value string) *Defines {
	if d.vals == nil {
		d.vals = make(map[string]string)
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = value
	return d
}

// Get returns the value for key.
func (d *Defines) Get(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Len returns the number of entries.
func (d *Defines) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Each calls f for every entry in insertion order.
func (d *Defines) Each(f func(key, value string)) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		f(k, d.vals[k])
	}
}
