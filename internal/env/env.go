// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env holds the layout and tool configuration raft runs with.
package env

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Version is the raft release this binary was built from.
const Version = "v0.3.0"

// Config is constructed once at startup and passed explicitly to
// every component that derives paths or spawns tools.
type Config struct {
	// MarkerDir names the directory identifying a project root.
	MarkerDir string
	// ManifestFile is the manifest name inside MarkerDir.
	ManifestFile string
	// ManifestFallback is read when ManifestFile does not exist.
	ManifestFallback string
	// LibsDir holds dependency sources, builds and installs inside MarkerDir.
	LibsDir string
	// BuildDir is the project's own build directory under the root.
	BuildDir string

	Git   string
	CMake string
	Make  string

	// Jobs is the parallelism hint passed to native builds.
	Jobs int

	// AndroidNDK is the NDK root used for android targets.
	AndroidNDK string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MarkerDir:        "Raft",
		ManifestFile:     "raftfile.json",
		ManifestFallback: "raftfile.hcl",
		LibsDir:          "libs",
		BuildDir:         "build",
		Git:              "git",
		CMake:            "cmake",
		Make:             "make",
		Jobs:             runtime.NumCPU(),
	}
}

// FromEnviron returns Default overlaid with RAFT_GIT, RAFT_CMAKE,
// RAFT_MAKE, RAFT_JOBS and ANDROID_NDK_HOME.
func FromEnviron() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup("RAFT_GIT"); ok && v != "" {
		c.Git = v
	}
	if v, ok := lookup("RAFT_CMAKE"); ok && v != "" {
		c.CMake = v
	}
	if v, ok := lookup("RAFT_MAKE"); ok && v != "" {
		c.Make = v
	}
	if v, ok := lookup("RAFT_JOBS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("RAFT_JOBS: invalid value %q", v)
		}
		c.Jobs = n
	}
	if v, ok := lookup("ANDROID_NDK_HOME"); ok {
		c.AndroidNDK = v
	}
	return c, nil
}
