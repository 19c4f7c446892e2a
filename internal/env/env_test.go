// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"runtime"
	"testing"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.MarkerDir != "Raft" || c.ManifestFile != "raftfile.json" {
		t.Errorf("Default() layout = %q/%q", c.MarkerDir, c.ManifestFile)
	}
	if c.Jobs != runtime.NumCPU() {
		t.Errorf("Default().Jobs = %d, want %d", c.Jobs, runtime.NumCPU())
	}
}

func TestFromLookup(t *testing.T) {
	c, err := fromLookup(lookupFrom(map[string]string{
		"RAFT_GIT":         "/opt/git",
		"RAFT_CMAKE":       "cmake3",
		"RAFT_JOBS":        "3",
		"ANDROID_NDK_HOME": "/ndk",
	}))
	if err != nil {
		t.Fatalf("fromLookup: %v", err)
	}
	if c.Git != "/opt/git" || c.CMake != "cmake3" || c.Make != "make" {
		t.Errorf("tools = %q %q %q", c.Git, c.CMake, c.Make)
	}
	if c.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", c.Jobs)
	}
	if c.AndroidNDK != "/ndk" {
		t.Errorf("AndroidNDK = %q", c.AndroidNDK)
	}
}

func TestFromLookupInvalidJobs(t *testing.T) {
	for _, v := range []string{"zero", "0", "-2"} {
		if _, err := fromLookup(lookupFrom(map[string]string{"RAFT_JOBS": v})); err == nil {
			t.Errorf("RAFT_JOBS=%q: expected error", v)
		}
	}
}

func TestFromEnviron(t *testing.T) {
	t.Setenv("RAFT_MAKE", "gmake")
	c, err := FromEnviron()
	if err != nil {
		t.Fatalf("FromEnviron: %v", err)
	}
	if c.Make != "gmake" {
		t.Errorf("Make = %q, want gmake", c.Make)
	}
}
