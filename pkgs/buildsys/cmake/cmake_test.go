// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmake

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/internal/proc/proctest"
	"github.com/goplus/raft/pkgs/buildsys"
	"github.com/google/go-cmp/cmp"
)

func TestConfigureRendersDefinesInOrder(t *testing.T) {
	rec := &proctest.Recorder{}
	c := New(rec, WithBinary("cmake3"))
	tmp := fspath.New(t.TempDir())
	src, build := tmp.Append("src"), tmp.Append("build")

	conf := &buildsys.Config{
		Prefix:     tmp.Append("install"),
		IncludeDir: tmp.Append("install", "include"),
		LibDir:     tmp.Append("install", "lib"),
		Defines:    buildsys.NewDefines().Set("ZED", "1").Set("ALPHA", "2"),
	}
	if err := c.Configure(context.Background(), src, build, conf); err != nil {
		t.Fatalf("configure: %v", err)
	}

	want := []proctest.Call{{
		Dir: build.String(),
		Line: strings.Join([]string{
			"cmake3", src.String(),
			"-DCMAKE_INSTALL_PREFIX=" + tmp.Append("install").String(),
			"-DCMAKE_PREFIX_PATH=" + tmp.Append("install").String(),
			"-DCMAKE_INCLUDE_PATH=" + tmp.Append("install", "include").String(),
			"-DCMAKE_LIBRARY_PATH=" + tmp.Append("install", "lib").String(),
			"-DZED=1",
			"-DALPHA=2",
		}, " "),
	}}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !build.IsDir() {
		t.Errorf("build dir %s not created", build)
	}
}

func TestConfigureNilConfig(t *testing.T) {
	rec := &proctest.Recorder{}
	c := New(rec, WithGenerator("Ninja"), WithBuildType("Release"))
	if err := c.Configure(context.Background(), fspath.New("src"), fspath.New(t.TempDir()), nil); err != nil {
		t.Fatalf("configure: %v", err)
	}
	want := []string{"cmake src -G Ninja -DCMAKE_BUILD_TYPE=Release"}
	if diff := cmp.Diff(want, rec.Lines()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestExtraDefineOverridesInPlace(t *testing.T) {
	c := New(&proctest.Recorder{})
	conf := &buildsys.Config{
		Prefix:  fspath.New("/p"),
		Defines: buildsys.NewDefines().Set("CMAKE_PREFIX_PATH", "/other"),
	}
	var keys []string
	c.Defines(conf).Each(func(k, v string) { keys = append(keys, k+"="+v) })
	want := []string{"CMAKE_INSTALL_PREFIX=/p", "CMAKE_PREFIX_PATH=/other"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("defines mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAndInstall(t *testing.T) {
	rec := &proctest.Recorder{}
	c := New(rec, WithJobs(8))
	build := fspath.New(t.TempDir()).Append("foo")

	if err := c.Build(context.Background(), build); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := c.Install(context.Background(), build); err != nil {
		t.Fatalf("install: %v", err)
	}
	want := []proctest.Call{
		{Dir: build.String(), Line: "cmake --build . -j 8"},
		{Dir: build.String(), Line: "cmake --install ."},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureBuildInstallE2E(t *testing.T) {
	if _, err := exec.LookPath("cmake"); err != nil {
		t.Skip("cmake not found in PATH")
	}

	tmp := fspath.New(t.TempDir())
	installDir := tmp.Append("install")
	buildDir := tmp.Append("build")
	sourceDir, err := fspath.New(filepath.Join("testdata", "project")).Abs()
	if err != nil {
		t.Fatal(err)
	}

	c := New(proc.NewRunner(), WithBuildType("Release"), WithJobs(2))
	ctx := context.Background()
	conf := &buildsys.Config{
		Prefix:  installDir,
		Defines: buildsys.NewDefines().Set("FOO", "BAR"),
	}
	if err := c.Configure(ctx, sourceDir, buildDir, conf); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := c.Build(ctx, buildDir); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := c.Install(ctx, buildDir); err != nil {
		t.Fatalf("install: %v", err)
	}

	wantHeader := installDir.Append("include", "dummy.h")
	if !wantHeader.Exists() {
		t.Fatalf("installed header missing: %s", wantHeader)
	}
	entries, err := os.ReadDir(installDir.Append("lib").String())
	if err != nil || len(entries) == 0 {
		t.Fatalf("installed lib missing: %v", err)
	}

	data, err := os.ReadFile(buildDir.Append("CMakeCache.txt").String())
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	content := string(data)
	for _, snippet := range []string{
		"FOO:",
		"=BAR",
		"CMAKE_BUILD_TYPE:",
		"=Release",
	} {
		if !strings.Contains(content, snippet) {
			t.Fatalf("cache missing %q", snippet)
		}
	}
}
