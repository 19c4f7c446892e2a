// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dependency

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/internal/proc/proctest"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/repo"
	"github.com/goplus/raft/internal/target"
	"github.com/google/go-cmp/cmp"
)

func desc(name, buildSystem string) manifest.Descriptor {
	return manifest.Descriptor{
		Name:        name,
		Repository:  manifest.Repository{Type: "git", Location: "https://example/" + name + ".git"},
		BuildSystem: buildSystem,
	}
}

func testConfig() env.Config {
	conf := env.Default()
	conf.Jobs = 4
	return conf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		desc    manifest.Descriptor
		check   func(Dependency) bool
		wantErr error
	}{
		{"cmake", desc("foo", "cmake"), func(d Dependency) bool {
			n, ok := d.(*Native)
			return ok && n.BuildSystem().Name() == "cmake"
		}, nil},
		{"autotools", desc("foo", "autotools"), func(d Dependency) bool {
			n, ok := d.(*Native)
			return ok && n.BuildSystem().Name() == "autotools"
		}, nil},
		{"none", desc("foo", "none"), func(d Dependency) bool {
			_, ok := d.(*RepositoryOnly)
			return ok
		}, nil},
		{"unknown build system", desc("foo", "unknown"), nil, ErrUnsupportedBuildSystem},
		{"empty build system", desc("foo", ""), nil, ErrUnsupportedBuildSystem},
		{"unknown repository", manifest.Descriptor{Name: "foo", Repository: manifest.Repository{Type: "hg", Location: "u"}, BuildSystem: "cmake"}, nil, repo.ErrUnsupported},
		{"missing repository", manifest.Descriptor{Name: "foo", BuildSystem: "none"}, nil, repo.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &proctest.Recorder{}
			d, err := New(tt.desc, rec, testConfig())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if d.Name() != tt.desc.Name {
					t.Errorf("Name() = %q", d.Name())
				}
				if !tt.check(d) {
					t.Errorf("New() = %T", d)
				}
			}
			if len(rec.Calls()) != 0 {
				t.Errorf("New spawned processes: %v", rec.Lines())
			}
		})
	}
}

func newProject(t *testing.T) *project.Project {
	return project.New(fspath.New(t.TempDir()), &manifest.Manifest{}, testConfig())
}

func TestNativePipelineCommands(t *testing.T) {
	p := newProject(t)
	rec := &proctest.Recorder{}
	d, err := New(desc("foo", "cmake"), rec, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	host := target.Host()
	if err := Get(context.Background(), p, d, host); err != nil {
		t.Fatalf("Get: %v", err)
	}

	src := p.Root.Append("Raft", "libs", "src", "foo")
	build := p.Root.Append("Raft", "libs", "build", "host", "host", "foo")
	install := p.Root.Append("Raft", "libs", "install", "host", "host")
	want := []proctest.Call{
		{Dir: src.Parent().String(), Line: "git clone https://example/foo.git " + src.String()},
		{Dir: build.String(), Line: "cmake " + src.String() +
			" -DCMAKE_INSTALL_PREFIX=" + install.String() +
			" -DCMAKE_PREFIX_PATH=" + install.String() +
			" -DCMAKE_INCLUDE_PATH=" + install.Append("include").String() +
			" -DCMAKE_LIBRARY_PATH=" + install.Append("lib").String()},
		{Dir: build.String(), Line: "cmake --build . -j 4"},
		{Dir: build.String(), Line: "cmake --install ."},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRepositoryOnlyPipeline(t *testing.T) {
	p := newProject(t)
	rec := &proctest.Recorder{}
	d, err := New(desc("headers", "none"), rec, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := Get(context.Background(), p, d, target.Host()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	lines := rec.Lines()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "git clone ") {
		t.Errorf("calls = %v, want a single clone", lines)
	}
}

// fakeDependency records when each stage starts and ends.
type fakeDependency struct {
	name   string
	failAt Stage

	mu     sync.Mutex
	events []string
}

func (f *fakeDependency) stage(s Stage) error {
	f.mu.Lock()
	f.events = append(f.events, "start "+string(s))
	f.mu.Unlock()
	if f.failAt == s {
		return errors.New("boom")
	}
	f.mu.Lock()
	f.events = append(f.events, "end "+string(s))
	f.mu.Unlock()
	return nil
}

func (f *fakeDependency) Name() string { return f.name }

func (f *fakeDependency) Download(context.Context, *project.Project, target.Target) error {
	return f.stage(StageDownload)
}

func (f *fakeDependency) Build(context.Context, *project.Project, target.Target) error {
	return f.stage(StageBuild)
}

func (f *fakeDependency) Install(context.Context, *project.Project, target.Target) error {
	return f.stage(StageInstall)
}

func TestGetStageOrder(t *testing.T) {
	d := &fakeDependency{name: "x"}
	if err := Get(context.Background(), newProject(t), d, target.Host()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{
		"start download", "end download",
		"start build", "end build",
		"start install", "end install",
	}
	if diff := cmp.Diff(want, d.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestGetStopsAtFailingStage(t *testing.T) {
	tests := []struct {
		failAt Stage
		want   []string
	}{
		{StageDownload, []string{"start download"}},
		{StageBuild, []string{"start download", "end download", "start build"}},
		{StageInstall, []string{"start download", "end download", "start build", "end build", "start install"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.failAt), func(t *testing.T) {
			d := &fakeDependency{name: "x", failAt: tt.failAt}
			err := Get(context.Background(), newProject(t), d, target.Host())
			var depErr *Error
			if !errors.As(err, &depErr) {
				t.Fatalf("Get error = %v, want *Error", err)
			}
			if depErr.Stage != tt.failAt || depErr.Dependency != "x" {
				t.Errorf("Error = %+v", depErr)
			}
			if diff := cmp.Diff(tt.want, d.events); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetProcessFailure(t *testing.T) {
	rec := &proctest.Recorder{Fail: func(cmd *proc.Command) error {
		if len(cmd.Args) > 0 && cmd.Args[0] == "--build" {
			return errors.New("compile error")
		}
		return nil
	}}
	d, err := New(desc("foo", "cmake"), rec, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	err = Get(context.Background(), newProject(t), d, target.Host())
	if !errors.Is(err, proc.ErrProcessFailed) {
		t.Fatalf("Get error = %v, want ErrProcessFailed", err)
	}
	if got := rec.Filter("--install"); len(got) != 0 {
		t.Errorf("install ran after failed build: %v", got)
	}
}
