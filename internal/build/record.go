// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/lockedfile"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/target"
)

// Install prefix layout:
//
//	libs/install/<platform>/<arch>/
//	  .raft.json   # install record: dependency name -> Record
//	  include/
//	  lib/
//	  ...
const recordFile = ".raft.json"

// Record describes the last successful install of one dependency.
type Record struct {
	Name        string              `json:"name"`
	Repository  manifest.Repository `json:"repository"`
	BuildSystem string              `json:"buildSystem"`
	InstallTime time.Time           `json:"installTime"`
}

type records struct {
	Installed map[string]*Record `json:"installed"`
}

func recordPath(p *project.Project, t target.Target) fspath.Path {
	return p.InstallDir(t).Append(recordFile)
}

func loadRecords(path fspath.Path) (*records, error) {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return nil, err
	}
	var rs records
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func saveRecords(path fspath.Path, rs *records) error {
	path.Parent().CreateDirectory()
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path.String(), data, 0o644)
}

// record notes desc as installed for t. The install lock of t guards
// the read-modify-write.
func (b *Builder) record(p *project.Project, t target.Target, desc manifest.Descriptor) error {
	unlock, err := lockedfile.MutexAt(p.InstallLock(t).String()).Lock()
	if err != nil {
		return err
	}
	defer unlock()

	path := recordPath(p, t)
	rs, err := loadRecords(path)
	if err != nil {
		// A corrupt record is rewritten from scratch.
		rs = &records{}
	}
	if rs.Installed == nil {
		rs.Installed = make(map[string]*Record)
	}
	rs.Installed[desc.Name] = &Record{
		Name:        desc.Name,
		Repository:  desc.Repository,
		BuildSystem: desc.BuildSystem,
		InstallTime: b.now().UTC(),
	}
	return saveRecords(path, rs)
}

// Installed returns the install records of p for t, sorted by name.
// A target nothing was installed for yields no records.
func Installed(p *project.Project, t target.Target) ([]Record, error) {
	rs, err := loadRecords(recordPath(p, t))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Record, 0, len(rs.Installed))
	for _, r := range rs.Installed {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
