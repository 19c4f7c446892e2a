// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dependency

import (
	"context"
	"fmt"

	"github.com/goplus/raft/internal/lockedfile"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/target"
	"github.com/rs/zerolog"
)

// Stage is one step of the per-dependency pipeline.
type Stage string

const (
	StageDownload Stage = "download"
	StageBuild    Stage = "build"
	StageInstall  Stage = "install"
)

// Error reports the stage at which a dependency failed.
type Error struct {
	Dependency string
	Stage      Stage
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Dependency, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Get runs download, build and install for d, strictly in that order.
// The first failing stage ends the pipeline.
//
// Installs into the shared prefix of t are serialized with a file lock,
// across goroutines and across raft processes.
func Get(ctx context.Context, p *project.Project, d Dependency, t target.Target) error {
	log := zerolog.Ctx(ctx).With().Str("dependency", d.Name()).Str("target", t.String()).Logger()
	ctx = log.WithContext(ctx)

	log.Info().Str("stage", string(StageDownload)).Msg("stage")
	if err := d.Download(ctx, p, t); err != nil {
		return &Error{d.Name(), StageDownload, err}
	}

	log.Info().Str("stage", string(StageBuild)).Msg("stage")
	if err := d.Build(ctx, p, t); err != nil {
		return &Error{d.Name(), StageBuild, err}
	}

	unlock, err := lockedfile.MutexAt(p.InstallLock(t).String()).Lock()
	if err != nil {
		return &Error{d.Name(), StageInstall, err}
	}
	defer unlock()

	log.Info().Str("stage", string(StageInstall)).Msg("stage")
	if err := d.Install(ctx, p, t); err != nil {
		return &Error{d.Name(), StageInstall, err}
	}

	log.Info().Msg("dependency ready")
	return nil
}
