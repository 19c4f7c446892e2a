// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lockedfile provides an inter-process mutex backed by an
// advisory lock on a file.
package lockedfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mutex is an exclusive lock on a file path. Distinct Mutex values for
// the same path exclude each other, within a process and across processes.
type Mutex struct {
	Path string
}

// MutexAt returns a Mutex for the file at path.
func MutexAt(path string) *Mutex {
	if path == "" {
		panic("lockedfile.MutexAt: empty path")
	}
	return &Mutex{Path: path}
}

// Lock blocks until the lock is held. The returned unlock releases it.
func (mu *Mutex) Lock() (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(mu.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(mu.Path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", mu.Path, err)
	}
	return func() {
		unlock(f)
		f.Close()
	}, nil
}
