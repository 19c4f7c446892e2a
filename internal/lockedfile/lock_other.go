// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package lockedfile

import "os"

// No advisory locking on this platform; Mutex does not exclude.

func lock(f *os.File) error { return nil }

func unlock(f *os.File) error { return nil }
