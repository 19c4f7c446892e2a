// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command raft builds native C/C++ projects and their dependencies.
package main

import "github.com/goplus/raft/cmd/raft/internal"

func main() {
	internal.Execute()
}
