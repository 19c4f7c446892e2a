// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proctest provides a recording proc.Executor for tests.
package proctest

import (
	"context"
	"strings"
	"sync"

	"github.com/goplus/raft/internal/proc"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Line string
}

// Recorder records commands instead of running them. It creates the
// working directory like proc.Runner does.
type Recorder struct {
	// Fail, when set, decides whether a command fails. A non-nil
	// return is wrapped in a *proc.ExitError.
	Fail func(cmd *proc.Command) error

	// Hook, when set, runs before the command is recorded.
	Hook func(cmd *proc.Command)

	mu    sync.Mutex
	calls []Call
}

var _ proc.Executor = (*Recorder)(nil)

func (r *Recorder) Run(ctx context.Context, cmd *proc.Command) (*proc.Outcome, error) {
	if !cmd.Dir.IsZero() {
		cmd.Dir.CreateDirectory()
	}
	if r.Hook != nil {
		r.Hook(cmd)
	}
	r.mu.Lock()
	r.calls = append(r.calls, Call{Dir: cmd.Dir.String(), Line: cmd.String()})
	r.mu.Unlock()

	if r.Fail != nil {
		if err := r.Fail(cmd); err != nil {
			tag := cmd.Tag
			if tag == "" {
				tag = cmd.String()
			}
			return nil, &proc.ExitError{
				Command: cmd.String(),
				Tag:     tag,
				Code:    1,
				Stderr:  []byte(err.Error()),
				Err:     err,
			}
		}
	}
	return &proc.Outcome{}, nil
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded command lines.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line
	}
	return lines
}

// Filter returns the calls whose command line contains substr.
func (r *Recorder) Filter(substr string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if strings.Contains(c.Line, substr) {
			out = append(out, c)
		}
	}
	return out
}
