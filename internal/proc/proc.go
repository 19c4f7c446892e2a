// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proc runs external commands. Every tool raft drives (git,
// cmake, make) goes through an Executor.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/goplus/raft/internal/fspath"
	"github.com/rs/zerolog"
)

// ErrProcessFailed is matched by every error returned from a failed Run.
var ErrProcessFailed = errors.New("process failed")

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. It is created when missing.
	// The zero Path runs the command in the caller's directory.
	Dir fspath.Path

	// Tag names the invocation in logs. Defaults to the command line.
	Tag string

	// Env is appended to the inherited environment.
	Env []string
}

// String renders the command line.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

func (c *Command) tag() string {
	if c.Tag != "" {
		return c.Tag
	}
	return c.String()
}

// Outcome holds the captured output of a successful run.
type Outcome struct {
	Stdout []byte
	Stderr []byte
}

// ExitError reports a command that exited non-zero or could not start.
type ExitError struct {
	Command string
	Tag     string
	// Code is the exit status, or -1 when the process never ran.
	Code   int
	Stderr []byte
	Err    error
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(string(e.Stderr))
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Tag, msg)
}

func (e *ExitError) Unwrap() error { return e.Err }

func (e *ExitError) Is(target error) bool { return target == ErrProcessFailed }

// Executor runs commands.
type Executor interface {
	Run(ctx context.Context, cmd *Command) (*Outcome, error)
}

// Runner is the Executor backed by os/exec.
type Runner struct {
	// Stdout and Stderr, when set, receive a live copy of the
	// subprocess output in addition to the captured buffers.
	Stdout io.Writer
	Stderr io.Writer
}

var _ Executor = (*Runner)(nil)

// NewRunner returns a Runner that only captures output.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes cmd and waits for it. There is no retry at this layer.
func (r *Runner) Run(ctx context.Context, cmd *Command) (*Outcome, error) {
	log := zerolog.Ctx(ctx)
	tag := cmd.tag()

	if !cmd.Dir.IsZero() {
		// Another pipeline may create it between the check and Mkdir.
		if !cmd.Dir.CreateDirectory() && !cmd.Dir.IsDir() {
			return nil, r.fail(ctx, cmd, -1, nil, fmt.Errorf("cannot create working directory %s", cmd.Dir))
		}
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if !cmd.Dir.IsZero() {
		c.Dir = cmd.Dir.String()
	}
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = tee(&stdout, r.Stdout)
	c.Stderr = tee(&stderr, r.Stderr)

	log.Info().Str("tag", tag).Str("dir", c.Dir).Str("cmd", cmd.String()).Msg("run")
	start := time.Now()

	if err := c.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, r.fail(ctx, cmd, code, stderr.Bytes(), err)
	}

	log.Info().Str("tag", tag).Dur("elapsed", time.Since(start)).Msg("done")
	return &Outcome{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

func (r *Runner) fail(ctx context.Context, cmd *Command, code int, stderr []byte, err error) error {
	e := &ExitError{
		Command: cmd.String(),
		Tag:     cmd.tag(),
		Code:    code,
		Stderr:  stderr,
		Err:     err,
	}
	zerolog.Ctx(ctx).Error().
		Str("tag", e.Tag).
		Int("code", code).
		Str("stderr", strings.TrimSpace(string(stderr))).
		Err(err).
		Msg("failed")
	return e
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
