// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/proc"
	"github.com/goplus/raft/internal/project"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	verbose   bool
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "raft",
	Short: "raft builds native C/C++ projects and their dependencies",
	Long: `raft fetches, builds and installs the dependencies listed in a project's
Raft/raftfile.json, then builds the project itself against them.`,
	Version:           env.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show output of external commands")
	flags.StringVarP(&workDir, "dir", "C", "", "Run as if raft was started in this directory")
}

// Execute runs the command line and exits non-zero on failure.
// SIGINT and SIGTERM cancel running commands.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "raft:", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q", level)
	}
	var out io.Writer
	switch format {
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("invalid --log-format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func setupLogger(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(log.WithContext(ctx))
	return nil
}

// newExecutor returns the executor external commands run through.
// With --verbose their output is copied to the command's streams.
var newExecutor = func(cmd *cobra.Command) proc.Executor {
	r := proc.NewRunner()
	if verbose {
		r.Stdout = cmd.OutOrStdout()
		r.Stderr = cmd.ErrOrStderr()
	}
	return r
}

func startDir() (fspath.Path, error) {
	if workDir != "" {
		return fspath.New(workDir), nil
	}
	return fspath.Cwd()
}

// openProject finds the project around --dir or the working directory.
func openProject(conf env.Config) (*project.Project, error) {
	start, err := startDir()
	if err != nil {
		return nil, err
	}
	return project.Find(start, conf)
}
