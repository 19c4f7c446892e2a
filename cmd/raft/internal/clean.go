// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"os"

	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/lockedfile"
	"github.com/spf13/cobra"
)

var cleanSources bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build and install trees of the selected target",
	Long: `Clean removes the dependency build and install trees of the selected
target and the project build directory. With --sources, downloaded
dependency sources are removed too.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanSources, "sources", false, "Also remove downloaded sources")
	addTargetFlags(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	t, err := selectedTarget()
	if err != nil {
		return err
	}
	conf, err := config()
	if err != nil {
		return err
	}
	p, err := openProject(conf)
	if err != nil {
		return err
	}

	unlock, err := lockedfile.MutexAt(p.InstallLock(t).String()).Lock()
	if err != nil {
		return err
	}
	defer unlock()

	dirs := []fspath.Path{p.BuildDir("", t), p.InstallDir(t)}
	if dir, err := p.BuildRoot(t); err == nil {
		dirs = append(dirs, dir)
	}
	if cleanSources {
		dirs = append(dirs, p.SourceDir(""))
	}
	for _, dir := range dirs {
		if !dir.Exists() {
			continue
		}
		if err := os.RemoveAll(dir.String()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", dir)
	}
	return nil
}
