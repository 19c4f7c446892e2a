// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the directories used for the selected target",
	Args:  cobra.NoArgs,
	RunE:  runPaths,
}

func init() {
	addTargetFlags(pathsCmd)
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root=%s\n", p.Root)
	fmt.Fprintf(out, "manifest=%s\n", p.ManifestFile)
	fmt.Fprintf(out, "sources=%s\n", p.SourceDir(""))
	fmt.Fprintf(out, "builds=%s\n", p.BuildDir("", t))
	fmt.Fprintf(out, "install=%s\n", p.InstallDir(t))
	fmt.Fprintf(out, "include=%s\n", p.IncludeDir(t))
	fmt.Fprintf(out, "lib=%s\n", p.LibDir(t))
	if dir, err := p.BuildRoot(t); err == nil {
		fmt.Fprintf(out, "build=%s\n", dir)
	}
	return nil
}
