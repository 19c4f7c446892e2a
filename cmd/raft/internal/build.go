// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/goplus/raft/internal/build"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dependencies and then the project",
	Long: `Build downloads, builds and installs every dependency listed in the
manifest for the selected target, then configures and builds the project
in its build directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addTargetFlags(buildCmd)
	addJobsFlag(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	b := build.NewBuilder(conf, build.WithExecutor(newExecutor(cmd)))
	if err := b.Build(cmd.Context(), p, t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %s for %s\n", p.Root, t)
	return nil
}
