// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"text/tabwriter"

	"github.com/goplus/raft/internal/build"
	"github.com/goplus/raft/internal/project"
	"github.com/goplus/raft/internal/target"
	"github.com/spf13/cobra"
)

var depsList bool

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Build and install the dependencies only",
	Long: `Deps downloads, builds and installs every dependency listed in the
manifest for the selected target without building the project.

With --list, it prints the dependencies installed for the target instead.`,
	Args: cobra.NoArgs,
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVarP(&depsList, "list", "l", false, "List installed dependencies")
	addTargetFlags(depsCmd)
	addJobsFlag(depsCmd)
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
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
	if depsList {
		return listInstalled(cmd, p, t)
	}

	b := build.NewBuilder(conf, build.WithExecutor(newExecutor(cmd)))
	if err := b.Dependencies(cmd.Context(), p, t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %d dependencies into %s\n",
		len(p.Manifest.Dependencies), p.InstallDir(t))
	return nil
}

func listInstalled(cmd *cobra.Command, p *project.Project, t target.Target) error {
	records, err := build.Installed(p, t)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No dependencies installed for %s\n", t)
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBUILD SYSTEM\tLOCATION\tREF\tINSTALLED")
	for _, r := range records {
		ref := r.Repository.Ref
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.BuildSystem, r.Repository.Location, ref,
			r.InstallTime.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
