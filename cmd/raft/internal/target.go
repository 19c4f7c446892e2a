// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"strings"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/target"
	"github.com/spf13/cobra"
)

var (
	platformFlag string
	archFlag     string
	deployFlag   bool
	jobsFlag     int
)

func addTargetFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&platformFlag, "platform", string(target.PlatformHost),
		"Target platform ("+join(target.Platforms())+")")
	flags.StringVar(&archFlag, "arch", string(target.ArchHost),
		"Target architecture ("+join(target.Archs())+")")
	flags.BoolVar(&deployFlag, "deploy", false, "Build for deployment")
}

func addJobsFlag(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "Parallel jobs per native build (default: RAFT_JOBS or number of CPUs)")
}

func join[T ~string](vals []T) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func selectedTarget() (target.Target, error) {
	return target.Parse(platformFlag, archFlag, deployFlag)
}

// config returns the environment configuration with command line
// overrides applied.
func config() (env.Config, error) {
	conf, err := env.FromEnviron()
	if err != nil {
		return env.Config{}, err
	}
	if jobsFlag < 0 {
		return env.Config{}, fmt.Errorf("invalid --jobs %d", jobsFlag)
	}
	if jobsFlag > 0 {
		conf.Jobs = jobsFlag
	}
	return conf, nil
}
