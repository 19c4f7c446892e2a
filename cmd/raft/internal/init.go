// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goplus/raft/internal/env"
	"github.com/goplus/raft/internal/fspath"
	"github.com/goplus/raft/internal/manifest"
	"github.com/goplus/raft/internal/skeleton"
	"github.com/spf13/cobra"
)

var initName string

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a new project",
	Long: `Init creates a project skeleton with a manifest, a CMakeLists.txt and a
main source file in the given directory (default: the working directory).

The project name is asked for unless --name is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dest, err := startDir()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if filepath.IsAbs(args[0]) {
			dest = fspath.New(args[0])
		} else {
			dest = dest.Append(args[0])
		}
	}
	if dest, err = dest.Abs(); err != nil {
		return err
	}

	name := initName
	if name == "" {
		name, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Project name", dest.Base())
		if err != nil {
			return err
		}
	}
	if err := checkProjectName(name); err != nil {
		return err
	}

	data := skeleton.Data{Name: name, Raft: env.Version}
	if err := skeleton.Instantiate(skeleton.Default(), dest.String(), data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized project %s in %s\n", name, dest)
	return nil
}

// prompt asks a question on w and reads one answer line from r.
// An empty answer selects def.
func prompt(r io.Reader, w io.Writer, question, def string) (string, error) {
	fmt.Fprintf(w, "%s [%s]: ", question, def)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

func checkProjectName(name string) error {
	if err := manifest.CheckName(name); err != nil {
		return fmt.Errorf("invalid project name: %w", err)
	}
	if strings.ContainsAny(name, " \t\"'$;()") {
		return fmt.Errorf("invalid project name %q: must be a CMake identifier", name)
	}
	return nil
}
