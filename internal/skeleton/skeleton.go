// Copyright 2024 The raft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package skeleton instantiates new project trees from templates.
//
// A template is a file tree. Files whose name ends in ".tmpl" are
// rendered with text/template and written without the suffix; all other
// files are copied as is.
package skeleton

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrExists is returned when instantiation would overwrite a file.
var ErrExists = errors.New("file already exists")

const tmplExt = ".tmpl"

//go:embed all:template
var defaultFS embed.FS

// Default returns the built-in project template.
func Default() fs.FS {
	sub, err := fs.Sub(defaultFS, "template")
	if err != nil {
		panic(err)
	}
	return sub
}

// Data is the context the built-in template is rendered with.
type Data struct {
	// Name of the project and of its executable target.
	Name string
	// Raft is the minimum tool version recorded in the manifest.
	Raft string
}

type file struct {
	dest string
	data []byte
	mode fs.FileMode
}

// Instantiate renders the template tree fsys into dest with data.
// Every file is rendered before anything is written, and nothing is
// written if any destination file already exists.
func Instantiate(fsys fs.FS, dest string, data any) error {
	var files []file
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		out := name
		if strings.HasSuffix(name, tmplExt) {
			out = strings.TrimSuffix(name, tmplExt)
			if content, err = render(name, content, data); err != nil {
				return err
			}
		}
		mode := fs.FileMode(0o644)
		if info, err := d.Info(); err == nil && info.Mode().Perm()&0o111 != 0 {
			mode = 0o755
		}
		files = append(files, file{dest: filepath.Join(dest, filepath.FromSlash(out)), data: content, mode: mode})
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if _, err := os.Lstat(f.dest); err == nil {
			return fmt.Errorf("%s: %w", f.dest, ErrExists)
		}
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.dest, f.data, f.mode); err != nil {
			return err
		}
	}
	return nil
}

func render(name string, content []byte, data any) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
