// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vfs provides the virtual filesystem layer the artifact updaters
// run against: a working tree of checked-out repository files plus a cache
// area for transient per-invocation state. Paths inside the working tree
// are slash-separated and relative to the tree root.
package vfs

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FS is the filesystem surface consumed by the artifact updaters.
type FS interface {
	// Root returns the absolute path of the working tree root.
	Root() string
	// ReadFile returns the full textual contents of a file in the tree.
	ReadFile(name string) (string, error)
	// WriteFile replaces the contents of a file in the tree, creating it
	// and any parent directories as needed.
	WriteFile(name, contents string) error
	// Exists reports whether a file exists in the tree.
	Exists(name string) bool
	// FindFiles returns the tree-relative paths of all files under dir
	// whose base name ends in suffix (case-insensitive). The result is
	// sorted lexically so enumeration order is stable.
	FindFiles(dir, suffix string, recursive bool) ([]string, error)
	// CacheDir allocates a uniquely-named directory under the given
	// namespace, outside the working tree. The caller owns the directory
	// and is responsible for removing it.
	CacheDir(namespace string) (CacheDir, error)
}

// CacheDir is a transient directory allocated by an FS. It is a scoped
// resource: callers must Remove it on every exit path once acquired.
type CacheDir struct {
	path string
}

// Path returns the absolute path of the cache directory.
func (d CacheDir) Path() string { return d.path }

// Join returns the absolute path of a file inside the cache directory.
func (d CacheDir) Join(name string) string { return filepath.Join(d.path, name) }

// WriteFile writes a file inside the cache directory.
func (d CacheDir) WriteFile(name, contents string) error {
	return os.WriteFile(d.Join(name), []byte(contents), 0644)
}

// Remove deletes the cache directory and everything in it.
func (d CacheDir) Remove() error {
	return os.RemoveAll(d.path)
}

// Local is an FS implementation rooted at a directory on the real
// filesystem, with cache directories allocated under a separate root
// (the system temp directory by default).
type Local struct {
	root      string
	cacheRoot string
}

// NewLocal returns a Local FS for the working tree at root.
func NewLocal(root string) *Local {
	return &Local{root: root, cacheRoot: os.TempDir()}
}

// NewLocalWithCache returns a Local FS with cache directories allocated
// under cacheRoot instead of the system temp directory.
func NewLocalWithCache(root, cacheRoot string) *Local {
	return &Local{root: root, cacheRoot: cacheRoot}
}

// Root returns the absolute working tree root.
func (l *Local) Root() string {
	abs, err := filepath.Abs(l.root)
	if err != nil {
		return l.root
	}
	return abs
}

func (l *Local) abs(name string) string {
	return filepath.Join(l.root, filepath.FromSlash(name))
}

// ReadFile returns the contents of a file in the working tree.
func (l *Local) ReadFile(name string) (string, error) {
	b, err := os.ReadFile(l.abs(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile replaces the contents of a file in the working tree.
func (l *Local) WriteFile(name, contents string) error {
	p := l.abs(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(contents), 0644)
}

// Exists reports whether a file exists in the working tree.
func (l *Local) Exists(name string) bool {
	info, err := os.Stat(l.abs(name))
	return err == nil && !info.IsDir()
}

// FindFiles lists files under dir whose base name ends in suffix.
func (l *Local) FindFiles(dir, suffix string, recursive bool) ([]string, error) {
	suffix = strings.ToLower(suffix)
	var found []string
	fsys := os.DirFS(l.abs(dir))
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(path.Base(p)), suffix) {
			found = append(found, path.Join(dir, p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// CacheDir allocates a unique transient directory under the namespace.
func (l *Local) CacheDir(namespace string) (CacheDir, error) {
	p := filepath.Join(l.cacheRoot, "relock", namespace, uuid.NewString())
	if err := os.MkdirAll(p, 0755); err != nil {
		return CacheDir{}, fmt.Errorf("allocating cache dir for %q: %w", namespace, err)
	}
	return CacheDir{path: p}, nil
}
