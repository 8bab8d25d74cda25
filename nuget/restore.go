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

package nuget

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/google/relock/executor"
	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

const (
	// sourceConfigName is the file name of the transient source config
	// inside its cache directory.
	sourceConfigName = "nuget.config"

	// emptySourceConfig is the minimal well-formed document the add
	// source commands populate.
	emptySourceConfig = `<?xml version="1.0" encoding="utf-8"?>` + "\n<configuration>\n</configuration>\n"
)

// runRestore executes the package restore for one manifest: it registers
// the known registries into a transient source config file, then restores
// at solution scope when a solution file is present at the tree root, the
// manifest itself otherwise. The transient config directory is deleted on
// every exit path, including failures.
func (u *Updater) runRestore(ctx context.Context, in updater.Input) (err error) {
	version := toolVersion(u.fs, in.Config)

	cache, err := u.fs.CacheDir(Name)
	if err != nil {
		return fmt.Errorf("allocating source config dir: %w", err)
	}
	defer func() {
		err = multierr.Append(err, cache.Remove())
	}()

	if err := cache.WriteFile(sourceConfigName, emptySourceConfig); err != nil {
		return fmt.Errorf("writing source config: %w", err)
	}
	configFile := cache.Join(sourceConfigName)

	cmds, err := u.sourceCommands(in.ManifestPath, configFile)
	if err != nil {
		return err
	}

	// A solution aggregates multiple projects; restoring at solution
	// scope is preferred when one is available.
	target := in.ManifestPath
	if sln := findSolution(u.fs); sln != "" {
		target = sln
	}
	cmds = append(cmds, fmt.Sprintf("dotnet restore %s --force-evaluate --configfile %s", target, configFile))

	return u.exec.Run(ctx, cmds, executor.Options{
		Dir:            u.fs.Root(),
		ContainerImage: in.Config.ContainerImage,
		ToolVersion:    version,
	})
}

// findSolution returns the first solution file at the tree root in lexical
// order, if any. The scan is single level, not recursive.
func findSolution(fsys vfs.FS) string {
	names, err := fsys.FindFiles(".", ".sln", false)
	if err != nil || len(names) == 0 {
		return ""
	}
	return names[0]
}
