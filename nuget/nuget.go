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

// Package nuget implements the artifact updater for NuGet projects. Given
// a changed project file it re-runs `dotnet restore` against a transient
// package source configuration and reports which packages.lock.json files
// actually changed.
package nuget

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/relock/credentials"
	"github.com/google/relock/executor"
	"github.com/google/relock/log"
	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

const (
	// Name is the unique name of this updater.
	Name = "nuget"

	// lockFileName is the fixed lock file name `dotnet restore
	// --use-lock-file` generates next to each project file.
	lockFileName = "packages.lock.json"

	// providerID keys credential lookups for NuGet registries.
	providerID = "nuget"
)

// projectSuffixes are the manifest kinds this updater recognizes. Other
// manifest kinds are declined rather than guessing a restore target.
var projectSuffixes = []string{".csproj", ".fsproj", ".vbproj"}

// Config is the configuration for the Updater.
type Config struct {
	// FS is the working tree of the repository being updated.
	FS vfs.FS
	// Credentials resolves per-registry credentials.
	Credentials credentials.Store
	// Executor runs the assembled restore command batch.
	Executor executor.Executor
	// Registries discovers the package registries declared for a
	// manifest. Defaults to ConfigFileDiscovery.
	Registries RegistryDiscoverer
}

// Updater regenerates packages.lock.json files for changed project files.
type Updater struct {
	fs         vfs.FS
	creds      credentials.Store
	exec       executor.Executor
	registries RegistryDiscoverer
}

var _ updater.Updater = &Updater{}

// New returns a NuGet artifact updater.
func New(cfg Config) *Updater {
	reg := cfg.Registries
	if reg == nil {
		reg = ConfigFileDiscovery{}
	}
	return &Updater{
		fs:         cfg.FS,
		creds:      cfg.Credentials,
		exec:       cfg.Executor,
		registries: reg,
	}
}

// Name of the updater.
func (u *Updater) Name() string { return Name }

// UpdateArtifacts regenerates the lock files affected by one changed
// project file. It returns nil when the manifest is not a recognized
// project file, has no lock file, or the restore produced no changes.
// Transient executor failures are returned as errors for the caller to
// retry; every other failure is reported as a per-artifact error result.
func (u *Updater) UpdateArtifacts(ctx context.Context, in updater.Input) (*updater.Result, error) {
	if !isProjectFile(in.ManifestPath) {
		log.Debugf("nuget: not updating %s, not a project file", in.ManifestPath)
		return nil, nil
	}

	lockPath := path.Join(path.Dir(in.ManifestPath), lockFileName)
	if !u.fs.Exists(lockPath) {
		log.Debugf("nuget: no lock file found for %s", in.ManifestPath)
		return nil, nil
	}

	// The snapshot is the diff baseline and must be captured before the
	// manifest is rewritten or the restore runs.
	snap, err := snapshotLockFiles(u.fs)
	if err != nil {
		return u.artifactError(lockPath, err), nil
	}

	if len(in.ChangedDeps) == 0 && !in.Config.IsLockFileMaintenance {
		log.Debugf("nuget: no updated deps for %s, skipping restore", in.ManifestPath)
		return nil, nil
	}

	changed, err := u.regenerate(ctx, in, snap)
	if err != nil {
		if executor.IsTransient(err) {
			return nil, err
		}
		return u.artifactError(lockPath, err), nil
	}
	if len(changed) == 0 {
		log.Debugf("nuget: no lock file changes for %s", in.ManifestPath)
		return nil, nil
	}

	res := &updater.Result{}
	for _, f := range changed {
		res.Updated = append(res.Updated, updater.UpdatedArtifact{File: f})
	}
	return res, nil
}

// regenerate persists the new manifest content, runs the restore, and
// diffs the lock files against the pre-restore snapshot.
func (u *Updater) regenerate(ctx context.Context, in updater.Input, snap snapshot) ([]updater.LockFile, error) {
	if err := u.fs.WriteFile(in.ManifestPath, in.NewContent); err != nil {
		return nil, fmt.Errorf("writing %s: %w", in.ManifestPath, err)
	}
	if err := u.runRestore(ctx, in); err != nil {
		return nil, err
	}
	return snap.diff(ctx, u.fs)
}

func (u *Updater) artifactError(lockPath string, err error) *updater.Result {
	log.Warnf("nuget: failed to update lock file %s: %v", lockPath, err)
	return &updater.Result{Errors: []updater.ArtifactError{{
		LockFile: lockPath,
		Stderr:   executor.Stderr(err),
	}}}
}

func isProjectFile(name string) bool {
	return slices.Contains(projectSuffixes, strings.ToLower(path.Ext(name)))
}
