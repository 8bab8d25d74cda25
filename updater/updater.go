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

// Package updater defines the contract between the dependency-update
// automation system and its artifact updater plugins. An artifact updater
// regenerates generated files (lock files) after a manifest changed and
// reports back exactly which of them really changed, so that only real
// changes are persisted upstream.
package updater

import "context"

// Constraints are the per-run toolchain version constraints.
type Constraints struct {
	// Dotnet is the version selector for the dotnet toolchain. Empty
	// means unconstrained.
	Dotnet string
}

// Config is the per-run configuration passed to an updater.
type Config struct {
	Constraints Constraints
	// IsLockFileMaintenance requests lock file regeneration even when no
	// dependency changed, used for periodic refresh.
	IsLockFileMaintenance bool
	// ContainerImage, when set, asks the executor to run restore
	// commands inside this image rather than on the host.
	ContainerImage string
}

// Input describes one changed manifest for which artifacts may need
// regenerating.
type Input struct {
	// ManifestPath is the tree-relative path of the manifest file.
	ManifestPath string
	// NewContent is the updated manifest content. The updater persists
	// it to the working tree before restoring.
	NewContent string
	// ChangedDeps names the dependencies that were updated in the
	// manifest.
	ChangedDeps []string
	Config      Config
}

// LockFile is one lock file's name and contents. Missing marks a file that
// does not exist on disk; a missing file is distinct from an empty one.
type LockFile struct {
	Name     string
	Contents string
	Missing  bool
}

// UpdatedArtifact records one lock file whose contents changed during an
// update.
type UpdatedArtifact struct {
	File LockFile
}

// ArtifactError is a terminal per-artifact failure: the update could not
// regenerate the named lock file.
type ArtifactError struct {
	// LockFile is the tree-relative path of the lock file the update
	// targeted.
	LockFile string
	// Stderr is the failure's message text.
	Stderr string
}

// Result is the outcome of an update. Exactly one of Updated and Errors is
// populated; a nil *Result means there was nothing to do.
type Result struct {
	Updated []UpdatedArtifact
	Errors  []ArtifactError
}

// Updater is an artifact updater plugin.
type Updater interface {
	// Name returns the unique name of the updater, e.g. "nuget".
	Name() string
	// UpdateArtifacts regenerates the artifacts for one changed
	// manifest. It returns nil when the manifest is not applicable or
	// nothing changed. It returns a non-nil error only for transient
	// infrastructure failures that the automation system should retry;
	// ordinary restore failures are reported in Result.Errors.
	UpdateArtifacts(ctx context.Context, input Input) (*Result, error)
}
