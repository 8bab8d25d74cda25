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

// Package relock wires the artifact updater plugins against their
// collaborators. The host automation system hands each changed manifest to
// every updater in turn; an updater that does not recognize the manifest
// declines with a nil result.
package relock

import (
	"context"

	"github.com/google/relock/credentials"
	"github.com/google/relock/executor"
	"github.com/google/relock/nuget"
	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

// Collaborators are the external services the updaters run against.
type Collaborators struct {
	FS          vfs.FS
	Credentials credentials.Store
	Executor    executor.Executor
}

// Updaters returns every artifact updater in this build, wired against the
// given collaborators.
func Updaters(c Collaborators) []updater.Updater {
	return []updater.Updater{
		nuget.New(nuget.Config{
			FS:          c.FS,
			Credentials: c.Credentials,
			Executor:    c.Executor,
		}),
	}
}

// UpdateArtifacts runs each updater against the input until one produces a
// result. A nil result means no updater had anything to do.
func UpdateArtifacts(ctx context.Context, c Collaborators, in updater.Input) (*updater.Result, error) {
	for _, u := range Updaters(c) {
		res, err := u.UpdateArtifacts(ctx, in)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}
