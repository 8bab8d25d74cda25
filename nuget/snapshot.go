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

	"golang.org/x/sync/errgroup"

	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

// snapshot is the set of lock files in the working tree at one point in
// time, in stable lexical order.
type snapshot []updater.LockFile

// snapshotLockFiles enumerates every lock file in the working tree and
// captures its current contents.
func snapshotLockFiles(fsys vfs.FS) (snapshot, error) {
	names, err := fsys.FindFiles(".", lockFileName, true)
	if err != nil {
		return nil, err
	}
	snap := make(snapshot, 0, len(names))
	for _, name := range names {
		snap = append(snap, readLockFile(fsys, name))
	}
	return snap, nil
}

// readLockFile captures one lock file's current state. A file that cannot
// be read is recorded as missing, which is distinct from an empty file.
func readLockFile(fsys vfs.FS, name string) updater.LockFile {
	contents, err := fsys.ReadFile(name)
	if err != nil {
		return updater.LockFile{Name: name, Missing: true}
	}
	return updater.LockFile{Name: name, Contents: contents}
}

// diff re-reads every snapshotted lock file and returns the subset whose
// contents changed, each carrying its new contents. The comparison set is
// exactly the snapshot's file-name set. Reads are issued concurrently; the
// returned order matches the snapshot order.
func (s snapshot) diff(ctx context.Context, fsys vfs.FS) ([]updater.LockFile, error) {
	current := make([]updater.LockFile, len(s))
	g, _ := errgroup.WithContext(ctx)
	for i, f := range s {
		g.Go(func() error {
			current[i] = readLockFile(fsys, f.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var changed []updater.LockFile
	for i, before := range s {
		after := current[i]
		if after.Contents != before.Contents || after.Missing != before.Missing {
			changed = append(changed, after)
		}
	}
	return changed, nil
}
