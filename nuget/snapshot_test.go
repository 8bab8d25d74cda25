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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

func writeTree(t *testing.T, files map[string]string) *vfs.Local {
	t.Helper()
	fsys := vfs.NewLocal(t.TempDir())
	for name, contents := range files {
		if err := fsys.WriteFile(name, contents); err != nil {
			t.Fatalf("WriteFile(%q): %v", name, err)
		}
	}
	return fsys
}

func TestSnapshotLockFiles(t *testing.T) {
	fsys := writeTree(t, map[string]string{
		"b/packages.lock.json": "y",
		"a/packages.lock.json": "x",
		"a/a.csproj":           "<Project/>",
		"not-a-lock.json":      "{}",
	})

	got, err := snapshotLockFiles(fsys)
	if err != nil {
		t.Fatalf("snapshotLockFiles returned error: %v", err)
	}
	want := snapshot{
		{Name: "a/packages.lock.json", Contents: "x"},
		{Name: "b/packages.lock.json", Contents: "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshotLockFiles returned unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestSnapshotDiff(t *testing.T) {
	fsys := writeTree(t, map[string]string{
		"a/packages.lock.json": "x",
		"b/packages.lock.json": "y",
	})
	snap, err := snapshotLockFiles(fsys)
	if err != nil {
		t.Fatalf("snapshotLockFiles returned error: %v", err)
	}

	if err := fsys.WriteFile("b/packages.lock.json", "z"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := snap.diff(context.Background(), fsys)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	want := []updater.LockFile{{Name: "b/packages.lock.json", Contents: "z"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff returned unexpected result (-want +got):\n%s", diff)
	}
}

func TestSnapshotDiffNoChanges(t *testing.T) {
	fsys := writeTree(t, map[string]string{
		"a/packages.lock.json": "x",
	})
	snap, err := snapshotLockFiles(fsys)
	if err != nil {
		t.Fatalf("snapshotLockFiles returned error: %v", err)
	}

	got, err := snap.diff(context.Background(), fsys)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("diff = %+v, want no changes", got)
	}
}

func TestSnapshotDiffDeletedFile(t *testing.T) {
	fsys := writeTree(t, map[string]string{
		"a/packages.lock.json": "x",
	})
	snap, err := snapshotLockFiles(fsys)
	if err != nil {
		t.Fatalf("snapshotLockFiles returned error: %v", err)
	}

	if err := os.Remove(filepath.Join(fsys.Root(), "a", "packages.lock.json")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := snap.diff(context.Background(), fsys)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	want := []updater.LockFile{{Name: "a/packages.lock.json", Missing: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff returned unexpected result (-want +got):\n%s", diff)
	}
}

func TestSnapshotDiffEmptyVersusMissing(t *testing.T) {
	// An empty lock file is a distinct state from a missing one.
	fsys := writeTree(t, map[string]string{
		"packages.lock.json": "",
	})
	snap, err := snapshotLockFiles(fsys)
	if err != nil {
		t.Fatalf("snapshotLockFiles returned error: %v", err)
	}

	if err := os.Remove(filepath.Join(fsys.Root(), "packages.lock.json")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := snap.diff(context.Background(), fsys)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if len(got) != 1 || !got[0].Missing {
		t.Errorf("diff = %+v, want the file reported as missing", got)
	}
}
