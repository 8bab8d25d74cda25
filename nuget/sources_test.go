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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/relock/credentials"
)

const corpConfig = `<?xml version="1.0" encoding="utf-8"?>
<configuration>
  <packageSources>
    <add key="corp" value="https://nuget.corp.example.com/v3/index.json" />
    <add key="mirror" value="https://mirror.example.com/v3/index.json" />
  </packageSources>
</configuration>`

func TestConfigFileDiscovery(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		manifestPath string
		want         []Registry
	}{
		{
			name:         "no config file",
			files:        map[string]string{"a.csproj": "<Project/>"},
			manifestPath: "a.csproj",
			want:         nil,
		},
		{
			name: "config next to manifest",
			files: map[string]string{
				"sub/a.csproj":     "<Project/>",
				"sub/NuGet.config": corpConfig,
			},
			manifestPath: "sub/a.csproj",
			want: []Registry{
				{URL: "https://nuget.corp.example.com/v3/index.json", Name: "corp"},
				{URL: "https://mirror.example.com/v3/index.json", Name: "mirror"},
			},
		},
		{
			name: "config at tree root",
			files: map[string]string{
				"sub/deep/a.csproj": "<Project/>",
				"nuget.config":      corpConfig,
			},
			manifestPath: "sub/deep/a.csproj",
			want: []Registry{
				{URL: "https://nuget.corp.example.com/v3/index.json", Name: "corp"},
				{URL: "https://mirror.example.com/v3/index.json", Name: "mirror"},
			},
		},
		{
			name: "nearest config wins",
			files: map[string]string{
				"sub/a.csproj": "<Project/>",
				"sub/NuGet.config": `<?xml version="1.0"?>
<configuration>
  <packageSources>
    <add key="near" value="https://near.example.com/v3/index.json" />
  </packageSources>
</configuration>`,
				"NuGet.config": corpConfig,
			},
			manifestPath: "sub/a.csproj",
			want:         []Registry{{URL: "https://near.example.com/v3/index.json", Name: "near"}},
		},
		{
			name: "config without sources",
			files: map[string]string{
				"a.csproj":     "<Project/>",
				"NuGet.config": `<configuration></configuration>`,
			},
			manifestPath: "a.csproj",
			want:         nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fsys := writeTree(t, test.files)
			got, err := ConfigFileDiscovery{}.Registries(fsys, test.manifestPath)
			if err != nil {
				t.Fatalf("Registries returned error: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Registries returned unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceCommandsOrder(t *testing.T) {
	fsys := writeTree(t, map[string]string{
		"a.csproj":     "<Project/>",
		"NuGet.config": corpConfig,
	})
	u := New(Config{FS: fsys, Credentials: &credentials.StaticStore{}})

	got, err := u.sourceCommands("a.csproj", "/tmp/cfg/nuget.config")
	if err != nil {
		t.Fatalf("sourceCommands returned error: %v", err)
	}
	want := []string{
		"dotnet nuget add source https://nuget.corp.example.com/v3/index.json --configfile /tmp/cfg/nuget.config --name corp",
		"dotnet nuget add source https://mirror.example.com/v3/index.json --configfile /tmp/cfg/nuget.config --name mirror",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sourceCommands returned unexpected commands (-want +got):\n%s", diff)
	}
}

func TestSourceCommandsDefaultRegistry(t *testing.T) {
	fsys := writeTree(t, map[string]string{"a.csproj": "<Project/>"})
	u := New(Config{FS: fsys, Credentials: &credentials.StaticStore{}})

	got, err := u.sourceCommands("a.csproj", "/tmp/cfg/nuget.config")
	if err != nil {
		t.Fatalf("sourceCommands returned error: %v", err)
	}
	want := []string{
		"dotnet nuget add source https://api.nuget.org/v3/index.json --configfile /tmp/cfg/nuget.config --name nuget.org",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sourceCommands returned unexpected commands (-want +got):\n%s", diff)
	}
}

func TestFeedURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://api.nuget.org/v3/index.json", "https://api.nuget.org/v3/index.json"},
		{"https://api.nuget.org/v3/index.json/", "https://api.nuget.org/v3/index.json"},
		{"https://feed.example.com", "https://feed.example.com/v3/index.json"},
		{"https://feed.example.com/", "https://feed.example.com/v3/index.json"},
		{"https://feed.example.com/custom/path", "https://feed.example.com/custom/path"},
		{"not a url", "not a url"},
	}

	for _, test := range tests {
		if got := feedURL(test.raw); got != test.want {
			t.Errorf("feedURL(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
