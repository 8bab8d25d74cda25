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
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/relock/credentials"
	"github.com/google/relock/vfs"
)

// defaultFeedURL is the public nuget.org v3 service index, used when a
// manifest declares no registries of its own.
const defaultFeedURL = "https://api.nuget.org/v3/index.json"

// Registry is one package registry a restore may resolve packages from.
type Registry struct {
	URL string
	// Name is the registry's declared source name, if any.
	Name string
}

// RegistryDiscoverer extracts the registries declared for a manifest.
// An empty result means the caller should fall back to the defaults.
type RegistryDiscoverer interface {
	Registries(fsys vfs.FS, manifestPath string) ([]Registry, error)
}

func defaultRegistries() []Registry {
	return []Registry{{URL: defaultFeedURL, Name: "nuget.org"}}
}

// ConfigFileDiscovery discovers registries from the NuGet.config nearest
// to the manifest, walking up from the manifest's directory to the tree
// root. Only the first config file found is consulted.
type ConfigFileDiscovery struct{}

// Registries implements RegistryDiscoverer.
func (ConfigFileDiscovery) Registries(fsys vfs.FS, manifestPath string) ([]Registry, error) {
	for dir := path.Dir(manifestPath); ; dir = path.Dir(dir) {
		names, err := fsys.FindFiles(dir, ".config", false)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if !strings.EqualFold(path.Base(name), "nuget.config") {
				continue
			}
			raw, err := fsys.ReadFile(name)
			if err != nil {
				return nil, err
			}
			regs, err := parsePackageSources(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
			return regs, nil
		}
		if dir == "." {
			return nil, nil
		}
	}
}

// nugetConfig models the packageSources section of a NuGet.config file.
type nugetConfig struct {
	XMLName        xml.Name `xml:"configuration"`
	PackageSources struct {
		Add []struct {
			Key   string `xml:"key,attr"`
			Value string `xml:"value,attr"`
		} `xml:"add"`
	} `xml:"packageSources"`
}

func parsePackageSources(raw string) ([]Registry, error) {
	var cfg nugetConfig
	if err := xml.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, err
	}
	var regs []Registry
	for _, add := range cfg.PackageSources.Add {
		if add.Value == "" {
			continue
		}
		regs = append(regs, Registry{URL: add.Value, Name: add.Key})
	}
	return regs, nil
}

// sourceCommands builds the ordered commands that register each known
// registry into the transient source config file. Command order matches
// registry order and determines source precedence in the restore tool.
func (u *Updater) sourceCommands(manifestPath, configFile string) ([]string, error) {
	regs, err := u.registries.Registries(u.fs, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("discovering registries: %w", err)
	}
	if len(regs) == 0 {
		regs = defaultRegistries()
	}

	cmds := make([]string, 0, len(regs))
	for _, r := range regs {
		cmd := fmt.Sprintf("dotnet nuget add source %s --configfile %s", feedURL(r.URL), configFile)
		if r.Name != "" {
			cmd += " --name " + r.Name
		}
		if c, ok := u.lookupCredential(r.URL); ok {
			cmd += fmt.Sprintf(" --username %s --password %s --store-password-in-clear-text", c.Username, c.Password)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// lookupCredential resolves a registry credential. A credential is only
// usable when both username and password resolved.
func (u *Updater) lookupCredential(registryURL string) (credentials.Credential, bool) {
	if u.creds == nil {
		return credentials.Credential{}, false
	}
	c, found := u.creds.Lookup(providerID, registryURL)
	if !found || c.Username == "" || c.Password == "" {
		return credentials.Credential{}, false
	}
	return c, true
}

// feedURL canonicalizes a registry URL into the feed URL handed to the
// restore tool: trailing slashes are trimmed, and a bare host gets the v3
// service index path appended.
func feedURL(raw string) string {
	trimmed := strings.TrimSuffix(raw, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return trimmed
	}
	if parsed.Path == "" {
		parsed.Path = "/v3/index.json"
	}
	return parsed.String()
}
