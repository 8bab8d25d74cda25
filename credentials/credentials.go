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

// Package credentials defines the credential store surface consumed by the
// artifact updaters to resolve registry credentials. Credentials are placed
// into transient, always-deleted source config files and never persisted
// anywhere else by the updaters.
package credentials

import "strings"

// Credential is a username/password pair for a package registry.
type Credential struct {
	Username string
	Password string
}

// Store resolves credentials for registry URLs.
type Store interface {
	// Lookup returns the credential registered for the given provider and
	// registry URL, or false if none is known. A returned credential may
	// still have an empty username or password.
	Lookup(providerID, url string) (Credential, bool)
}

// StaticStore is a Store backed by an in-memory table, keyed by provider
// and registry URL. The zero value is an empty store.
type StaticStore struct {
	creds map[string]Credential
}

func key(providerID, url string) string {
	return providerID + "\n" + strings.TrimSuffix(url, "/")
}

// Add registers a credential for a provider/URL pair, replacing any
// previous entry.
func (s *StaticStore) Add(providerID, url string, c Credential) {
	if s.creds == nil {
		s.creds = make(map[string]Credential)
	}
	s.creds[key(providerID, url)] = c
}

// Lookup returns the credential for the provider/URL pair.
func (s *StaticStore) Lookup(providerID, url string) (Credential, bool) {
	c, ok := s.creds[key(providerID, url)]
	return c, ok
}
