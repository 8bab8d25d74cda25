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
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/google/relock/updater"
	"github.com/google/relock/vfs"
)

// globalJSONName is the project-wide SDK version descriptor at the tree
// root.
const globalJSONName = "global.json"

// toolVersion resolves the dotnet toolchain version constraint for the
// restore invocation. An explicit config constraint always wins; otherwise
// the sdk.version field of a global.json at the tree root is used when one
// is present and parseable. Absence and parse failure both mean
// unconstrained.
func toolVersion(fsys vfs.FS, cfg updater.Config) string {
	if cfg.Constraints.Dotnet != "" {
		return cfg.Constraints.Dotnet
	}
	raw, err := fsys.ReadFile(globalJSONName)
	if err != nil {
		return ""
	}
	// global.json allows comments and trailing commas.
	doc := jsonc.ToJSON([]byte(raw))
	if !gjson.ValidBytes(doc) {
		return ""
	}
	return gjson.GetBytes(doc, "sdk.version").String()
}
