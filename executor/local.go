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

package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/relock/log"
)

// Local runs command batches on the host via the shell. It ignores
// Options.ContainerImage and Options.ToolVersion; the host toolchain is
// whatever is on PATH.
type Local struct{}

// Run executes the batch as a single `sh -c` invocation with the commands
// joined by `&&`, so the batch stops at the first failing command.
func (Local) Run(ctx context.Context, commands []string, opts Options) error {
	if len(commands) == 0 {
		return nil
	}
	shPath, err := exec.LookPath("sh")
	if err != nil {
		return Transient(fmt.Errorf("no shell available: %w", err))
	}

	script := strings.Join(commands, " && ")
	log.Debugf("running command batch: %s", script)

	cmd := exec.CommandContext(ctx, shPath, "-c", script)
	cmd.Dir = opts.Dir
	out := &strings.Builder{}
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return &Error{Kind: KindArtifact, Stderr: strings.TrimSpace(out.String()), Err: err}
	}
	return nil
}
