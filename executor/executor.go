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

// Package executor runs the shell command batches assembled by the artifact
// updaters, either directly on the host or inside a version-pinned
// container image.
//
// Failures are classified into two kinds: transient infrastructure
// failures, which callers re-raise so the surrounding automation can retry
// the whole operation, and artifact failures, which callers convert into a
// terminal per-artifact error result.
package executor

import (
	"context"
	"errors"
)

// Options control how a command batch is executed.
type Options struct {
	// Dir is the working directory for the batch, usually the working
	// tree root.
	Dir string
	// ContainerImage, when set, runs the batch inside a container of
	// this image instead of on the host.
	ContainerImage string
	// ToolVersion is the version constraint for the toolchain the batch
	// invokes. Empty means unconstrained (latest/default). Container
	// executors use it to pin the image tag.
	ToolVersion string
}

// Executor runs an ordered batch of shell commands as one unit, failing on
// the first non-zero exit.
type Executor interface {
	Run(ctx context.Context, commands []string, opts Options) error
}

// Kind classifies an execution failure.
type Kind int

const (
	// KindArtifact marks a command failure terminal to the artifact
	// being updated. This is the default classification.
	KindArtifact Kind = iota
	// KindTransient marks an infrastructure failure (executor
	// unavailable, sandbox not reachable) that the caller should
	// re-raise for the surrounding system to retry.
	KindTransient
)

// Error is an execution failure with a kind and captured stderr.
type Error struct {
	Kind   Kind
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command execution failed"
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Transient wraps err as a transient infrastructure failure.
func Transient(err error) error {
	return &Error{Kind: KindTransient, Err: err}
}

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransient
}

// Stderr returns the captured stderr of an execution failure, falling back
// to the error message when no output was captured.
func Stderr(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Stderr != "" {
		return e.Stderr
	}
	return err.Error()
}
