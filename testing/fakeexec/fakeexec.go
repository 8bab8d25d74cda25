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

// Package fakeexec provides a fake command executor for testing.
package fakeexec

import (
	"context"
	"sync"

	"github.com/google/relock/executor"
)

// Call is one recorded Run invocation.
type Call struct {
	Commands []string
	Opts     executor.Options
}

// Executor is a fake executor.Executor that records every Run call and
// returns scripted results.
type Executor struct {
	mu    sync.Mutex
	calls []Call

	// OnRun, if set, runs during each Run call, e.g. to mutate lock
	// files the way a real restore would. Its error is returned from
	// Run.
	OnRun func(commands []string, opts executor.Options) error
	// Err is returned from Run when OnRun is unset or returned nil.
	Err error
}

// Run records the call and returns the scripted result.
func (f *Executor) Run(_ context.Context, commands []string, opts executor.Options) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Commands: commands, Opts: opts})
	f.mu.Unlock()
	if f.OnRun != nil {
		if err := f.OnRun(commands, opts); err != nil {
			return err
		}
	}
	return f.Err
}

// Calls returns all recorded Run invocations in order.
func (f *Executor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
