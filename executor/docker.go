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
	"io"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/google/relock/log"
)

// workMountPath is the fixed mount point for the working tree inside the
// container.
const workMountPath = "/workdir"

// Docker runs command batches inside a container of the configured image,
// with the working tree bind-mounted. The image tag pins the toolchain
// version: when Options.ToolVersion is set and the image reference carries
// no tag, the version is used as the tag.
type Docker struct{}

// Run executes the batch inside a fresh container. The container is
// removed when the batch finishes, whether it succeeded or not.
func (Docker) Run(ctx context.Context, commands []string, opts Options) (err error) {
	if len(commands) == 0 {
		return nil
	}
	if opts.ContainerImage == "" {
		return Transient(fmt.Errorf("docker executor requires a container image"))
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return Transient(fmt.Errorf("docker client: %w", err))
	}
	defer cli.Close()
	if _, err := cli.Ping(ctx); err != nil {
		return Transient(fmt.Errorf("cannot connect to Docker daemon: %w", err))
	}

	ref := imageRef(opts.ContainerImage, opts.ToolVersion)
	rc, err := cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return Transient(fmt.Errorf("pulling %s: %w", ref, err))
	}
	_, _ = io.Copy(io.Discard, rc)
	rc.Close()

	workDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return fmt.Errorf("resolving working dir: %w", err)
	}

	script := strings.Join(commands, " && ")
	log.Debugf("running command batch in %s: %s", ref, script)

	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image:      ref,
		Cmd:        []string{"sh", "-c", script},
		WorkingDir: workMountPath,
	}, &container.HostConfig{
		Mounts: []mount.Mount{{
			Type:   mount.TypeBind,
			Source: workDir,
			Target: workMountPath,
		}},
	}, nil, nil, "")
	if err != nil {
		return Transient(fmt.Errorf("creating container: %w", err))
	}
	defer func() {
		if rmErr := cli.ContainerRemove(context.WithoutCancel(ctx), resp.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			log.Warnf("failed to remove container %s: %v", resp.ID, rmErr)
		}
	}()

	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return Transient(fmt.Errorf("starting container: %w", err))
	}

	waitC, errC := cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case werr := <-errC:
		return Transient(fmt.Errorf("waiting for container: %w", werr))
	case status := <-waitC:
		if status.StatusCode == 0 {
			return nil
		}
		stderr := containerStderr(ctx, cli, resp.ID)
		return &Error{
			Kind:   KindArtifact,
			Stderr: stderr,
			Err:    fmt.Errorf("command batch exited with status %d", status.StatusCode),
		}
	}
}

// containerStderr collects the stderr stream of a finished container.
func containerStderr(ctx context.Context, cli *client.Client, id string) string {
	logs, err := cli.ContainerLogs(ctx, id, container.LogsOptions{ShowStderr: true})
	if err != nil {
		return ""
	}
	defer logs.Close()
	buf := &strings.Builder{}
	if _, err := stdcopy.StdCopy(io.Discard, buf, logs); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// imageRef pins the image to the toolchain version via its tag, unless the
// reference already carries an explicit tag or digest.
func imageRef(img, version string) string {
	if version == "" {
		return img
	}
	if strings.Contains(img, "@") {
		return img
	}
	// A colon after the last slash means the reference is already tagged.
	last := img[strings.LastIndex(img, "/")+1:]
	if strings.Contains(last, ":") {
		return img
	}
	return img + ":" + version
}
