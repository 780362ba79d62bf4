package sandbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

const (
	// pingTimeout bounds the initial reachability probe.
	pingTimeout = 5 * time.Second
	// opTimeout bounds any single engine call other than image pulls.
	opTimeout = 60 * time.Second
	// stopGraceSeconds is how long the engine waits before killing on stop.
	stopGraceSeconds = 10
)

// dockerEngine implements Engine against a local Docker daemon.
type dockerEngine struct {
	cli *client.Client
}

// ConnectDocker connects to the Docker daemon, trying the environment
// configuration first and then common socket locations (Docker Desktop,
// Colima). Returns ErrEngineUnavailable if no daemon answers a ping.
func ConnectDocker(ctx context.Context) (Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		_, pingErr := cli.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			return &dockerEngine{cli: cli}, nil
		}
		cli.Close()
	}

	home, _ := os.UserHomeDir()
	sockets := []string{
		"unix://" + home + "/.docker/run/docker.sock",
		"unix:///var/run/docker.sock",
		"unix://" + home + "/.colima/docker.sock",
	}
	for _, socket := range sockets {
		cli, err := client.NewClientWithOpts(
			client.WithHost(socket),
			client.WithAPIVersionNegotiation(),
		)
		if err != nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		_, pingErr := cli.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			return &dockerEngine{cli: cli}, nil
		}
		cli.Close()
	}

	return nil, fmt.Errorf("%w: is Docker running?", ErrEngineUnavailable)
}

func (e *dockerEngine) Create(ctx context.Context, spec CreateSpec) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	mounts := make([]mount.Mount, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	// The container starts as root; the entrypoint provisions a user from
	// HOST_UID/HOST_GID and drops privileges.
	cfg := &container.Config{
		Image:      spec.Image,
		Labels:     spec.Labels,
		Env:        spec.Env,
		WorkingDir: spec.WorkingDir,
		Tty:        true,
		OpenStdin:  true,
	}
	hostCfg := &container.HostConfig{Mounts: mounts}

	resp, err := e.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		if errdefs.IsConflict(err) {
			return "", fmt.Errorf("container %q: %w", spec.Name, ErrAlreadyExists)
		}
		return "", e.wrap("create", err)
	}
	return resp.ID, nil
}

func (e *dockerEngine) Start(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := e.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return e.wrap("start", err)
	}
	return nil
}

func (e *dockerEngine) Stop(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	grace := stopGraceSeconds
	if err := e.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &grace}); err != nil {
		return e.wrap("stop", err)
	}
	return nil
}

func (e *dockerEngine) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	err := e.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		return e.wrap("remove", err)
	}
	return nil
}

func (e *dockerEngine) Find(ctx context.Context, name string) (ContainerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// The name filter matches substrings; compare exact names below.
	containers, err := e.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return ContainerInfo{}, e.wrap("list", err)
	}
	for _, c := range containers {
		for _, n := range c.Names {
			if n == "/"+name {
				return toInfo(c.ID, name, c.Labels, c.State, c.Created), nil
			}
		}
	}
	return ContainerInfo{}, fmt.Errorf("container %q: %w", name, ErrNotFound)
}

func (e *dockerEngine) ListManaged(ctx context.Context, label, value string) ([]ContainerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	containers, err := e.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", label+"="+value)),
	})
	if err != nil {
		return nil, e.wrap("list", err)
	}

	infos := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		infos = append(infos, toInfo(c.ID, name, c.Labels, c.State, c.Created))
	}
	return infos, nil
}

func (e *dockerEngine) EnsureImage(ctx context.Context, imageName string) error {
	inspectCtx, cancel := context.WithTimeout(ctx, opTimeout)
	_, _, err := e.cli.ImageInspectWithRaw(inspectCtx, imageName)
	cancel()
	if err == nil {
		return nil
	}

	// Pulls can legitimately take a while; no short timeout here.
	reader, err := e.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return e.wrap("pull "+imageName, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return e.wrap("pull "+imageName, err)
	}
	return nil
}

// wrap tags an unexpected engine failure as EngineUnavailable so callers
// can distinguish it from lifecycle errors.
func (e *dockerEngine) wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, op, err)
}

func toInfo(id, name string, labels map[string]string, state string, created int64) ContainerInfo {
	return ContainerInfo{
		ID:      id,
		Name:    name,
		Labels:  labels,
		Running: state == "running",
		Created: time.Unix(created, 0),
	}
}
