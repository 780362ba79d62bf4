package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/zpdzap/sb/internal/naming"
)

// Manager drives sandbox lifecycle transitions against the engine.
type Manager struct {
	engine Engine
	store  *StateStore

	image          string
	extraMounts    []string
	envPassthrough []string
	sensitiveDirs  []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithImage sets the default container image.
func WithImage(image string) Option {
	return func(m *Manager) {
		if image != "" {
			m.image = image
		}
	}
}

// WithExtraMounts sets the configured default extra mounts.
func WithExtraMounts(mounts []string) Option {
	return func(m *Manager) { m.extraMounts = mounts }
}

// WithEnvPassthrough sets the configured default env passthrough names.
func WithEnvPassthrough(env []string) Option {
	return func(m *Manager) { m.envPassthrough = env }
}

// WithSensitiveDirs adds configured directories to the sensitive-path guard.
func WithSensitiveDirs(dirs []string) Option {
	return func(m *Manager) { m.sensitiveDirs = dirs }
}

// NewManager creates a manager over an engine.
func NewManager(engine Engine, opts ...Option) *Manager {
	m := &Manager{
		engine: engine,
		store:  NewStateStore(engine),
		image:  DefaultImage,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store exposes the read-only state store.
func (m *Manager) Store() *StateStore { return m.store }

// CreateOptions are the per-invocation inputs to Create.
type CreateOptions struct {
	// Workspace is the directory to sandbox; empty means the current
	// directory. Canonicalized before use.
	Workspace string
	// Name overrides the derived sandbox name.
	Name string
	// Force bypasses the sensitive-directory guard.
	Force bool
	// Mounts are additional mount specs ("path" or "path:ro|rw").
	Mounts []string
	// Env are additional passthrough names ("VAR" or "VAR=value").
	Env []string
	// Image overrides the configured image.
	Image string
}

// Create instantiates and starts a sandbox for a workspace.
//
// Fails with ErrAlreadyExists if the identity already has a container
// (managed or not — a concurrent create loses the engine's atomic name
// claim and reports the same), ErrSensitiveDirectory if the workspace is
// guarded and Force is unset, ErrMountUnresolvable for a missing mount
// path.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (Sandbox, error) {
	workspace := opts.Workspace
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Sandbox{}, fmt.Errorf("resolving working directory: %w", err)
		}
		workspace = wd
	}
	workspace = naming.Canonicalize(workspace)

	name := opts.Name
	if name == "" {
		name = naming.Derive(workspace)
	}

	if !opts.Force && IsSensitive(workspace, m.sensitiveDirs) {
		return Sandbox{}, fmt.Errorf("%w: %s (use --force to override)", ErrSensitiveDirectory, workspace)
	}

	// Reject before touching the engine state; the engine's name
	// uniqueness still backstops concurrent creates.
	switch _, err := m.store.Lookup(ctx, name); {
	case err == nil:
		return Sandbox{}, fmt.Errorf("sandbox %q: %w", name, ErrAlreadyExists)
	case errors.Is(err, ErrNotFound):
	default:
		return Sandbox{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Sandbox{}, fmt.Errorf("resolving home directory: %w", err)
	}
	resolution, err := Resolve(FixedMounts(workspace, home), m.extraMounts, opts.Mounts, m.envPassthrough, opts.Env, home)
	if err != nil {
		return Sandbox{}, err
	}

	image := opts.Image
	if image == "" {
		image = m.image
	}
	if err := m.engine.EnsureImage(ctx, image); err != nil {
		return Sandbox{}, err
	}

	id, err := m.engine.Create(ctx, CreateSpec{
		Name:       name,
		Image:      image,
		Labels:     managedLabels(name, workspace),
		Mounts:     resolution.Mounts,
		Env:        containerEnv(resolution.Env),
		WorkingDir: WorkspaceTarget,
	})
	if err != nil {
		return Sandbox{}, err
	}
	if err := m.engine.Start(ctx, id); err != nil {
		return Sandbox{}, err
	}

	return Sandbox{
		Name:        name,
		Workspace:   workspace,
		ContainerID: id,
		Status:      StatusRunning,
	}, nil
}

// containerEnv materializes the passthrough set into VAR=value pairs.
// Bare names read the host environment now, at start time; unset names are
// dropped. HOST_UID/HOST_GID are always present for the entrypoint's user
// provisioning.
func containerEnv(passthrough []string) []string {
	env := []string{
		fmt.Sprintf("HOST_UID=%d", os.Getuid()),
		fmt.Sprintf("HOST_GID=%d", os.Getgid()),
	}
	for _, e := range passthrough {
		if name, _, pinned := strings.Cut(e, "="); pinned {
			env = append(env, e)
		} else if value, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+value)
		}
	}
	return env
}

// Attach ensures the named sandbox is running, starting it if stopped, and
// returns it. The interactive session itself is opened by the caller via
// AttachCmd. Fails with ErrNotFound if the sandbox is absent.
func (m *Manager) Attach(ctx context.Context, name string) (Sandbox, error) {
	sb, err := m.store.Lookup(ctx, name)
	if err != nil {
		return Sandbox{}, err
	}
	if sb.Status != StatusRunning {
		if err := m.engine.Start(ctx, sb.ContainerID); err != nil {
			return Sandbox{}, err
		}
		sb.Status = StatusRunning
	}
	return sb, nil
}

// AttachCmd builds the interactive shell command for a running sandbox.
// TTY allocation goes through the docker CLI rather than the SDK: exec -it
// handles terminal raw mode and signal forwarding (an interrupt reaches
// the session, not the container's run state).
func (m *Manager) AttachCmd(sb Sandbox) *exec.Cmd {
	user := fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	cmd := exec.Command("docker", "exec", "-it", "--user", user,
		"-w", WorkspaceTarget, sb.ContainerID, "/bin/zsh")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Stop gracefully stops a running sandbox. Stopping an already-stopped
// sandbox is a no-op; a missing sandbox is ErrNotFound.
func (m *Manager) Stop(ctx context.Context, name string) (Sandbox, error) {
	sb, err := m.store.Lookup(ctx, name)
	if err != nil {
		return Sandbox{}, err
	}
	if sb.Status == StatusRunning {
		if err := m.engine.Stop(ctx, sb.ContainerID); err != nil {
			return Sandbox{}, err
		}
	}
	sb.Status = StatusStopped
	return sb, nil
}

// Destroy force-removes a sandbox regardless of run state. Destroying an
// absent sandbox is a no-op, not an error; the returned Sandbox then has
// StatusAbsent and only the name set.
func (m *Manager) Destroy(ctx context.Context, name string) (Sandbox, error) {
	sb, err := m.store.Lookup(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return Sandbox{Name: name, Status: StatusAbsent}, nil
	}
	if err != nil {
		return Sandbox{}, err
	}
	if err := m.engine.Remove(ctx, sb.ContainerID); err != nil {
		return Sandbox{}, err
	}
	sb.Status = StatusAbsent
	sb.ContainerID = ""
	return sb, nil
}

// List returns all managed sandboxes.
func (m *Manager) List(ctx context.Context) ([]Sandbox, error) {
	return m.store.List(ctx)
}

// ForPath returns the sandbox for a workspace path, if any.
func (m *Manager) ForPath(ctx context.Context, path string) (Sandbox, error) {
	return m.store.Lookup(ctx, naming.Derive(path))
}
