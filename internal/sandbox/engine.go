package sandbox

import (
	"context"
	"time"
)

// ContainerInfo is the engine-reported record for one container.
type ContainerInfo struct {
	ID      string
	Name    string
	Labels  map[string]string
	Running bool
	Created time.Time
}

// CreateSpec describes a container to instantiate.
type CreateSpec struct {
	Name       string
	Image      string
	Labels     map[string]string
	Mounts     []Mount
	Env        []string
	WorkingDir string
}

// Engine is the container-engine surface the controller consumes. The
// production implementation talks to the Docker daemon; tests substitute
// a fake.
type Engine interface {
	// Create instantiates a container without starting it. It relies on
	// the engine's atomic name uniqueness: a concurrent create with the
	// same name fails rather than producing two containers.
	Create(ctx context.Context, spec CreateSpec) (id string, err error)

	Start(ctx context.Context, id string) error

	// Stop gracefully stops a container. Stopping a stopped container
	// is not an error.
	Stop(ctx context.Context, id string) error

	// Remove force-removes a container regardless of run state.
	Remove(ctx context.Context, id string) error

	// Find returns the container with exactly the given name, or
	// an error wrapping ErrNotFound if none exists.
	Find(ctx context.Context, name string) (ContainerInfo, error)

	// ListManaged enumerates containers carrying the given label=value
	// pair, regardless of run state.
	ListManaged(ctx context.Context, label, value string) ([]ContainerInfo, error)

	// EnsureImage makes the image available locally, pulling if needed.
	EnsureImage(ctx context.Context, image string) error
}
