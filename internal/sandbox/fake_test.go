package sandbox

import (
	"context"
	"fmt"
	"time"
)

// fakeEngine is an in-memory Engine for controller and store tests.
type fakeEngine struct {
	containers map[string]*fakeContainer // keyed by name
	nextID     int
	pulled     []string
}

type fakeContainer struct {
	id      string
	name    string
	labels  map[string]string
	running bool
	created time.Time
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{containers: make(map[string]*fakeContainer)}
}

// addForeign plants an unmanaged container, simulating a name collision
// with something the user created by hand.
func (f *fakeEngine) addForeign(name string) {
	f.nextID++
	f.containers[name] = &fakeContainer{
		id:      fmt.Sprintf("fake%04d", f.nextID),
		name:    name,
		labels:  map[string]string{},
		created: time.Now(),
	}
}

func (f *fakeEngine) byID(id string) *fakeContainer {
	for _, c := range f.containers {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (f *fakeEngine) Create(ctx context.Context, spec CreateSpec) (string, error) {
	if _, ok := f.containers[spec.Name]; ok {
		return "", fmt.Errorf("container %q: %w", spec.Name, ErrAlreadyExists)
	}
	f.nextID++
	c := &fakeContainer{
		id:      fmt.Sprintf("fake%04d", f.nextID),
		name:    spec.Name,
		labels:  spec.Labels,
		created: time.Now(),
	}
	f.containers[spec.Name] = c
	return c.id, nil
}

func (f *fakeEngine) Start(ctx context.Context, id string) error {
	c := f.byID(id)
	if c == nil {
		return fmt.Errorf("container %q: %w", id, ErrNotFound)
	}
	c.running = true
	return nil
}

func (f *fakeEngine) Stop(ctx context.Context, id string) error {
	c := f.byID(id)
	if c == nil {
		return fmt.Errorf("container %q: %w", id, ErrNotFound)
	}
	c.running = false
	return nil
}

func (f *fakeEngine) Remove(ctx context.Context, id string) error {
	for name, c := range f.containers {
		if c.id == id {
			delete(f.containers, name)
			return nil
		}
	}
	return nil
}

func (f *fakeEngine) Find(ctx context.Context, name string) (ContainerInfo, error) {
	c, ok := f.containers[name]
	if !ok {
		return ContainerInfo{}, fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	return c.info(), nil
}

func (f *fakeEngine) ListManaged(ctx context.Context, label, value string) ([]ContainerInfo, error) {
	var infos []ContainerInfo
	for _, c := range f.containers {
		if c.labels[label] == value {
			infos = append(infos, c.info())
		}
	}
	return infos, nil
}

func (f *fakeEngine) EnsureImage(ctx context.Context, image string) error {
	f.pulled = append(f.pulled, image)
	return nil
}

func (c *fakeContainer) info() ContainerInfo {
	return ContainerInfo{
		ID:      c.id,
		Name:    c.name,
		Labels:  c.labels,
		Running: c.running,
		Created: c.created,
	}
}
