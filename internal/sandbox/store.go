package sandbox

import (
	"context"
	"fmt"
	"sort"
)

// StateStore is the read-only query layer over the engine. Lifecycle state
// is always inferred from a fresh engine query; nothing is cached across
// operations.
type StateStore struct {
	engine Engine
}

// NewStateStore creates a state store over an engine.
func NewStateStore(engine Engine) *StateStore {
	return &StateStore{engine: engine}
}

// Lookup finds the sandbox with the given derived name.
//
// No container with that name: ErrNotFound. A container with that name but
// without the management label triple: ErrNameConflict — it is never
// adopted as managed.
func (s *StateStore) Lookup(ctx context.Context, name string) (Sandbox, error) {
	c, err := s.engine.Find(ctx, name)
	if err != nil {
		return Sandbox{}, err
	}
	if !isManaged(c) {
		return Sandbox{}, fmt.Errorf("container %q: %w", name, ErrNameConflict)
	}
	return fromContainer(c), nil
}

// List enumerates all managed sandboxes, regardless of name or run state,
// sorted by creation time. This is the authoritative view: there is no
// separate index to keep in sync.
func (s *StateStore) List(ctx context.Context) ([]Sandbox, error) {
	containers, err := s.engine.ListManaged(ctx, LabelManaged, "true")
	if err != nil {
		return nil, err
	}

	sandboxes := make([]Sandbox, 0, len(containers))
	for _, c := range containers {
		if !isManaged(c) {
			continue
		}
		sandboxes = append(sandboxes, fromContainer(c))
	}
	sort.Slice(sandboxes, func(i, j int) bool {
		return sandboxes[i].CreatedAt.Before(sandboxes[j].CreatedAt)
	})
	return sandboxes, nil
}
