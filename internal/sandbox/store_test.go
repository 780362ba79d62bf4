package sandbox

import (
	"context"
	"errors"
	"testing"
)

func TestLookupAbsent(t *testing.T) {
	store := NewStateStore(newFakeEngine())
	_, err := store.Lookup(context.Background(), "sb-nothing-00000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup err = %v, want ErrNotFound", err)
	}
}

func TestLookupManaged(t *testing.T) {
	engine := newFakeEngine()
	ctx := context.Background()

	id, err := engine.Create(ctx, CreateSpec{
		Name:   "sb-my-app-a1b2c3d4",
		Labels: managedLabels("sb-my-app-a1b2c3d4", "/home/u/projects/my-app"),
	})
	if err != nil {
		t.Fatal(err)
	}

	store := NewStateStore(engine)
	sb, err := store.Lookup(ctx, "sb-my-app-a1b2c3d4")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if sb.Workspace != "/home/u/projects/my-app" {
		t.Errorf("Workspace = %q", sb.Workspace)
	}
	if sb.Status != StatusStopped {
		t.Errorf("Status = %q, want stopped before start", sb.Status)
	}
	if sb.ContainerID != id {
		t.Errorf("ContainerID = %q, want %q", sb.ContainerID, id)
	}

	if err := engine.Start(ctx, id); err != nil {
		t.Fatal(err)
	}
	sb, err = store.Lookup(ctx, "sb-my-app-a1b2c3d4")
	if err != nil {
		t.Fatal(err)
	}
	if sb.Status != StatusRunning {
		t.Errorf("Status = %q, want running after start", sb.Status)
	}
}

func TestLookupForeignConflict(t *testing.T) {
	engine := newFakeEngine()
	engine.addForeign("sb-my-app-a1b2c3d4")

	store := NewStateStore(engine)
	_, err := store.Lookup(context.Background(), "sb-my-app-a1b2c3d4")
	if !errors.Is(err, ErrNameConflict) {
		t.Errorf("Lookup err = %v, want ErrNameConflict", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("foreign container must not be reported as absent")
	}
}

func TestListManagedOnly(t *testing.T) {
	engine := newFakeEngine()
	ctx := context.Background()

	for _, n := range []string{"sb-one-11111111", "sb-two-22222222"} {
		if _, err := engine.Create(ctx, CreateSpec{
			Name:   n,
			Labels: managedLabels(n, "/ws/"+n),
		}); err != nil {
			t.Fatal(err)
		}
	}
	// A lookalike without labels must not show up.
	engine.addForeign("sb-three-33333333")

	store := NewStateStore(engine)
	sandboxes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sandboxes) != 2 {
		t.Fatalf("List returned %d sandboxes, want 2: %+v", len(sandboxes), sandboxes)
	}
	seen := map[string]bool{}
	for _, sb := range sandboxes {
		seen[sb.Name] = true
	}
	if !seen["sb-one-11111111"] || !seen["sb-two-22222222"] {
		t.Errorf("List = %v", seen)
	}
}
