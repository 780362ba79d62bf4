// Package sandbox manages the lifecycle of per-workspace Docker sandboxes.
// Container labels are the only durable state: a sandbox is always
// rehydrated from what the engine reports, never from a file.
package sandbox

import "time"

// Labels attached to every managed container. The triple is the entire
// durable state schema: holding all three is what makes a container ours.
const (
	LabelManaged   = "sb.managed"
	LabelName      = "sb.name"
	LabelWorkspace = "sb.workspace"
)

// DefaultImage is used when neither config nor the CLI overrides it.
const DefaultImage = "sb-sandbox:latest"

// containerHome is where the provisioned user lives inside the container.
const containerHome = "/home/sandbox"

// WorkspaceTarget is the in-container mount point of the workspace.
const WorkspaceTarget = containerHome + "/workspace"

// Status is the inferred lifecycle state of a sandbox.
type Status string

const (
	StatusAbsent  Status = "absent"
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
)

// Sandbox is the per-workspace container, rehydrated from engine state.
type Sandbox struct {
	Name        string
	Workspace   string
	ContainerID string
	Status      Status
	CreatedAt   time.Time
}

// managedLabels builds the label triple for a new container.
func managedLabels(name, workspace string) map[string]string {
	return map[string]string{
		LabelManaged:   "true",
		LabelName:      name,
		LabelWorkspace: workspace,
	}
}

// fromContainer rehydrates a Sandbox from an engine record. The caller has
// already verified the label triple.
func fromContainer(c ContainerInfo) Sandbox {
	status := StatusStopped
	if c.Running {
		status = StatusRunning
	}
	return Sandbox{
		Name:        c.Labels[LabelName],
		Workspace:   c.Labels[LabelWorkspace],
		ContainerID: c.ID,
		Status:      status,
		CreatedAt:   c.Created,
	}
}

// isManaged reports whether a container carries the full label triple.
func isManaged(c ContainerInfo) bool {
	return c.Labels[LabelManaged] == "true" &&
		c.Labels[LabelName] != "" &&
		c.Labels[LabelWorkspace] != ""
}
