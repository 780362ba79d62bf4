package sandbox

import "errors"

// Error kinds surfaced by lifecycle operations. Callers branch on these
// with errors.Is; each maps to a distinct process exit code in the CLI.
var (
	// ErrNotFound: the operation targets a workspace with no sandbox.
	ErrNotFound = errors.New("sandbox not found")

	// ErrAlreadyExists: create on a workspace that already has a sandbox.
	ErrAlreadyExists = errors.New("sandbox already exists")

	// ErrNameConflict: a container with the derived name exists but lacks
	// the management labels. It is never adopted.
	ErrNameConflict = errors.New("container name in use by an unmanaged container")

	// ErrSensitiveDirectory: the workspace is a guarded path and no
	// override was given.
	ErrSensitiveDirectory = errors.New("workspace is a sensitive directory")

	// ErrMountUnresolvable: a requested mount's host path does not exist.
	ErrMountUnresolvable = errors.New("mount path does not exist")

	// ErrEngineUnavailable: the Docker daemon is unreachable or failed
	// unexpectedly.
	ErrEngineUnavailable = errors.New("container engine unavailable")
)
