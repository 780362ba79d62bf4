package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mount binds a host path into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// fixedMountSpec describes one always-present mount. The access mode is a
// property of the entry, never inferred from the path.
type fixedMountSpec struct {
	hostRel  string // relative to the host home directory
	target   string // relative to the container home directory
	readOnly bool
}

// Agent-config directories and credentials forwarded into every sandbox.
var fixedMountSpecs = []fixedMountSpec{
	{".claude", ".claude", false},
	{".claude.json", ".claude.json", false},
	{".codex", ".codex", false},
	{".gitconfig", ".gitconfig", true},
}

// FixedMounts returns the non-optional mounts for a sandbox: the workspace
// first, then the agent-config entries, in a stable order. Entries are
// unconditional; the engine bind-creates missing sources.
func FixedMounts(workspace, home string) []Mount {
	mounts := []Mount{{Source: workspace, Target: WorkspaceTarget}}
	for _, f := range fixedMountSpecs {
		mounts = append(mounts, Mount{
			Source:   filepath.Join(home, f.hostRel),
			Target:   containerHome + "/" + f.target,
			ReadOnly: f.readOnly,
		})
	}
	return mounts
}

// parseMountSpec parses "path", "path:ro", or "path:rw" into a Mount.
// The host path must exist; a missing path fails with ErrMountUnresolvable.
// Host paths under the home directory are rebased to the same location
// under the container home, others keep their absolute path.
func parseMountSpec(spec, home string) (Mount, error) {
	path := spec
	readOnly := false
	if rest, ok := strings.CutSuffix(spec, ":ro"); ok {
		path, readOnly = rest, true
	} else if rest, ok := strings.CutSuffix(spec, ":rw"); ok {
		path = rest
	}
	if path == "" {
		return Mount{}, fmt.Errorf("empty mount spec %q", spec)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Mount{}, fmt.Errorf("resolving mount %q: %w", spec, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return Mount{}, fmt.Errorf("mount %q: %w: %s", spec, ErrMountUnresolvable, abs)
	}

	target := abs
	if rel, err := filepath.Rel(home, abs); err == nil && !strings.HasPrefix(rel, "..") {
		target = filepath.Join(containerHome, rel)
	}
	return Mount{Source: abs, Target: target, ReadOnly: readOnly}, nil
}

// Resolution is the merged mount and environment-passthrough set for one
// container start.
type Resolution struct {
	Mounts []Mount
	// Env holds passthrough names ("VAR") or pinned values ("VAR=value").
	// Values for bare names are read from the host environment at start
	// time, not here.
	Env []string
}

// Resolve merges fixed, configured, and per-invocation mounts and
// environment passthroughs. Fixed entries come first, then configured,
// then per-invocation, each in given order; entries naming the same
// resolved host path keep the first occurrence's mode and position.
// Configured and per-invocation mounts whose host path is missing fail
// with ErrMountUnresolvable.
func Resolve(fixed []Mount, configMounts, cliMounts, configEnv, cliEnv []string, home string) (Resolution, error) {
	var res Resolution
	seen := make(map[string]bool)

	for _, m := range fixed {
		if seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		res.Mounts = append(res.Mounts, m)
	}

	for _, spec := range append(append([]string{}, configMounts...), cliMounts...) {
		m, err := parseMountSpec(spec, home)
		if err != nil {
			return Resolution{}, err
		}
		if seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		res.Mounts = append(res.Mounts, m)
	}

	envSeen := make(map[string]bool)
	for _, e := range append(append([]string{}, configEnv...), cliEnv...) {
		name, _, _ := strings.Cut(e, "=")
		if name == "" || envSeen[name] {
			continue
		}
		envSeen[name] = true
		res.Env = append(res.Env, e)
	}

	return res, nil
}
