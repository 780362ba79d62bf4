package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testHome builds a fake home directory with the given files present.
func testHome(t *testing.T, files ...string) string {
	t.Helper()
	home := t.TempDir()
	for _, f := range files {
		path := filepath.Join(home, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return home
}

func TestFixedMounts(t *testing.T) {
	home := "/home/u"
	mounts := FixedMounts("/home/u/projects/my-app", home)

	want := []Mount{
		{"/home/u/projects/my-app", "/home/sandbox/workspace", false},
		{"/home/u/.claude", "/home/sandbox/.claude", false},
		{"/home/u/.claude.json", "/home/sandbox/.claude.json", false},
		{"/home/u/.codex", "/home/sandbox/.codex", false},
		{"/home/u/.gitconfig", "/home/sandbox/.gitconfig", true},
	}
	if len(mounts) != len(want) {
		t.Fatalf("got %d mounts, want %d: %+v", len(mounts), len(want), mounts)
	}
	for i, m := range mounts {
		if m != want[i] {
			t.Errorf("mount[%d] = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	home := testHome(t, ".npmrc", ".cargo/config.toml")
	fixed := FixedMounts(filepath.Join(home, "proj"), home)

	res, err := Resolve(fixed,
		[]string{filepath.Join(home, ".npmrc")},
		[]string{filepath.Join(home, ".cargo/config.toml"), filepath.Join(home, ".npmrc")},
		nil, nil, home)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(res.Mounts) != len(fixed)+2 {
		t.Fatalf("got %d mounts, want %d: %+v", len(res.Mounts), len(fixed)+2, res.Mounts)
	}
	// Fixed entries first, in order.
	for i, m := range fixed {
		if res.Mounts[i] != m {
			t.Errorf("mount[%d] = %+v, want fixed %+v", i, res.Mounts[i], m)
		}
	}
	// Then npmrc from config (its first occurrence), then the cargo config
	// from the CLI; the duplicate CLI npmrc is dropped.
	npmrc := res.Mounts[len(fixed)]
	if npmrc.Source != filepath.Join(home, ".npmrc") || npmrc.ReadOnly {
		t.Errorf("mount after fixed = %+v, want rw .npmrc", npmrc)
	}
	cargo := res.Mounts[len(fixed)+1]
	if cargo.Source != filepath.Join(home, ".cargo/config.toml") || cargo.ReadOnly {
		t.Errorf("last mount = %+v, want rw cargo config", cargo)
	}
}

func TestResolveFixedWinsOverConfigured(t *testing.T) {
	home := testHome(t, ".gitconfig")
	fixed := FixedMounts(filepath.Join(home, "proj"), home)

	// .gitconfig is fixed read-only; a configured rw spec for the same
	// path must not override it.
	res, err := Resolve(fixed, []string{filepath.Join(home, ".gitconfig") + ":rw"}, nil, nil, nil, home)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Mounts) != len(fixed) {
		t.Fatalf("got %d mounts, want %d", len(res.Mounts), len(fixed))
	}
	for _, m := range res.Mounts {
		if strings.HasSuffix(m.Source, ".gitconfig") && !m.ReadOnly {
			t.Errorf(".gitconfig resolved rw, fixed ro must win: %+v", m)
		}
	}
}

func TestResolveMissingPathStrict(t *testing.T) {
	home := testHome(t)
	fixed := FixedMounts(filepath.Join(home, "proj"), home)

	_, err := Resolve(fixed, []string{filepath.Join(home, "does-not-exist")}, nil, nil, nil, home)
	if !errors.Is(err, ErrMountUnresolvable) {
		t.Errorf("Resolve err = %v, want ErrMountUnresolvable", err)
	}
}

func TestResolveEnvUnion(t *testing.T) {
	home := testHome(t)
	res, err := Resolve(nil, nil, nil,
		[]string{"GITHUB_TOKEN", "ANTHROPIC_API_KEY"},
		[]string{"ANTHROPIC_API_KEY", "EDITOR=vim"}, home)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"GITHUB_TOKEN", "ANTHROPIC_API_KEY", "EDITOR=vim"}
	if len(res.Env) != len(want) {
		t.Fatalf("Env = %v, want %v", res.Env, want)
	}
	for i := range want {
		if res.Env[i] != want[i] {
			t.Errorf("Env[%d] = %q, want %q", i, res.Env[i], want[i])
		}
	}
}

func TestParseMountSpec(t *testing.T) {
	home := testHome(t, ".npmrc", "outside")
	outside := t.TempDir()

	tests := []struct {
		name     string
		spec     string
		wantRO   bool
		wantTgt  string
		wantHost string
	}{
		{"default rw", filepath.Join(home, ".npmrc"), false, "/home/sandbox/.npmrc", filepath.Join(home, ".npmrc")},
		{"explicit ro", filepath.Join(home, ".npmrc") + ":ro", true, "/home/sandbox/.npmrc", filepath.Join(home, ".npmrc")},
		{"outside home keeps path", outside, false, outside, outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parseMountSpec(tt.spec, home)
			if err != nil {
				t.Fatalf("parseMountSpec(%q): %v", tt.spec, err)
			}
			if m.ReadOnly != tt.wantRO {
				t.Errorf("ReadOnly = %v, want %v", m.ReadOnly, tt.wantRO)
			}
			if m.Target != tt.wantTgt {
				t.Errorf("Target = %q, want %q", m.Target, tt.wantTgt)
			}
			if m.Source != tt.wantHost {
				t.Errorf("Source = %q, want %q", m.Source, tt.wantHost)
			}
		})
	}
}
