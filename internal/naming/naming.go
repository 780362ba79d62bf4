// Package naming derives deterministic, Docker-legal sandbox names from
// workspace paths. The same canonical path always maps to the same name,
// so the name alone is enough to find a workspace's container.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Prefix is prepended to every generated sandbox name.
const Prefix = "sb"

// hashLen is the number of hex characters of the path hash kept in the name.
const hashLen = 8

// maxBaseLen caps the sanitized directory-name portion so generated names
// stay well under Docker's container-name limit.
const maxBaseLen = 40

var (
	illegalChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
	namePattern  = regexp.MustCompile(`^sb-(.+)-[a-f0-9]{8}$`)
)

// Canonicalize resolves a path to its absolute, symlink-free form.
// A leading ~ is expanded to the user's home directory. If the path does
// not exist, symlink resolution is skipped and the cleaned absolute path
// is returned, so Canonicalize is total.
func Canonicalize(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// Sanitize strips characters that are illegal in a container name from a
// directory name. Keeps alphanumerics, hyphens, and underscores; lowercases
// and replaces spaces with hyphens; collapses hyphen runs. Returns
// "sandbox" if nothing survives.
func Sanitize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = illegalChars.ReplaceAllString(name, "")
	name = hyphenRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > maxBaseLen {
		name = strings.Trim(name[:maxBaseLen], "-")
	}
	if name == "" {
		return "sandbox"
	}
	return name
}

// Derive generates the sandbox name for a workspace path.
//
// Format: sb-{dirname}-{hash[:8]}, where dirname is the sanitized
// basename of the canonical path and the hash is sha256 of the full
// canonical path. Two invocations naming the same directory by different
// forms (relative, trailing slash, symlinked parent) produce the same name.
func Derive(path string) string {
	canonical := Canonicalize(path)
	sum := sha256.Sum256([]byte(canonical))
	short := hex.EncodeToString(sum[:])[:hashLen]
	return Prefix + "-" + Sanitize(filepath.Base(canonical)) + "-" + short
}

// Dirname extracts the directory-name portion of a generated sandbox name.
// Returns the input unchanged if it doesn't match the generated format.
func Dirname(name string) string {
	if m := namePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}
