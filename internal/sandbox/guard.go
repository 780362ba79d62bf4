package sandbox

import (
	"os"

	"github.com/zpdzap/sb/internal/naming"
)

// builtinSensitiveDirs are always guarded, in addition to the user's home
// directory and any configured extras.
var builtinSensitiveDirs = []string{
	"/",
	"/etc",
	"/var",
	"/usr",
	"/bin",
	"/sbin",
}

// IsSensitive reports whether a canonical workspace path is one of the
// guarded directories. The check is exact-match on canonical paths:
// a project under the home directory is fine, the home directory itself
// is not. Pure predicate over the path, independent of engine state.
func IsSensitive(canonical string, custom []string) bool {
	guarded := append([]string{}, builtinSensitiveDirs...)
	if home, err := os.UserHomeDir(); err == nil {
		guarded = append(guarded, home)
	}
	guarded = append(guarded, custom...)

	for _, dir := range guarded {
		if canonical == naming.Canonicalize(dir) {
			return true
		}
	}
	return false
}
