// Package match scores partial sandbox names against the set of existing
// sandboxes so commands can accept abbreviated names.
package match

import (
	"sort"
	"strings"

	"github.com/zpdzap/sb/internal/naming"
	"github.com/zpdzap/sb/internal/sandbox"
)

// Match scores, lower is better. An exact match short-circuits all others.
const (
	scoreExact          = 0
	scorePrefix         = 10
	scoreDirnameExact   = 20
	scoreDirnamePrefix  = 30
	scoreDirnameContain = 40
	scoreSubstring      = 50
)

// score returns how well query matches a sandbox name, or -1 for no match.
func score(query, name string) int {
	query = strings.ToLower(query)
	lower := strings.ToLower(name)

	switch {
	case query == lower:
		return scoreExact
	case strings.HasPrefix(lower, query):
		return scorePrefix
	}

	dirname := strings.ToLower(naming.Dirname(name))
	switch {
	case query == dirname:
		return scoreDirnameExact
	case strings.HasPrefix(dirname, query):
		return scoreDirnamePrefix
	case strings.Contains(dirname, query):
		return scoreDirnameContain
	case strings.Contains(lower, query):
		return scoreSubstring
	}
	return -1
}

// Find returns the sandboxes matching query, best match first.
// If an exact match exists, only that sandbox is returned.
func Find(query string, sandboxes []sandbox.Sandbox) []sandbox.Sandbox {
	type scored struct {
		score int
		sb    sandbox.Sandbox
	}
	var matches []scored
	for _, sb := range sandboxes {
		if s := score(query, sb.Name); s >= 0 {
			matches = append(matches, scored{s, sb})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	if len(matches) > 0 && matches[0].score == scoreExact {
		return []sandbox.Sandbox{matches[0].sb}
	}

	result := make([]sandbox.Sandbox, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.sb)
	}
	return result
}
