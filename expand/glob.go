// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package expand

import (
	"path/filepath"
	"sort"
	"strings"
)

// GlobArg is one word to run through Glob: its literal text plus whether
// it came from a fully quoted source segment (see syntax.Arg.Quoted).
type GlobArg struct {
	Value  string
	Quoted bool
}

// Glob expands filename-glob patterns in args, POSIX-pathname style:
//   - a quoted arg is never glob-expanded,
//   - an arg with no glob meta-characters (*, ?, [) passes through,
//   - an arg with meta-characters is expanded via filepath.Glob; matches
//     are returned sorted, and a pattern that matches nothing is kept
//     as-is (the bash default, rather than vanishing).
func Glob(args []GlobArg) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a.Quoted || !containsGlobChars(a.Value) {
			out = append(out, a.Value)
			continue
		}
		matches, err := filepath.Glob(a.Value)
		if err != nil || len(matches) == 0 {
			out = append(out, a.Value)
			continue
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}

func containsGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
