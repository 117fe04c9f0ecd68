// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package expand

import (
	"path/filepath"
	"strings"
)

// Tilde expands a leading '~' in word to homeDir, and normalizes the
// result. Only a bare "~" or a "~/..." prefix is recognized (no "~user"
// lookup, matching spec.md's scope); any other word is returned unchanged.
// A quoted word is never passed here by the caller, since tilde expansion
// only applies to unquoted words.
func Tilde(word, homeDir string) string {
	if homeDir == "" {
		return word
	}
	switch {
	case word == "~":
		return homeDir
	case strings.HasPrefix(word, "~/"):
		return filepath.Join(homeDir, word[2:])
	default:
		return word
	}
}
