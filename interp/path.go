// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cerfshell/cerf/expand"
)

// homeDir returns the shell's notion of the user's home directory: the
// HOME variable if set, falling back to os.UserHomeDir.
func (r *Runner) homeDir() string {
	if home, ok := r.Variables["HOME"]; ok && home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

// expandHomePath expands a leading '~' via expand.Tilde and normalizes
// the result, mirroring expand_home/normalize_path.
func (r *Runner) expandHomePath(s string) string {
	return filepath.Clean(expand.Tilde(s, r.homeDir()))
}

// findExecutable resolves name to an absolute executable path, searching
// PATH when name has no path separator. Results are cached per Runner
// until rehash clears the cache, matching the "hashall" shell option.
func (r *Runner) findExecutable(name string) (string, error) {
	if cached, ok := r.pathCache[name]; ok {
		if _, err := os.Stat(cached); err == nil {
			return cached, nil
		}
		delete(r.pathCache, name)
	}

	expanded := r.expandHomePath(name)

	hasSep := strings.ContainsRune(name, '/') || (runtime.GOOS == "windows" && strings.ContainsRune(name, '\\'))
	if hasSep {
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(r.Dir, expanded)
		}
		path, err := checkExecutable(expanded, r.pathExts())
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return path, nil
	}

	pathVar := r.Variables["PATH"]
	for _, dir := range filepath.SplitList(pathVar) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(r.Dir, candidate)
		}
		if path, err := checkExecutable(candidate, r.pathExts()); err == nil {
			r.pathCache[name] = path
			return path, nil
		}
	}

	return "", fmt.Errorf("%s: command not found", name)
}

// rehash clears the PATH executable cache, forcing the next lookup of
// every command name to re-stat PATH.
func (r *Runner) rehash() {
	r.pathCache = map[string]string{}
}

func (r *Runner) pathExts() []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	pathext := r.Variables["PATHEXT"]
	if pathext == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, e := range strings.Split(strings.ToLower(pathext), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// checkExecutable reports whether path (optionally with one of exts
// appended) names an existing, executable regular file.
func checkExecutable(path string, exts []string) (string, error) {
	if len(exts) == 0 {
		return statExecutable(path)
	}
	if ext := filepath.Ext(path); ext != "" {
		for _, e := range exts {
			if strings.EqualFold(ext, e) {
				if p, err := statExecutable(path); err == nil {
					return p, nil
				}
			}
		}
	}
	for _, e := range exts {
		if p, err := statExecutable(path + e); err == nil {
			return p, nil
		}
	}
	return statExecutable(path)
}

func statExecutable(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("is a directory")
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("permission denied")
	}
	return path, nil
}
