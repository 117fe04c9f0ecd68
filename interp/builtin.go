// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"io"
	"sort"
)

// BuiltinFunc runs one built-in command and returns its exit status.
type BuiltinFunc func(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int

// Builtin describes one built-in command: its canonical name, a short
// description and usage line (surfaced by the help builtin), and the
// function that runs it.
type Builtin struct {
	Name        string
	Description string
	Usage       string
	Run         BuiltinFunc
}

// builtins is keyed by each builtin's plain name only. Dotted names from
// WithDefaultAliasProfile are not keys here: they live in Runner.Aliases
// and resolve to a plain name before lookup.
var builtins = map[string]*Builtin{}

func registerBuiltin(b Builtin) {
	builtins[b.Name] = &b
}

// lookupBuiltin looks up a resolved command name. Dotted-profile names
// resolve here too: DefaultAliases seeds them into Runner.Aliases as
// ordinary shell aliases, so expand.Alias has already rewritten e.g.
// "job.list" to "jobs" by the time this is called.
func (r *Runner) lookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// DefaultAliases returns the dotted builtin-name profile as ordinary
// shell aliases: most builtins keep their plain POSIX spelling (cd, pwd,
// fg, jobs, bg, wait, kill, set, unset, history, type, source), but a
// handful also answer to a namespaced alternate spelling that groups
// related commands together.
func DefaultAliases() map[string]string {
	return map[string]string{
		"job.list":    "jobs",
		"job.bg":      "bg",
		"env.export":  "export",
		"alias.set":   "alias",
		"alias.unset": "unalias",
		"env.source":  "source",
		"sys.help":    "help",
	}
}

// sortedBuiltinNames returns every plain (non-dotted) builtin name, sorted,
// for the help builtin's listing.
func sortedBuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
