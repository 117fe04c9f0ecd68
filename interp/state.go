// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// Package interp implements cerf's execution engine: pipeline and command
// list execution, job control, the built-in command table, and the POSIX
// and Windows process-group adapters. Use [New] to build a [Runner] and
// [Runner.Run] to evaluate one logical input line.
package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Runner interprets cerf command lines. It holds all shell state:
// variables, aliases, options, the directory stack, history and the job
// table. A Runner is not safe for concurrent use, mirroring the
// single-threaded REPL it is built for; the only concurrency inside a
// Runner is between a running job's own process group and the Runner
// goroutine waiting on it.
type Runner struct {
	Dir string

	Variables map[string]string
	Exported  map[string]bool
	Aliases   map[string]string
	Options   map[string]bool

	PreviousDir string
	DirStack    []string

	HistoryFile string
	History     []string

	Jobs        map[int]*Job
	NextJobID   int
	CurrentJob  int
	PreviousJob int

	// LastStatus is the exit status of the most recently completed
	// pipeline, mirroring $?. The exit builtin defaults to it when called
	// with no argument.
	LastStatus int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// execHandler runs external commands; overridable for tests.
	execHandler ExecHandlerFunc

	pathCache map[string]string

	platform platformState

	defaultAliases bool

	// pendingExit is set by the exit builtin; Run checks it after every
	// command and Runner callers (package shell's REPL and script runner)
	// check it after every Run call to know when to stop reading more input.
	pendingExit *int

	// sourceDepth guards against runaway recursive "source"/"." calls.
	sourceDepth int
}

// PendingExit reports whether the exit builtin has been invoked and, if
// so, the exit code the shell should terminate with.
func (r *Runner) PendingExit() (int, bool) {
	if r.pendingExit == nil {
		return 0, false
	}
	return *r.pendingExit, true
}

// RunnerOption configures a Runner at construction time. Options are
// applied in order, so a later option can override an earlier one.
type RunnerOption func(*Runner) error

// New builds a ready-to-use Runner. With no options, it inherits the
// current process's environment and working directory, and reads/writes
// os.Stdin/Stdout/Stderr.
func New(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		Variables: map[string]string{},
		Exported:  map[string]bool{},
		Aliases:   map[string]string{},
		Options:   map[string]bool{},
		Jobs:      map[int]*Job{},
		NextJobID: 1,
		pathCache: map[string]string{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}

	for _, kv := range os.Environ() {
		name, value, ok := splitEnv(kv)
		if ok {
			r.Variables[name] = value
			r.Exported[name] = true
		}
	}

	if _, ok := r.Variables["PWD"]; !ok {
		if wd, err := os.Getwd(); err == nil {
			r.Variables["PWD"] = wd
		}
	}
	r.Dir = r.Variables["PWD"]

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cerf: could not get current directory: %w", err)
		}
		r.Dir = wd
	}

	if r.defaultAliases {
		for k, v := range DefaultAliases() {
			if _, exists := r.Aliases[k]; !exists {
				r.Aliases[k] = v
			}
		}
	}

	return r, nil
}

func splitEnv(kv string) (name, value string, ok bool) {
	i := -1
	for j := 0; j < len(kv); j++ {
		if kv[j] == '=' {
			i = j
			break
		}
	}
	if i < 0 {
		return "", "", false
	}
	return kv[:i], kv[i+1:], true
}

// WithDir sets the Runner's initial working directory.
func WithDir(path string) RunnerOption {
	return func(r *Runner) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		r.Dir = abs
		r.Variables["PWD"] = abs
		return nil
	}
}

// StdIO overrides the Runner's standard streams.
func StdIO(in io.Reader, out, err io.Writer) RunnerOption {
	return func(r *Runner) error {
		if in != nil {
			r.Stdin = in
		}
		if out != nil {
			r.Stdout = out
		}
		if err != nil {
			r.Stderr = err
		}
		return nil
	}
}

// WithHistoryFile sets the path history is loaded from and appended to.
// An empty path (the default) disables history persistence.
func WithHistoryFile(path string) RunnerOption {
	return func(r *Runner) error {
		r.HistoryFile = path
		return nil
	}
}

// WithDefaultAliasProfile loads the dotted builtin-alias profile (jobs ->
// job.list, bg -> job.bg, ...) alongside the plain POSIX builtin names.
func WithDefaultAliasProfile() RunnerOption {
	return func(r *Runner) error {
		r.defaultAliases = true
		return nil
	}
}

// WithExecHandler overrides how external (non-builtin) commands run.
// Mainly useful in tests.
func WithExecHandler(f ExecHandlerFunc) RunnerOption {
	return func(r *Runner) error {
		r.execHandler = f
		return nil
	}
}

// Interactive marks the Runner as an interactive, terminal-attached
// session. It makes the shell ignore the terminal-driver job-control
// signals (SIGINT, SIGQUIT, SIGTSTP, SIGTTIN, SIGTTOU), since once a job's
// own process group owns the terminal those are delivered to the job, not
// the shell, and it records the controlling terminal and shell process
// group so takeTerminal/restoreTerminal can hand the terminal to and from
// a foreground job.
func Interactive() RunnerOption {
	return func(r *Runner) error {
		ignoreJobControlSignals()
		r.initTerminal()
		return nil
	}
}

// Getenv implements expand.Lookup against both shell and OS-inherited
// variables.
func (r *Runner) Getenv(name string) (string, bool) {
	v, ok := r.Variables[name]
	return v, ok
}

// SetVar sets a shell variable, keeping its exported state and syncing the
// process environment when exported.
func (r *Runner) SetVar(name, value string) {
	r.Variables[name] = value
	if r.Exported[name] {
		os.Setenv(name, value)
	}
}

// Export marks name as exported, pushing its current value (if any) into
// the process environment.
func (r *Runner) Export(name string) {
	r.Exported[name] = true
	if v, ok := r.Variables[name]; ok {
		os.Setenv(name, v)
	}
}

// Unset removes name from shell variables, the exported set and the
// process environment.
func (r *Runner) Unset(name string) {
	delete(r.Variables, name)
	delete(r.Exported, name)
	os.Unsetenv(name)
}

// execEnv returns the environment slice passed to spawned processes:
// exported shell variables override the inherited OS environment.
func (r *Runner) execEnv() []string {
	merged := map[string]string{}
	for _, kv := range os.Environ() {
		name, value, ok := splitEnv(kv)
		if ok {
			merged[name] = value
		}
	}
	for name := range r.Exported {
		merged[name] = r.Variables[name]
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	env := make([]string, 0, len(names))
	for _, name := range names {
		env = append(env, name+"="+merged[name])
	}
	return env
}

// AddHistory appends line to the in-memory history and, if a history file
// is configured, to that file.
func (r *Runner) AddHistory(line string) {
	r.History = append(r.History, line)
	if r.HistoryFile == "" {
		return
	}
	f, err := os.OpenFile(r.HistoryFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}

// LoadHistory reads existing entries from the configured history file, if
// any, into memory.
func (r *Runner) LoadHistory() {
	if r.HistoryFile == "" {
		return
	}
	data, err := os.ReadFile(r.HistoryFile)
	if err != nil {
		return
	}
	for _, line := range splitLines(string(data)) {
		if line != "" {
			r.History = append(r.History, line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// parsePositiveInt parses a plain base-10 non-negative integer, used for
// job specifiers like "%3" or bare pids.
func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
