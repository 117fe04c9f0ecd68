// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// Package shell implements cerf's reusable REPL core: running a single
// command string, a script file, or an interactive prompt loop against
// an [interp.Runner]. cmd/cerf is a thin cobra wrapper around this
// package.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cerfshell/cerf/interp"
)

// RunCommand runs a single command line (the -c flag) and returns its
// exit status.
func RunCommand(ctx context.Context, r *interp.Runner, line string) int {
	return r.Run(ctx, line)
}

// RunScript reads path and runs it line by line, stopping early if the
// shell exits (e.g. via the exit builtin).
func RunScript(ctx context.Context, r *interp.Runner, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 1, fmt.Errorf("cerf: %w", err)
	}
	defer f.Close()
	return runReader(ctx, r, f), nil
}

func runReader(ctx context.Context, r *interp.Runner, reader io.Reader) int {
	status := 0
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		status = r.Run(ctx, scanner.Text())
		if _, exiting := r.PendingExit(); exiting {
			break
		}
	}
	return status
}

// RunInteractive drives cerf's prompt loop: print a prompt, read a line,
// run it, repeat, until EOF or the exit builtin fires. It writes history
// as lines are accepted, mirroring add_history in the original REPL.
//
// reload, if non-nil, is an rcwatch.Watcher's Changed() channel: between
// prompts, any pending signal on it is drained and rcPath re-sourced,
// keeping every Runner mutation on this one goroutine rather than racing
// with the watcher's own.
func RunInteractive(ctx context.Context, r *interp.Runner, stdin io.Reader, stdout, stderr io.Writer, reload <-chan struct{}, rcPath string) int {
	r.LoadHistory()
	scanner := bufio.NewScanner(stdin)

	prompt := func() {
		fmt.Fprintf(stdout, "%s$ ", promptDir(r))
	}
	drainReload := func() {
		for {
			select {
			case <-reload:
				if err := SourceRC(ctx, r, rcPath); err != nil {
					fmt.Fprintf(stderr, "cerf: rc watch: %v\n", err)
				}
			default:
				return
			}
		}
	}

	status := 0
	prompt()
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			r.AddHistory(line)
		}
		status = r.Run(ctx, line)
		if code, exiting := r.PendingExit(); exiting {
			return code
		}
		select {
		case <-ctx.Done():
			return status
		default:
		}
		drainReload()
		prompt()
	}
	fmt.Fprintln(stdout)
	return status
}

func promptDir(r *interp.Runner) string {
	dir := r.Dir
	if home, ok := r.Getenv("HOME"); ok && home != "" {
		if rel, err := filepath.Rel(home, dir); err == nil && rel != ".." && len(rel) < len(dir) {
			if rel == "." {
				return "~"
			}
			return "~/" + rel
		}
	}
	return dir
}

// SourceRC sources path (typically ~/.cerfrc) if it exists, silently
// doing nothing if it does not.
func SourceRC(ctx context.Context, r *interp.Runner, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	runReader(ctx, r, f)
	return nil
}
