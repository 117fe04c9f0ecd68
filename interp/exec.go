// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cerfshell/cerf/expand"
	"github.com/cerfshell/cerf/syntax"
)

// ExecHandlerFunc runs one external (non-builtin) command as part of job,
// wiring the given standard streams, and reports whether it could start
// it at all. Overriding it (see WithExecHandler) is mainly useful in
// tests that want to avoid touching the real filesystem/PATH.
type ExecHandlerFunc func(ctx context.Context, r *Runner, job *Job, name string, args []string, stdin io.Reader, stdout, stderr io.Writer, joinPgid int) (*exec.Cmd, error)

var parser = syntax.NewParser()

// Run evaluates one logical input line: it may contain several
// semicolon/&&/||/&-connected pipelines. It returns the exit status of
// the last pipeline run, mirroring $?.
func (r *Runner) Run(ctx context.Context, line string) int {
	status := 0
	ran := false

	for _, seg := range syntax.SplitTopLevel(line) {
		switch seg.Connector {
		case syntax.ConnAnd:
			if status != 0 {
				continue
			}
		case syntax.ConnOr:
			if status == 0 && ran {
				continue
			}
		}

		expanded := expand.Vars(seg.Text, r.Getenv)
		entries, err := parser.Parse(expanded)
		if err != nil {
			fmt.Fprintf(r.Stderr, "cerf: %v\n", err)
			status = 2
			ran = true
			continue
		}

		entryStatus := 0
		entryRan := false
		for _, entry := range entries {
			switch entry.Connector {
			case syntax.ConnAnd:
				if entryStatus != 0 {
					continue
				}
			case syntax.ConnOr:
				if entryStatus == 0 && entryRan {
					continue
				}
			}
			background := entry.Pipeline.Background || seg.Background
			entryStatus = r.runPipeline(ctx, entry.Pipeline, background)
			entryRan = true
			r.LastStatus = entryStatus
		}
		if entryRan {
			status = entryStatus
			ran = true
		}
		r.sweepDoneJobs()
		if r.pendingExit != nil {
			break
		}
	}

	return status
}

// runPipeline runs one or more commands connected by '|', applying alias
// expansion to the pipeline's first command only, then negation.
func (r *Runner) runPipeline(ctx context.Context, pl *syntax.Pipeline, background bool) int {
	if len(pl.Commands) == 0 {
		return 0
	}

	cmds := make([]*syntax.Command, len(pl.Commands))
	copy(cmds, pl.Commands)
	if name, args, ok := expand.Alias(cmds[0].Name, argValues(cmds[0].Args), r.Aliases); ok {
		clone := *cmds[0]
		clone.Name = name
		clone.Args = make([]syntax.Arg, len(args))
		for i, a := range args {
			clone.Args[i] = syntax.Arg{Value: a}
		}
		cmds[0] = &clone
	}

	status := r.runCommandChain(ctx, cmds, background, describePipeline(pl, background))

	if pl.Negated {
		if status == 0 {
			status = 1
		} else {
			status = 0
		}
	}
	return status
}

func argValues(args []syntax.Arg) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Value
	}
	return out
}

func describePipeline(pl *syntax.Pipeline, background bool) string {
	parts := make([]string, len(pl.Commands))
	for i, c := range pl.Commands {
		words := []string{c.Name}
		for _, a := range c.Args {
			words = append(words, a.Value)
		}
		parts[i] = strings.Join(words, " ")
	}
	display := strings.Join(parts, " | ")
	if background {
		display += " &"
	}
	return display
}

// runCommandChain runs a single command directly (the common case) or
// wires several together with in-process io.Pipe pairs, one goroutine per
// stage, for a multi-command pipeline.
func (r *Runner) runCommandChain(ctx context.Context, cmds []*syntax.Command, background bool, display string) int {
	if len(cmds) == 1 {
		return r.runSingle(ctx, cmds[0], r.Stdin, r.Stdout, r.Stderr, background, display)
	}

	stdin := r.Stdin
	var procs []func(in io.Reader, out io.Writer) int
	for i, cmd := range cmds {
		cmd := cmd
		isLast := i == len(cmds)-1
		procs = append(procs, func(in io.Reader, out io.Writer) int {
			return r.runSingle(ctx, cmd, in, out, r.Stderr, background && isLast, display)
		})
	}

	readers := make([]*io.PipeReader, len(cmds)-1)
	writers := make([]*io.PipeWriter, len(cmds)-1)
	for i := range readers {
		readers[i], writers[i] = io.Pipe()
	}

	results := make([]int, len(cmds))
	done := make(chan struct{}, len(cmds))
	for i := range cmds {
		in := stdin
		if i > 0 {
			in = readers[i-1]
		}
		out := io.Writer(r.Stdout)
		if i < len(cmds)-1 {
			out = writers[i]
		}
		i, in, out := i, in, out
		go func() {
			results[i] = procs[i](in, out)
			if i < len(cmds)-1 {
				writers[i].Close()
			}
			if i > 0 {
				readers[i-1].Close()
			}
			done <- struct{}{}
		}()
	}
	for range cmds {
		<-done
	}
	return results[len(results)-1]
}

// runSingle runs one command: an assignment-only pseudo-command applies
// directly to shell state, a builtin runs in-process, anything else goes
// through the configured ExecHandlerFunc.
func (r *Runner) runSingle(ctx context.Context, cmd *syntax.Command, stdin io.Reader, stdout, stderr io.Writer, background bool, display string) int {
	files, cleanup, err := r.openRedirects(cmd.Redirects, stdin, stdout)
	defer cleanup()
	if err != nil {
		fmt.Fprintf(stderr, "cerf: %v\n", err)
		return 1
	}
	stdin, stdout = files.stdin, files.stdout

	if !cmd.HasName {
		for _, a := range cmd.Assignments {
			r.SetVar(a.Name, expandWord(a.Value, false, r))
		}
		return 0
	}

	for _, a := range cmd.Assignments {
		r.SetVar(a.Name, expandWord(a.Value, false, r))
	}

	args := expandArgs(cmd.Args, r)

	if b, ok := r.lookupBuiltin(cmd.Name); ok {
		return b.Run(r, args, stdin, stdout, stderr)
	}

	return r.runExternal(ctx, cmd.Name, args, stdin, stdout, stderr, background, display)
}

func expandWord(value string, quoted bool, r *Runner) string {
	if quoted {
		return value
	}
	return expand.Tilde(value, r.homeDir())
}

// expandArgs applies tilde expansion (unquoted args only) then glob
// expansion across the whole argument list.
func expandArgs(args []syntax.Arg, r *Runner) []string {
	globArgs := make([]expand.GlobArg, len(args))
	for i, a := range args {
		v := a.Value
		if !a.Quoted {
			v = expand.Tilde(v, r.homeDir())
		}
		globArgs[i] = expand.GlobArg{Value: v, Quoted: a.Quoted}
	}
	return expand.Glob(globArgs)
}

type redirectedFiles struct {
	stdin  io.Reader
	stdout io.Writer
}

// openRedirects applies a command's I/O redirections on top of the
// inherited streams, returning the effective streams and a cleanup func
// that closes whatever files were opened. Redirects apply even to an
// assignment-only command, matching execute_simple's residual-redirect
// behavior.
func (r *Runner) openRedirects(redirects []syntax.Redirect, stdin io.Reader, stdout io.Writer) (redirectedFiles, func(), error) {
	var opened []*os.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	out := redirectedFiles{stdin: stdin, stdout: stdout}
	for _, red := range redirects {
		path := r.expandHomePath(red.File)
		switch red.Kind {
		case syntax.StdoutOverwrite:
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return out, cleanup, err
			}
			opened = append(opened, f)
			out.stdout = f
		case syntax.StdoutAppend:
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return out, cleanup, err
			}
			opened = append(opened, f)
			out.stdout = f
		case syntax.StdinFrom:
			f, err := os.Open(path)
			if err != nil {
				return out, cleanup, err
			}
			opened = append(opened, f)
			out.stdin = f
		}
	}
	return out, cleanup, nil
}

// runExternal resolves name on PATH and runs it through the configured
// ExecHandlerFunc, registering it as a job so job-control builtins can
// see it.
func (r *Runner) runExternal(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer, background bool, display string) int {
	path, err := r.findExecutable(name)
	if err != nil {
		fmt.Fprintf(stderr, "cerf: %v\n", err)
		return 127
	}

	handler := r.execHandler
	if handler == nil {
		handler = defaultExecHandler
	}

	cmd, err := handler(ctx, r, nil, path, args, stdin, stdout, stderr, 0)
	if err != nil {
		fmt.Fprintf(stderr, "cerf: %v: %v\n", name, err)
		return 127
	}

	job := r.addJob(cmd.Process.Pid, display, name, cmd.Process.Pid)
	if err := r.finalizeJobStart(job, cmd.Process.Pid); err != nil {
		fmt.Fprintf(stderr, "cerf: %v\n", err)
	}
	if background {
		fmt.Fprintf(r.Stdout, "[%d] %d\n", job.ID, cmd.Process.Pid)
		return 0
	}
	status := r.waitForJob(job, true)
	if job.State() == JobDone {
		delete(r.Jobs, job.ID)
	}
	return status
}

// defaultExecHandler starts name with args as a fresh process in its own
// process group, ready for the caller to wait on.
func defaultExecHandler(ctx context.Context, r *Runner, job *Job, name string, args []string, stdin io.Reader, stdout, stderr io.Writer, joinPgid int) (*exec.Cmd, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.execEnv()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	prepareCommand(cmd, joinPgid)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
