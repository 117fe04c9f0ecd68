// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"
)

func init() {
	registerBuiltin(Builtin{
		Name:        "jobs",
		Description: "list background and stopped jobs",
		Usage:       "jobs",
		Run:         builtinJobs,
	})
	registerBuiltin(Builtin{
		Name:        "fg",
		Description: "resume a job in the foreground",
		Usage:       "fg [%job]",
		Run:         builtinFg,
	})
	registerBuiltin(Builtin{
		Name:        "bg",
		Description: "resume a job in the background",
		Usage:       "bg [%job]",
		Run:         builtinBg,
	})
	registerBuiltin(Builtin{
		Name:        "wait",
		Description: "wait for jobs to finish",
		Usage:       "wait [%job]",
		Run:         builtinWait,
	})
	registerBuiltin(Builtin{
		Name:        "kill",
		Description: "send a signal to a job or process",
		Usage:       "kill [-s sigspec|-sigspec] %job|pid",
		Run:         builtinKill,
	})
}

func builtinJobs(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r.pollAllJobs()
	for _, id := range r.sortedJobIDs() {
		job := r.Jobs[id]
		marker := " "
		if id == r.CurrentJob {
			marker = "+"
		} else if id == r.PreviousJob {
			marker = "-"
		}
		fmt.Fprintf(stdout, "[%d]%s  %-8s %s\n", id, marker, job.State(), job.Command)
	}
	return 0
}

func (r *Runner) pollAllJobs() {
	for _, job := range r.Jobs {
		r.pollJob(job)
	}
	r.sweepDoneJobs()
}

func builtinFg(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	id, err := r.jobOrDefault(args)
	if err != nil {
		fmt.Fprintf(stderr, "fg: %v\n", err)
		return 1
	}
	job := r.Jobs[id]
	fmt.Fprintln(stdout, job.Command)
	r.setCurrentJob(id)
	if err := r.signalJob(job, sigCont); err != nil {
		fmt.Fprintf(stderr, "fg: %v\n", err)
	}
	for _, p := range job.Processes {
		if p.State == ProcessStopped {
			p.State = ProcessRunning
		}
	}
	status := r.waitForJob(job, true)
	r.sweepDoneJobs()
	return status
}

func builtinBg(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	id, err := r.jobOrDefault(args)
	if err != nil {
		fmt.Fprintf(stderr, "bg: %v\n", err)
		return 1
	}
	job := r.Jobs[id]
	if err := r.signalJob(job, sigCont); err != nil {
		fmt.Fprintf(stderr, "bg: %v\n", err)
		return 1
	}
	for _, p := range job.Processes {
		if p.State == ProcessStopped {
			p.State = ProcessRunning
		}
	}
	cmd := job.Command
	if !strings.HasSuffix(cmd, " &") {
		cmd += " &"
	}
	fmt.Fprintf(stdout, "[%d] %s\n", id, cmd)
	r.setCurrentJob(id)
	return 0
}

func builtinWait(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		status := 0
		for _, id := range r.sortedJobIDs() {
			if job, ok := r.Jobs[id]; ok {
				status = r.waitForJob(job, false)
			}
		}
		r.sweepDoneJobs()
		return status
	}
	id, err := r.resolveJobSpec(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "wait: %v\n", err)
		return 1
	}
	status := r.waitForJob(r.Jobs[id], false)
	r.sweepDoneJobs()
	return status
}

func builtinKill(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	sig := syscall.SIGTERM
	i := 0
	if len(args) > 0 {
		switch {
		case args[0] == "-s" && len(args) > 1:
			if s, ok := parseSignal(args[1]); ok {
				sig = s
			}
			i = 2
		case strings.HasPrefix(args[0], "-") && len(args[0]) > 1:
			if s, ok := parseSignal(args[0][1:]); ok {
				sig = s
				i = 1
			}
		}
	}
	if i >= len(args) {
		fmt.Fprintln(stderr, "kill: usage: kill [-s sigspec|-sigspec] %job|pid")
		return 1
	}

	status := 0
	for _, spec := range args[i:] {
		if strings.HasPrefix(spec, "%") {
			id, err := r.resolveJobSpec(spec)
			if err != nil {
				fmt.Fprintf(stderr, "kill: %v\n", err)
				status = 1
				continue
			}
			if err := r.signalJob(r.Jobs[id], sig); err != nil {
				fmt.Fprintf(stderr, "kill: %v\n", err)
				status = 1
			}
			continue
		}
		pid, err := strconv.Atoi(spec)
		if err != nil {
			fmt.Fprintf(stderr, "kill: %s: arguments must be job IDs or process IDs\n", spec)
			status = 1
			continue
		}
		if err := signalPid(pid, sig); err != nil {
			fmt.Fprintf(stderr, "kill: (%d): %v\n", pid, err)
			status = 1
		}
	}
	return status
}

func parseSignal(name string) (syscall.Signal, bool) {
	name = strings.ToUpper(strings.TrimPrefix(name, "SIG"))
	switch name {
	case "HUP":
		return syscall.SIGHUP, true
	case "INT":
		return syscall.SIGINT, true
	case "QUIT":
		return syscall.SIGQUIT, true
	case "KILL", "9":
		return syscall.SIGKILL, true
	case "TERM", "15":
		return syscall.SIGTERM, true
	case "STOP":
		return sigStop, true
	case "CONT", "18":
		return sigCont, true
	case "TSTP":
		return sigTstp, true
	default:
		if n, err := strconv.Atoi(name); err == nil {
			return syscall.Signal(n), true
		}
		return 0, false
	}
}

// jobOrDefault resolves args[0] as a job specifier, or falls back to the
// current job when args is empty.
func (r *Runner) jobOrDefault(args []string) (int, error) {
	if len(args) > 0 {
		return r.resolveJobSpec(args[0])
	}
	return r.resolveJobSpec("%+")
}
