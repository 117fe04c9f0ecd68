// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ProcessState is the run state of one process within a job.
type ProcessState int

const (
	ProcessRunning ProcessState = iota
	ProcessStopped
	ProcessDone
)

// Process is one member of a job's process group.
type Process struct {
	Pid   int
	Name  string
	State ProcessState
	// Code is meaningful only when State is ProcessDone: the process's
	// exit code, or 128+signal for a signal death.
	Code int
}

// JobState is the derived run state of a whole Job: Done iff every
// process is Done, Stopped iff every process is Done or Stopped and at
// least one is Stopped, else Running.
type JobState int

const (
	JobRunning JobState = iota
	JobStopped
	JobDone
)

// Job is one external command run as a job: a process group the Runner
// tracks for job-control builtins (jobs, fg, bg, wait, kill). Each external
// stage of a multi-command pipeline is a Job of its own.
type Job struct {
	ID   int
	Pgid int
	// Token is a stable identity for this job independent of ID, which is
	// a small per-session counter that starts again at 1 in every new
	// shell. External tooling (history annotations, logs) that needs to
	// refer to a job across shell restarts should use Token instead.
	Token string

	Command   string
	Processes []*Process

	ReportedDone bool

	platform jobPlatform
}

// State derives the job's overall JobState from its processes.
func (j *Job) State() JobState {
	allDone := true
	anyStopped := false
	for _, p := range j.Processes {
		switch p.State {
		case ProcessDone:
		case ProcessStopped:
			allDone = false
			anyStopped = true
		default:
			allDone = false
		}
	}
	switch {
	case allDone:
		return JobDone
	case anyStopped:
		return JobStopped
	default:
		return JobRunning
	}
}

func (j *Job) doneCode() int {
	code := 0
	for _, p := range j.Processes {
		if p.State == ProcessDone {
			code = p.Code
		}
	}
	return code
}

func newJob(id, pgid int, command, name string, pid int) *Job {
	return &Job{
		ID:      id,
		Pgid:    pgid,
		Token:   uuid.NewString(),
		Command: command,
		Processes: []*Process{{
			Pid:   pid,
			Name:  name,
			State: ProcessRunning,
		}},
	}
}

// addJob registers a newly spawned job and returns it.
func (r *Runner) addJob(pgid int, command, name string, pid int) *Job {
	id := r.NextJobID
	r.NextJobID++
	job := newJob(id, pgid, command, name, pid)
	r.Jobs[id] = job
	r.CurrentJob, r.PreviousJob = id, r.CurrentJob
	return job
}

// updatePidState applies a new ProcessState to every Process across all
// jobs with a matching pid, mirroring update_pid_state.
func (r *Runner) updatePidState(pid int, state ProcessState, code int) {
	for _, job := range r.Jobs {
		for _, p := range job.Processes {
			if p.Pid == pid {
				p.State = state
				p.Code = code
			}
		}
	}
}

// sweepDoneJobs reports and removes jobs that have finished in the
// background, mirroring update_jobs' done-job bookkeeping.
func (r *Runner) sweepDoneJobs() {
	var done []int
	for id, job := range r.Jobs {
		if job.State() == JobDone {
			if !job.ReportedDone {
				fmt.Fprintf(r.Stdout, "[%d] Done %s\n", id, job.Command)
				job.ReportedDone = true
			}
			done = append(done, id)
		}
	}
	for _, id := range done {
		delete(r.Jobs, id)
	}
}

// resolveJobSpec resolves a job specifier: "%+"/"%%" (current job),
// "%-" (previous job), "%N" or a bare job id, or "%prefix" (a unique
// command-name prefix match).
func (r *Runner) resolveJobSpec(spec string) (int, error) {
	if spec == "" {
		return 0, fmt.Errorf("invalid job specifier")
	}
	if spec[0] != '%' {
		if n, ok := parsePositiveInt(spec); ok {
			if _, exists := r.Jobs[n]; exists {
				return n, nil
			}
		}
		return 0, fmt.Errorf("%s: no such job", spec)
	}
	rest := spec[1:]
	switch rest {
	case "+", "%", "":
		if r.CurrentJob != 0 {
			if _, ok := r.Jobs[r.CurrentJob]; ok {
				return r.CurrentJob, nil
			}
		}
		return 0, fmt.Errorf("current: no such job")
	case "-":
		if r.PreviousJob != 0 {
			if _, ok := r.Jobs[r.PreviousJob]; ok {
				return r.PreviousJob, nil
			}
		}
		return 0, fmt.Errorf("previous: no such job")
	}
	if n, ok := parsePositiveInt(rest); ok {
		if _, exists := r.Jobs[n]; exists {
			return n, nil
		}
		return 0, fmt.Errorf("%s: no such job", spec)
	}
	var match int
	for id, job := range r.Jobs {
		if strings.HasPrefix(job.Command, rest) {
			if match != 0 {
				return 0, fmt.Errorf("%s: ambiguous job spec", spec)
			}
			match = id
		}
	}
	if match == 0 {
		return 0, fmt.Errorf("%s: no such job", spec)
	}
	return match, nil
}

func (r *Runner) setCurrentJob(id int) {
	if id == r.CurrentJob {
		return
	}
	r.PreviousJob = r.CurrentJob
	r.CurrentJob = id
}

// sortedJobIDs returns job ids in ascending order, for deterministic
// "jobs" output.
func (r *Runner) sortedJobIDs() []int {
	ids := make([]int, 0, len(r.Jobs))
	for id := range r.Jobs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s JobState) String() string {
	switch s {
	case JobRunning:
		return "Running"
	case JobStopped:
		return "Stopped"
	case JobDone:
		return "Done"
	default:
		return "Unknown"
	}
}
