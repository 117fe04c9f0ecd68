//go:build unix

package interp

import (
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// prepareCommand places cmd in its own process group (joinPgid == 0) or
// joins an existing one (joinPgid set to the group leader's pid).
// runExternal always passes 0, so every external command, including each
// stage of a multi-command pipeline, gets a process group of its own; the
// stages of one pipeline do not share a group.
func prepareCommand(cmd *exec.Cmd, joinPgid int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: joinPgid}
}

// signalJob sends sig to every process in job's process group.
func (r *Runner) signalJob(job *Job, sig syscall.Signal) error {
	return syscall.Kill(-job.Pgid, sig)
}

// finalizeJobStart is a no-op on Unix: prepareCommand's Setpgid already
// put the process in its own process group at spawn time.
func (r *Runner) finalizeJobStart(job *Job, pid int) error { return nil }

// signalPid sends sig directly to a single process by pid, for "kill
// <pid>" with no job specifier.
func signalPid(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Job-control signals not defined in the syscall package on every
// platform; builtins_job.go refers to these instead of syscall.SIGCONT
// etc directly so it builds on Windows too.
const (
	sigCont = syscall.SIGCONT
	sigStop = syscall.SIGSTOP
	sigTstp = syscall.SIGTSTP
)

// waitForJob blocks until job stops or all of its processes have exited.
// When fg is true the job is given the controlling terminal first and it
// is taken back before returning.
func (r *Runner) waitForJob(job *Job, fg bool) int {
	if fg {
		r.takeTerminal(job.Pgid)
		defer r.restoreTerminal()
	}
	for job.State() == JobRunning {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-job.Pgid, &ws, unix.WUNTRACED, nil)
		if err != nil {
			if err == unix.ECHILD {
				break
			}
			continue
		}
		r.applyWaitStatus(job, pid, ws, fg)
	}
	return job.doneCode()
}

// pollJob performs one non-blocking sweep over job's process group,
// updating whatever process states changed without blocking the caller.
func (r *Runner) pollJob(job *Job) {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-job.Pgid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err != nil || pid <= 0 {
			return
		}
		r.applyWaitStatus(job, pid, ws, false)
	}
}

func (r *Runner) applyWaitStatus(job *Job, pid int, ws unix.WaitStatus, fg bool) {
	switch {
	case ws.Stopped():
		r.updatePidState(pid, ProcessStopped, 0)
		if fg {
			fmt.Fprintf(r.Stderr, "\n[%d]+  Stopped  %s\n", job.ID, job.Command)
		}
	case ws.Signaled():
		r.updatePidState(pid, ProcessDone, 128+int(ws.Signal()))
	case ws.Exited():
		r.updatePidState(pid, ProcessDone, ws.ExitStatus())
	}
}
