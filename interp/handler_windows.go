//go:build windows

package interp

import (
	"context"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/windows"
)

type windowsHandle = windows.Handle

// Job-control signals with no Windows equivalent; these values mirror
// their Linux signal numbers so "kill -STOP %1" etc. parse the same on
// every platform, even though signalJob only special-cases SIGKILL here.
const (
	sigCont = syscall.Signal(18)
	sigStop = syscall.Signal(19)
	sigTstp = syscall.Signal(20)
)

// Windows job object completion messages not exposed as named constants
// by golang.org/x/sys/windows.
const (
	jobObjectMsgExitProcess        = 7
	jobObjectMsgActiveProcessZero  = 4
	jobObjectMsgAbnormalExitProc   = 8
	jobObjectAssociateCompletion   = 7 // JobObjectAssociateCompletionPortInformation
	jobObjectExtendedLimitInfoKind = 9 // JobObjectExtendedLimitInformation
)

// prepareCommand puts cmd in a new console process group, so Ctrl-Break
// sent to that group does not also reach the shell itself.
func prepareCommand(cmd *exec.Cmd, _ int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// finalizeJobStart creates job's Job Object and completion port (on
// first use) and assigns the freshly started process into it, mirroring
// the POSIX setpgid dance: from here on the job can be addressed, waited
// on and killed as a unit.
func (r *Runner) finalizeJobStart(job *Job, pid int) error {
	jp, err := createJobObject()
	if err != nil {
		return err
	}
	job.platform = jp

	handle, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)

	return windows.AssignProcessToJobObject(jp.jobObject, handle)
}

// createJobObject creates a Job Object with an associated I/O completion
// port used to detect process exits, mirroring the IOCP-based job
// tracking job_control.rs uses on Windows.
func createJobObject() (jobPlatform, error) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return jobPlatform{}, err
	}
	port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 1)
	if err != nil {
		windows.CloseHandle(job)
		return jobPlatform{}, err
	}
	assoc := struct {
		CompletionKey  uintptr
		CompletionPort windows.Handle
	}{CompletionKey: uintptr(job), CompletionPort: port}
	if err := windows.SetInformationJobObject(
		job,
		jobObjectAssociateCompletion,
		uintptr(unsafe.Pointer(&assoc)),
		uint32(unsafe.Sizeof(assoc)),
	); err != nil {
		windows.CloseHandle(job)
		windows.CloseHandle(port)
		return jobPlatform{}, err
	}
	return jobPlatform{jobObject: job, ioPort: port}, nil
}

// waitForJob blocks, pumping the job's completion port, until every
// process assigned to it has exited. Jobs are never stopped on Windows
// (signalJob does not suspend processes), so waitForJob here only
// distinguishes running from fully exited.
func (r *Runner) waitForJob(job *Job, fg bool) int {
	g, ctx := errgroup.WithContext(context.Background())
	done := make(chan struct{})
	g.Go(func() error {
		return pumpCompletionPort(ctx, job.platform.ioPort, done)
	})
	<-done
	g.Wait()
	for _, p := range job.Processes {
		if p.State != ProcessDone {
			p.State = ProcessDone
		}
	}
	return job.doneCode()
}

func pumpCompletionPort(ctx context.Context, port windows.Handle, done chan struct{}) error {
	defer close(done)
	for {
		var bytes uint32
		var key uintptr
		var overlapped *windows.Overlapped
		err := windows.GetQueuedCompletionStatus(port, &bytes, &key, &overlapped, windows.INFINITE)
		if err != nil {
			return err
		}
		if uint32(bytes) == jobObjectMsgActiveProcessZero {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// pollJob is a no-op on Windows: job exit is detected entirely through
// the completion port pumped by waitForJob, there is nothing to poll
// between calls.
func (r *Runner) pollJob(job *Job) {}

// signalJob emulates POSIX signals against a Windows job: SIGKILL
// terminates every process in the Job Object, anything else is not
// representable and is ignored.
func (r *Runner) signalJob(job *Job, sig syscall.Signal) error {
	if sig == syscall.SIGKILL {
		return windows.TerminateJobObject(job.platform.jobObject, 1)
	}
	return nil
}

// signalPid emulates "kill <pid>" for a single process: SIGKILL
// terminates it, anything else is unsupported on Windows.
func signalPid(pid int, sig syscall.Signal) error {
	if sig != syscall.SIGKILL {
		return nil
	}
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)
	return windows.TerminateProcess(handle, 1)
}
