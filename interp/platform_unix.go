//go:build unix

package interp

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// platformState holds Unix job-control state: the controlling terminal's
// file descriptor, if any, and the shell's own process group, so the
// terminal can be handed back once a foreground job stops or exits.
type platformState struct {
	termFD    int
	hasTerm   bool
	shellPgid int
}

// jobPlatform carries no extra Unix state: a job's process group id
// already lives on Job.Pgid.
type jobPlatform struct{}

// initTerminal records the shell's controlling terminal and process
// group, if Stdin is in fact a terminal. A non-interactive shell (piped
// input, a script) has no terminal to manage and every later terminal
// operation becomes a no-op.
func (r *Runner) initTerminal() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	r.platform.termFD = fd
	r.platform.hasTerm = true
	if pgid, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP); err == nil {
		r.platform.shellPgid = pgid
	} else {
		r.platform.shellPgid = unix.Getpgrp()
	}
}

// takeTerminal hands the controlling terminal to pgid, making that
// process group the foreground group: it now receives terminal-generated
// signals and may read from the tty.
func (r *Runner) takeTerminal(pgid int) {
	if !r.platform.hasTerm {
		return
	}
	unix.IoctlSetInt(r.platform.termFD, unix.TIOCSPGRP, pgid)
}

// restoreTerminal gives the terminal back to the shell's own process
// group.
func (r *Runner) restoreTerminal() {
	if !r.platform.hasTerm {
		return
	}
	unix.IoctlSetInt(r.platform.termFD, unix.TIOCSPGRP, r.platform.shellPgid)
}
