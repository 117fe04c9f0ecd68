//go:build unix

package interp

import (
	"os/signal"
	"syscall"
)

// ignoreJobControlSignals makes the shell itself immune to the signals the
// terminal driver sends to a foreground process group (Ctrl-C, Ctrl-Z,
// Ctrl-\, and the background-read/write signals). Once a job's own
// process group owns the terminal (see takeTerminal), the kernel delivers
// these directly to the job, not to the shell.
func ignoreJobControlSignals() {
	signal.Ignore(syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP, syscall.SIGTTIN, syscall.SIGTTOU)
}
