//go:build windows

package interp

// ignoreJobControlSignals is a no-op on Windows: there is no terminal
// process-group signal delivery to guard against. Jobs cannot be suspended
// on Windows: signalJob in handler_windows.go acts on SIGKILL only.
func ignoreJobControlSignals() {}
