// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"errors"
	"fmt"
)

// ExitStatus is a non-zero status code resulting from running a command.
// It is returned as an error so that execution plumbing can distinguish
// "the command ran and failed" from "the command could not be run".
type ExitStatus uint8

func (s ExitStatus) Error() string { return fmt.Sprintf("exit status %d", s) }

// NewExitStatus wraps status as an error carrying that exit status.
func NewExitStatus(status uint8) error { return ExitStatus(status) }

// IsExitStatus reports whether err is (or wraps) an ExitStatus.
func IsExitStatus(err error) (status uint8, ok bool) {
	var es ExitStatus
	if errors.As(err, &es) {
		return uint8(es), true
	}
	return 0, false
}
