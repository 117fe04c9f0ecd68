// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestExitStatusErrorAndUnwrap(t *testing.T) {
	c := qt.New(t)
	err := NewExitStatus(3)
	c.Assert(err.Error(), qt.Equals, "exit status 3")

	wrapped := fmt.Errorf("running script: %w", err)
	status, ok := IsExitStatus(errors.Unwrap(wrapped))
	c.Assert(ok, qt.IsTrue)
	c.Assert(status, qt.Equals, uint8(3))

	var es ExitStatus
	c.Assert(errors.As(wrapped, &es), qt.IsTrue)
	c.Assert(es, qt.Equals, ExitStatus(3))
}

func TestIsExitStatusRejectsOtherErrors(t *testing.T) {
	c := qt.New(t)
	_, ok := IsExitStatus(errors.New("boom"))
	c.Assert(ok, qt.IsFalse)
}
