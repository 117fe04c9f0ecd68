// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"context"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBuiltinTestStringAndInt(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")

	c.Assert(r.Run(context.Background(), "test foo = foo"), qt.Equals, 0)
	c.Assert(r.Run(context.Background(), "test foo = bar"), qt.Equals, 1)
	c.Assert(r.Run(context.Background(), "test 3 -lt 4"), qt.Equals, 0)
	c.Assert(r.Run(context.Background(), "test 3 -gt 4"), qt.Equals, 1)
	c.Assert(r.Run(context.Background(), "test -z ''"), qt.Equals, 0)
}

func TestBuiltinBracketTestRequiresClosingBracket(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")
	c.Assert(r.Run(context.Background(), "[ foo = foo ]"), qt.Equals, 0)
	c.Assert(r.Run(context.Background(), "[ foo = foo"), qt.Equals, 2)
}

func TestBuiltinTestFileChecks(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")
	dir := t.TempDir()
	c.Assert(os.WriteFile(dir+"/f", nil, 0o644), qt.IsNil)

	c.Assert(r.Run(context.Background(), "test -d "+dir), qt.Equals, 0)
	c.Assert(r.Run(context.Background(), "test -f "+dir+"/f"), qt.Equals, 0)
	c.Assert(r.Run(context.Background(), "test -e "+dir+"/nope"), qt.Equals, 1)
}

func TestParseIntHandlesNegative(t *testing.T) {
	c := qt.New(t)
	c.Assert(parseInt("-5"), qt.Equals, -5)
	c.Assert(parseInt("5"), qt.Equals, 5)
	c.Assert(parseInt("abc"), qt.Equals, 0)
}
