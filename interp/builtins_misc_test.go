// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBuiltinEchoDashN(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newTestRunner(c, "")
	status := r.Run(context.Background(), "echo -n foo")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Equals, "foo")
}

func TestBuiltinReadSetsVariable(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "hello world\n")
	status := r.Run(context.Background(), "read line")
	c.Assert(status, qt.Equals, 0)
	v, ok := r.Getenv("line")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "hello world")
}

func TestBuiltinTypeResolvesAliasBuiltinAndExternal(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newTestRunner(c, "")
	r.Aliases["ll"] = "ls -la"

	status := r.Run(context.Background(), "type ll")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "aliased to")

	stdout.Reset()
	status = r.Run(context.Background(), "type echo")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "shell builtin")

	stdout.Reset()
	status = r.Run(context.Background(), "type cat")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "cat")
}

func TestBuiltinSourceRunsFileAndSkipsComments(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newTestRunner(c, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "rc.sh")
	c.Assert(os.WriteFile(path, []byte("# a comment\necho from-source\n"), 0o644), qt.IsNil)

	status := r.Run(context.Background(), "source "+path)
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Equals, "from-source\n")
}

func TestBuiltinRehashClearsPathCache(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")
	r.pathCache["tool"] = "/bogus/tool"
	status := r.Run(context.Background(), "rehash")
	c.Assert(status, qt.Equals, 0)
	c.Assert(r.pathCache, qt.HasLen, 0)
}

func TestBuiltinExitWithCode(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")
	status := r.Run(context.Background(), "exit 5")
	c.Assert(status, qt.Equals, 5)
	code, ok := r.PendingExit()
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, 5)
}

func TestBuiltinExitDefaultsToLastStatus(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c, "")
	status := r.Run(context.Background(), "false; exit")
	c.Assert(status, qt.Equals, 1)
	code, ok := r.PendingExit()
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, 1)
}

func TestBuiltinHelpListsAndLooksUp(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newTestRunner(c, "")
	status := r.Run(context.Background(), "help")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "echo")

	stdout.Reset()
	status = r.Run(context.Background(), "help echo")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "echo [args...]")
}
