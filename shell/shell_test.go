// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package shell_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cerfshell/cerf/interp"
	"github.com/cerfshell/cerf/shell"
)

func newRunner(c *qt.C, stdin string) (*interp.Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r, err := interp.New(interp.StdIO(strings.NewReader(stdin), &stdout, &stderr))
	c.Assert(err, qt.IsNil)
	return r, &stdout, &stderr
}

func TestRunCommand(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newRunner(c, "")
	status := shell.RunCommand(context.Background(), r, "echo hi")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Equals, "hi\n")
}

func TestRunInteractiveEchoesPromptAndOutput(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newRunner(c, "echo one\necho two\n")
	status := shell.RunInteractive(context.Background(), r, strings.NewReader("echo one\necho two\n"), stdout, stdout, nil, "")
	c.Assert(status, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Contains, "one\n")
	c.Assert(stdout.String(), qt.Contains, "two\n")
}

func TestRunInteractiveStopsOnExit(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newRunner(c, "")
	in := strings.NewReader("echo before\nexit 7\necho after\n")
	status := shell.RunInteractive(context.Background(), r, in, stdout, stdout, nil, "")
	c.Assert(status, qt.Equals, 7)
	c.Assert(stdout.String(), qt.Contains, "before\n")
	c.Assert(stdout.String(), qt.Not(qt.Contains), "after\n")
}

func TestSourceRCMissingFileIsFine(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newRunner(c, "")
	err := shell.SourceRC(context.Background(), r, "/no/such/path/.cerfrc")
	c.Assert(err, qt.IsNil)
}

func TestSourceRCRunsCommands(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newRunner(c, "")
	dir := t.TempDir()
	path := dir + "/.cerfrc"
	if err := os.WriteFile(path, []byte("alias ll='ls -la'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := shell.SourceRC(context.Background(), r, path)
	c.Assert(err, qt.IsNil)
	c.Assert(r.Aliases["ll"], qt.Equals, "ls -la")
}

func TestRunInteractiveDrainsReloadBetweenPrompts(t *testing.T) {
	c := qt.New(t)
	r, stdout, _ := newRunner(c, "")
	dir := t.TempDir()
	path := dir + "/.cerfrc"
	c.Assert(os.WriteFile(path, []byte("alias ll='ls -la'\n"), 0o644), qt.IsNil)

	reload := make(chan struct{}, 1)
	reload <- struct{}{}

	in := strings.NewReader("echo hi\n")
	status := shell.RunInteractive(context.Background(), r, in, stdout, stdout, reload, path)
	c.Assert(status, qt.Equals, 0)
	c.Assert(r.Aliases["ll"], qt.Equals, "ls -la")
	c.Assert(stdout.String(), qt.Contains, "hi\n")
}
