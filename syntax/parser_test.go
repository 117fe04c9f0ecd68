// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseEmptyLines(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	for _, in := range []string{"", "   ", ";", "; ; ;", "# a comment", "  # comment"} {
		entries, err := NewParser().Parse(in)
		c.Assert(err, qt.IsNil)
		c.Assert(entries, qt.HasLen, 0)
	}
}

func TestParseSimpleCommand(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("echo hello world")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	pl := entries[0].Pipeline
	c.Assert(pl.Commands, qt.HasLen, 1)
	cmd := pl.Commands[0]
	c.Assert(cmd.Name, qt.Equals, "echo")
	c.Assert(len(cmd.Args), qt.Equals, 2)
	c.Assert(cmd.Args[0].Value, qt.Equals, "hello")
	c.Assert(cmd.Args[1].Value, qt.Equals, "world")
}

func TestParseConnectors(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("false && echo x ; true || echo y ; echo z")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 5)
	wantConns := []Connector{ConnNone, ConnAnd, ConnSemi, ConnOr, ConnSemi}
	for i, want := range wantConns {
		c.Assert(entries[i].Connector, qt.Equals, want)
	}
}

func TestParseNegation(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("! true")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Pipeline.Negated, qt.IsTrue)
	c.Assert(entries[0].Pipeline.Commands[0].Name, qt.Equals, "true")
}

func TestParseNegationAlone(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	_, err := NewParser().Parse("!")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParsePipeline(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("cat file.txt | grep foo | wc -l")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Pipeline.Commands, qt.HasLen, 3)
}

func TestParseEmptyPipeSegment(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	_, err := NewParser().Parse("echo a |")
	c.Assert(err, qt.Not(qt.IsNil))
	_, err = NewParser().Parse("| echo a")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseBackground(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("sleep 60 &")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Pipeline.Background, qt.IsTrue)
}

func TestParseAssignment(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("FOO=bar")
	c.Assert(err, qt.IsNil)
	cmd := entries[0].Pipeline.Commands[0]
	c.Assert(cmd.HasName, qt.IsFalse)
	c.Assert(cmd.Assignments, qt.HasLen, 1)
	c.Assert(cmd.Assignments[0].Name, qt.Equals, "FOO")
	c.Assert(cmd.Assignments[0].Value, qt.Equals, "bar")
}

func TestParseAssignmentBeforeCommand(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("FOO=bar echo $FOO")
	c.Assert(err, qt.IsNil)
	cmd := entries[0].Pipeline.Commands[0]
	c.Assert(cmd.Assignments, qt.HasLen, 1)
	c.Assert(cmd.Name, qt.Equals, "echo")
	c.Assert(cmd.Args[0].Value, qt.Equals, "$FOO")
}

func TestParseRedirectOnly(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("> out.txt")
	c.Assert(err, qt.IsNil)
	cmd := entries[0].Pipeline.Commands[0]
	c.Assert(cmd.HasName, qt.IsFalse)
	c.Assert(cmd.Redirects, qt.HasLen, 1)
	c.Assert(cmd.Redirects[0].Kind, qt.Equals, StdoutOverwrite)
	c.Assert(cmd.Redirects[0].File, qt.Equals, "out.txt")
}

func TestParseRedirectKinds(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("cmd > out.txt >> log.txt < in.txt")
	c.Assert(err, qt.IsNil)
	cmd := entries[0].Pipeline.Commands[0]
	c.Assert(cmd.Redirects, qt.HasLen, 3)
	c.Assert(cmd.Redirects[0].Kind, qt.Equals, StdoutOverwrite)
	c.Assert(cmd.Redirects[1].Kind, qt.Equals, StdoutAppend)
	c.Assert(cmd.Redirects[2].Kind, qt.Equals, StdinFrom)
}

func TestParseQuoting(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse(`echo "hello world" 'single'"adj"`)
	c.Assert(err, qt.IsNil)
	cmd := entries[0].Pipeline.Commands[0]
	c.Assert(cmd.Args, qt.HasLen, 2)
	c.Assert(cmd.Args[0].Value, qt.Equals, "hello world")
	c.Assert(cmd.Args[0].Quoted, qt.IsTrue)
	c.Assert(cmd.Args[1].Value, qt.Equals, "singleadj")
	c.Assert(cmd.Args[1].Quoted, qt.IsFalse)
}

func TestParseUnterminatedQuote(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	_, err := NewParser().Parse(`echo "unterminated`)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseTrailingConnectorError(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	_, err := NewParser().Parse("true &&")
	c.Assert(err, qt.Not(qt.IsNil))
	_, err = NewParser().Parse("true ||")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseTrailingSemiIsFine(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	entries, err := NewParser().Parse("true ;")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
}
