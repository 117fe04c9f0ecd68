// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFindExecutableWithSeparator(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "tool")
	c.Assert(os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755), qt.IsNil)

	r, err := New()
	c.Assert(err, qt.IsNil)

	path, err := r.findExecutable(bin)
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Equals, bin)
}

func TestFindExecutableSearchesPath(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "tool")
	c.Assert(os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755), qt.IsNil)

	r, err := New()
	c.Assert(err, qt.IsNil)
	r.Variables["PATH"] = dir

	path, err := r.findExecutable("tool")
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Equals, bin)

	// A cached lookup survives PATH changing until rehash is called.
	r.Variables["PATH"] = ""
	path, err = r.findExecutable("tool")
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Equals, bin)

	r.rehash()
	_, err = r.findExecutable("tool")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestFindExecutableNotFound(t *testing.T) {
	c := qt.New(t)
	r, err := New()
	c.Assert(err, qt.IsNil)
	r.Variables["PATH"] = t.TempDir()

	_, err = r.findExecutable("does-not-exist-anywhere")
	c.Assert(err, qt.Not(qt.IsNil))
}
