// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestAliasSimple(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	aliases := map[string]string{"ll": "ls -la"}
	name, args, ok := Alias("ll", nil, aliases)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "ls")
	c.Assert(args, qt.DeepEquals, []string{"-la"})
}

func TestAliasNoMatch(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	name, args, ok := Alias("ls", []string{"-la"}, map[string]string{"ll": "ls -la"})
	c.Assert(ok, qt.IsFalse)
	c.Assert(name, qt.Equals, "ls")
	c.Assert(args, qt.IsNil)
}

func TestAliasPrependsToExistingArgs(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	aliases := map[string]string{"ll": "ls -la"}
	_, args, ok := Alias("ll", []string{"/tmp"}, aliases)
	c.Assert(ok, qt.IsTrue)
	c.Assert(args, qt.DeepEquals, []string{"-la", "/tmp"})
}

func TestAliasQuotedValue(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	aliases := map[string]string{"greet": "echo 'hello world'"}
	name, args, ok := Alias("greet", nil, aliases)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "echo")
	c.Assert(args, qt.DeepEquals, []string{"hello world"})
}

func TestAliasNotRecursive(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	aliases := map[string]string{"ls": "ls --color"}
	name, args, ok := Alias("ls", nil, aliases)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "ls")
	c.Assert(args, qt.DeepEquals, []string{"--color"})
	// A second, separate call on the resulting name would need to happen
	// explicitly; Alias itself never loops.
}
