// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// Package internal holds small test-only helpers shared across cerf's
// package tests: nothing here is part of the public API.
package internal

import (
	"bytes"
	"sync"
)

// ConcBuffer wraps a bytes.Buffer in a mutex so that concurrent writes
// to it don't upset the race detector. It suits tests that run a
// background job alongside foreground output on the same Runner.Stdout;
// no test in the module uses it at present.
type ConcBuffer struct {
	buf bytes.Buffer
	sync.Mutex
}

func (c *ConcBuffer) Write(p []byte) (int, error) {
	c.Lock()
	n, err := c.buf.Write(p)
	c.Unlock()
	return n, err
}

func (c *ConcBuffer) WriteString(s string) (int, error) {
	c.Lock()
	n, err := c.buf.WriteString(s)
	c.Unlock()
	return n, err
}

func (c *ConcBuffer) String() string {
	c.Lock()
	s := c.buf.String()
	c.Unlock()
	return s
}

func (c *ConcBuffer) Reset() {
	c.Lock()
	c.buf.Reset()
	c.Unlock()
}
