// Package bfio holds the I/O context shared between the host and
// JIT-emitted native code (spec §4.6, §9). It mirrors
// original_source/src/vm/mod.rs's IO struct: a reader and a writer
// reachable through one pointer-sized handle that emitted code passes
// straight through to the trampoline without ever dereferencing it
// itself.
package bfio

import "io"

// Context bundles the two byte-oriented handles a running program
// talks to. Its address is what the JIT hands to generated code and
// gets back unchanged at every Put/Get call site; only the trampoline
// in internal/jitabi dereferences it.
//
// Context must never move once a JIT invocation is in flight — the
// executor that owns it is responsible for keeping it pinned for the
// lifetime of the call (spec §4.6 "critical invariant").
type Context struct {
	Input  io.Reader
	Output io.Writer
}

// NewContext binds the exclusive input/output handles for one run.
func NewContext(in io.Reader, out io.Writer) *Context {
	return &Context{Input: in, Output: out}
}
