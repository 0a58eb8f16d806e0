//go:build amd64

package jitabi

// Invoke transfers control to a JIT-compiled function at entry,
// presenting tapeBase and ioCtx as its two SysV arguments (RDI, RSI) —
// the same shape original_source/src/vm/cranelift.rs gets for free
// from a native `extern "C" fn(*mut u8, *mut IO)` function pointer.
// Go has no built-in way to call through a bare code address, so
// invoke_amd64.s holds a small hand-written stub that does the
// register setup and a plain indirect CALL.
func Invoke(entry, tapeBase, ioCtx uintptr)
