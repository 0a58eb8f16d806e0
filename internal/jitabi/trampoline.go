//go:build amd64

// Package jitabi is the FFI bridge between JIT-emitted native code and
// the host's I/O routines (spec §4.6, §9 "Shared state across the FFI
// boundary").
//
// Emitted code never dereferences the io context pointer itself — it
// hands the pointer straight through to one of the two trampoline
// entry points below, the same shape as original_source/src/vm/mod.rs's
// `#[no_mangle] extern "C" fn bf_put/bf_get`. The difference from the
// Rust original is mechanical, not conceptual: a Go function's entry
// point does not speak the platform C calling convention directly (Go
// uses its own register-based internal ABI), so PutEntry/GetEntry are
// hand-written assembly stubs (trampoline_amd64.s) that accept
// SysV-convention arguments in RDI/RSI exactly as emitted CALL
// instructions leave them, then re-marshal onto the stack to invoke
// the plain Go implementation below through the stack-based ABI0
// calling convention the toolchain still exposes to assembly callers.
package jitabi

import (
	"unsafe"

	"github.com/nilcount/bf/internal/bfio"
)

// PutEntry and GetEntry are implemented in trampoline_amd64.s, which
// also preserves BX, R12, and R13 internally so JIT-emitted code can
// treat a call to either entry point as an ordinary SysV call that
// respects the callee-saved register set — JIT code must still never
// place anything of its own in R14, the Go runtime's goroutine
// pointer register, in either direction. A JIT backend resolves these
// entry points' addresses once (reflect.ValueOf(...).Pointer()) and
// bakes them into emitted code as an absolute call target — see
// internal/codegen/amd64's CallAbs.
func PutEntry()
func GetEntry()

// bfPutImpl writes one byte (the low 8 bits of b) to ctx's output.
// Any write failure is fatal: emitted code has no error-return path
// (spec §7), so a failure here panics the host process rather than
// returning through the trampoline.
func bfPutImpl(ctx uintptr, b uint64) {
	c := (*bfio.Context)(unsafe.Pointer(ctx))
	var buf [1]byte
	buf[0] = byte(b)
	if _, err := c.Output.Write(buf[:]); err != nil {
		panic("bf jit: output write failed: " + err.Error())
	}
}

// bfGetImpl reads one byte from ctx's input and returns it
// zero-extended. EOF or any other read failure is fatal, for the same
// reason as bfPutImpl.
func bfGetImpl(ctx uintptr) uint64 {
	c := (*bfio.Context)(unsafe.Pointer(ctx))
	var buf [1]byte
	n, err := c.Input.Read(buf[:])
	if n == 0 {
		if err == nil {
			panic("bf jit: input read returned no data")
		}
		panic("bf jit: input read failed: " + err.Error())
	}
	return uint64(buf[0])
}
