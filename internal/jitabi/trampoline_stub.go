//go:build !amd64

// This build of the trampoline has no machine-code entry points: both
// JIT backends only target amd64 (see DESIGN.md's internal/jitabi and
// cmd/bf entries). The interpreter remains fully available on any
// platform.
package jitabi

// PutEntry and GetEntry are never called on non-amd64 builds — both
// JIT packages build only for amd64, and cmd/bf's non-amd64 runJIT
// reports a bferr.CompileError instead of compiling anything.
func PutEntry() { panic("jitabi: no native trampoline on this architecture") }
func GetEntry() { panic("jitabi: no native trampoline on this architecture") }

// Invoke is likewise unreachable on non-amd64 builds.
func Invoke(entry, tapeBase, ioCtx uintptr) {
	panic("jitabi: no native trampoline on this architecture")
}
