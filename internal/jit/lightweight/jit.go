//go:build amd64

package lightweight

import (
	"reflect"
	"runtime"
	"unsafe"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/bfio"
	"github.com/nilcount/bf/internal/ir"
	"github.com/nilcount/bf/internal/jitabi"
	"github.com/nilcount/bf/internal/jitexec"
)

// JIT is a compiled program ready to run, produced by the lightweight
// (Cranelift-flavored) backend.
type JIT struct {
	mod *jitexec.Module
	ir  string
}

// Compile builds this backend's SSA IR for prog, lowers it to amd64
// machine code, and maps it executable. The returned JIT is reusable
// across any number of Run calls.
func Compile(prog ir.Program) (*JIT, error) {
	f := Build(prog)
	dump := f.String()

	putAddr := uintptr(reflect.ValueOf(jitabi.PutEntry).Pointer())
	getAddr := uintptr(reflect.ValueOf(jitabi.GetEntry).Pointer())

	code, err := Lower(f, putAddr, getAddr)
	if err != nil {
		return nil, bferr.CompileError{Backend: "lightweight", Err: err}
	}
	mod, err := jitexec.Build(code)
	if err != nil {
		return nil, bferr.CompileError{Backend: "lightweight", Err: err}
	}
	return &JIT{mod: mod, ir: dump}, nil
}

// IR returns the textual low-level IR captured at compile time, before
// the code was lowered to machine code (spec §4.5).
func (j *JIT) IR() string { return j.ir }

// Run allocates a fresh 4 MiB tape and transfers control to the
// compiled function, which drives ctx's Input/Output directly through
// the jitabi trampolines for the program's duration. A panic raised
// inside those trampolines (spec §7: trampoline failures are fatal)
// propagates out of Run as a process-terminating panic, since the
// intervening JIT-emitted frames carry no Go unwind information.
func (j *JIT) Run(ctx *bfio.Context) error {
	tape := make([]byte, ir.MemorySize)
	jitabi.Invoke(j.mod.EntryPoint(), uintptr(unsafe.Pointer(&tape[0])), uintptr(unsafe.Pointer(ctx)))
	runtime.KeepAlive(tape)
	runtime.KeepAlive(ctx)
	return nil
}

// Close releases the compiled function's executable pages. The JIT
// must not be used again afterward.
func (j *JIT) Close() error { return j.mod.Free() }
