//go:build amd64

// Package optimizing wires irbuilder's naive alloca-based IR and the
// optpass mem2reg-style promotion into machine code, exposing the
// same Compile/IR/Run/Close surface as the lightweight backend
// (spec §4.4).
package optimizing

import (
	"reflect"
	"runtime"
	"unsafe"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/bfio"
	"github.com/nilcount/bf/internal/codegen/amd64"
	"github.com/nilcount/bf/internal/ir"
	"github.com/nilcount/bf/internal/jit/optimizing/irbuilder"
	"github.com/nilcount/bf/internal/jit/optimizing/optpass"
	"github.com/nilcount/bf/internal/jitabi"
	"github.com/nilcount/bf/internal/jitexec"
)

// Physical register convention, distinct from the lightweight
// backend's: the pointer's canonical home is a real stack slot
// (ptrSlotOffset), the way irbuilder's alloca models it. RBX only
// holds a *cached* copy of that slot's value within the span optpass
// proved safe — every block starts with the cache considered invalid
// and reloads from the slot on first use, since this backend builds
// no cross-block value tracking at all.
//
//	R12  tape base address
//	R13  io context pointer
//	RBX  cached copy of the pointer slot, valid only where optpass
//	     marked a load Promoted or a store not yet flushed
//	RCX  scratch: current tape-cell address
//	AL   scratch: value in flight for the current instruction
//	R10  scratch: absolute call-target address
const ptrSlotOffset = -32

func Lower(f *irbuilder.Func, putAddr, getAddr uintptr) ([]byte, error) {
	asm := amd64.New()
	labels := make(map[*irbuilder.Block]*amd64.Label, len(f.Blocks))
	for _, b := range f.Blocks {
		labels[b] = asm.NewLabel()
	}

	prologue(asm)

	for _, b := range f.Blocks {
		asm.Bind(labels[b])
		for _, in := range b.Instrs {
			if in.Dead {
				continue
			}
			lowerInstr(asm, in, labels, putAddr, getAddr)
		}
	}

	return asm.Finalize()
}

func prologue(asm *amd64.Assembler) {
	asm.Push(amd64.RBP)
	asm.MovRegReg64(amd64.RBP, amd64.RSP)
	asm.Push(amd64.RBX)
	asm.Push(amd64.R12)
	asm.Push(amd64.R13)
	asm.SubRspImm8(24) // 8 bytes for the pointer slot, 16 for alignment
	asm.MovRegReg64(amd64.R12, amd64.RDI)
	asm.MovRegReg64(amd64.R13, amd64.RSI)
}

func epilogue(asm *amd64.Assembler) {
	asm.AddRspImm8(24)
	asm.Pop(amd64.R13)
	asm.Pop(amd64.R12)
	asm.Pop(amd64.RBX)
	asm.Pop(amd64.RBP)
}

func lowerInstr(asm *amd64.Assembler, in *irbuilder.Instr, labels map[*irbuilder.Block]*amd64.Label, putAddr, getAddr uintptr) {
	switch in.Op {
	case irbuilder.OpIConst:
		// The only constant this backend ever materializes is the
		// pointer's initial zero.
		asm.XorReg32Self(amd64.RBX)

	case irbuilder.OpAlloca, irbuilder.OpZExt, irbuilder.OpTrunc, irbuilder.OpICmpNE:
		// No physical effect: the slot's address is the fixed offset
		// ptrSlotOffset, and the widen/narrow/compare ops describe a
		// value already sitting in AL from the preceding LoadCell.

	case irbuilder.OpLoadSlot:
		if !in.Promoted {
			asm.LoadRBPRel32(amd64.RBX, ptrSlotOffset)
		}

	case irbuilder.OpStoreSlot:
		asm.StoreRBPRel32(ptrSlotOffset, amd64.RBX)

	case irbuilder.OpGEP:
		asm.LeaIndexed(amd64.RCX, amd64.R12, amd64.RBX)

	case irbuilder.OpLoadCell:
		asm.LoadByte(amd64.RAX, amd64.RCX)

	case irbuilder.OpStoreCell:
		asm.StoreByteFromAL(amd64.RCX)

	case irbuilder.OpAddImm:
		if in.Type == "i32" {
			asm.AddReg32Imm32(amd64.RBX, uint32(in.Imm))
		} else {
			asm.AddALImm8(uint8(in.Imm))
		}

	case irbuilder.OpSubImm:
		if in.Type == "i32" {
			asm.SubReg32Imm32(amd64.RBX, uint32(in.Imm))
		} else {
			asm.SubALImm8(uint8(in.Imm))
		}

	case irbuilder.OpCallPut:
		asm.MovRegReg64(amd64.RDI, amd64.R13)
		asm.MovRegReg64(amd64.RSI, amd64.RAX)
		asm.CallAbs(amd64.R10, putAddr)

	case irbuilder.OpCallGet:
		asm.MovRegReg64(amd64.RDI, amd64.R13)
		asm.CallAbs(amd64.R10, getAddr)

	case irbuilder.OpBr:
		asm.JmpToLabel(labels[in.TargetBlock])

	case irbuilder.OpCondBr:
		asm.TestALAL()
		asm.JccToLabel(amd64.CondNE, labels[in.ThenBlock])
		asm.JmpToLabel(labels[in.ElseBlock])

	case irbuilder.OpRet:
		epilogue(asm)
		asm.Ret()
	}
}

// JIT is a compiled program ready to run, produced by the optimizing
// (LLVM-flavored) backend.
type JIT struct {
	mod *jitexec.Module
	dump string
}

// Compile builds the naive alloca-based IR for prog, runs the
// mem2reg-style promotion pass over it, lowers the result to amd64
// machine code, and maps it executable.
func Compile(prog ir.Program) (*JIT, error) {
	f := irbuilder.Build(prog)
	optpass.Run(f)
	dump := f.String()

	putAddr := uintptr(reflect.ValueOf(jitabi.PutEntry).Pointer())
	getAddr := uintptr(reflect.ValueOf(jitabi.GetEntry).Pointer())

	code, err := Lower(f, putAddr, getAddr)
	if err != nil {
		return nil, bferr.CompileError{Backend: "optimizing", Err: err}
	}
	mod, err := jitexec.Build(code)
	if err != nil {
		return nil, bferr.CompileError{Backend: "optimizing", Err: err}
	}
	return &JIT{mod: mod, dump: dump}, nil
}

// IR returns the textual IR captured after optpass ran but before
// lowering (spec §4.5) — dead stores and promoted loads are shown
// annotated, not removed from the text.
func (j *JIT) IR() string { return j.dump }

// Run allocates a fresh 4 MiB tape and transfers control to the
// compiled function. See lightweight.JIT.Run for the fatal-panic
// caveat on trampoline failures, which applies identically here.
func (j *JIT) Run(ctx *bfio.Context) error {
	tape := make([]byte, ir.MemorySize)
	jitabi.Invoke(j.mod.EntryPoint(), uintptr(unsafe.Pointer(&tape[0])), uintptr(unsafe.Pointer(ctx)))
	runtime.KeepAlive(tape)
	runtime.KeepAlive(ctx)
	return nil
}

// Close releases the compiled function's executable pages.
func (j *JIT) Close() error { return j.mod.Free() }
