//go:build amd64

package lightweight

import "github.com/nilcount/bf/internal/codegen/amd64"

// Physical register convention for this backend (spec §4.3: "register
// allocation is implicit"). There is exactly one variable live across
// the whole function — the pointer — so it gets a fixed home for the
// function's entire body instead of a general allocator:
//
//	R12  tape base address (callee-saved, set once in the prologue)
//	R13  io context pointer (callee-saved, set once in the prologue)
//	RBX  the pointer variable itself (callee-saved)
//	RCX  scratch: the current tape-cell address
//	AL   scratch: the value in flight for the current instruction
//	R10  scratch: absolute call-target address
//
// Every abstract SSA value this package's builder produces (instr.go,
// ssa.go) is, by construction, consumed by the very next instruction
// in program order — Load's result always feeds an arithmetic op,
// Uextend, or a loop head's Brif, an i8 IAddImm's result always feeds
// a Store, and so on. That
// means lowering never needs to consult Value identities or the
// builder's block-parameter resolution: it can walk each block's
// instruction list and track only the physical registers above. Block
// arguments fall out for free, because the pointer is always resident
// in RBX on every edge — passing it at a jump would be a no-op move.
func Lower(f *Func, putAddr, getAddr uintptr) ([]byte, error) {
	asm := amd64.New()
	labels := make(map[*Block]*amd64.Label, len(f.blocks))
	for _, b := range f.blocks {
		labels[b] = asm.NewLabel()
	}

	prologue(asm)

	for i, b := range f.blocks {
		asm.Bind(labels[b])
		for _, in := range b.Instrs {
			lowerInstr(asm, in, labels, putAddr, getAddr)
		}
		// Every block here ends in an explicit terminator (Jump, Brif,
		// or Return) emitted by the builder, except this is also where
		// a fallthrough to the next block in layout order would go had
		// the builder ever omitted one; it never does.
		_ = i
	}

	return asm.Finalize()
}

func prologue(asm *amd64.Assembler) {
	asm.Push(amd64.RBP)
	asm.MovRegReg64(amd64.RBP, amd64.RSP)
	asm.Push(amd64.RBX)
	asm.Push(amd64.R12)
	asm.Push(amd64.R13)
	asm.SubRspImm8(8) // restore 16-byte alignment ahead of calls
	asm.MovRegReg64(amd64.R12, amd64.RDI)
	asm.MovRegReg64(amd64.R13, amd64.RSI)
	asm.XorReg32Self(amd64.RBX)
}

func epilogue(asm *amd64.Assembler) {
	asm.AddRspImm8(8)
	asm.Pop(amd64.R13)
	asm.Pop(amd64.R12)
	asm.Pop(amd64.RBX)
	asm.Pop(amd64.RBP)
}

func lowerInstr(asm *amd64.Assembler, in *Instr, labels map[*Block]*amd64.Label, putAddr, getAddr uintptr) {
	switch in.Op {
	case OpIConst, OpUextend, OpIreduce:
		// No physical effect: the pointer is zeroed once in the
		// prologue, and the widen/narrow ops are bookkeeping for the
		// dump only (the value already sits in AL/RAX either way).

	case OpLoad:
		asm.LeaIndexed(amd64.RCX, amd64.R12, amd64.RBX)
		asm.LoadByte(amd64.RAX, amd64.RCX)

	case OpStore:
		asm.LeaIndexed(amd64.RCX, amd64.R12, amd64.RBX)
		asm.StoreByteFromAL(amd64.RCX)

	case OpIAddImm:
		if in.Type == "i32" {
			asm.AddReg32Imm32(amd64.RBX, uint32(in.Imm))
		} else {
			asm.AddALImm8(uint8(in.Imm))
		}

	case OpISubImm:
		if in.Type == "i32" {
			asm.SubReg32Imm32(amd64.RBX, uint32(in.Imm))
		} else {
			asm.SubALImm8(uint8(in.Imm))
		}

	case OpCallPut:
		asm.MovRegReg64(amd64.RDI, amd64.R13)
		asm.MovRegReg64(amd64.RSI, amd64.RAX)
		asm.CallAbs(amd64.R10, putAddr)

	case OpCallGet:
		asm.MovRegReg64(amd64.RDI, amd64.R13)
		asm.CallAbs(amd64.R10, getAddr)

	case OpJump:
		asm.JmpToLabel(labels[in.TargetBlock])

	case OpBrif:
		asm.TestALAL()
		asm.JccToLabel(amd64.CondNE, labels[in.ThenBlock])
		asm.JmpToLabel(labels[in.ElseBlock])

	case OpReturn:
		epilogue(asm)
		asm.Ret()
	}
}
