//go:build amd64

package lightweight

import "github.com/nilcount/bf/internal/ir"

// Build lowers a parsed program into this backend's SSA-with-sealed-
// blocks IR, mirroring the structure of
// original_source/src/vm/cranelift.rs's codegen_bf_block: a running
// "current block" cursor, one iadd_imm/isub_imm pair per pointer move,
// and a three-block shape (head/body/end) per Loop node, sealed once
// every incoming edge is known.
func Build(prog ir.Program) *Func {
	f := NewFunc()
	entry := f.CreateBlock()
	f.SwitchToBlock(entry)
	f.SealBlock(entry)

	zero := f.IConst(0, "i32")
	f.DefVar(entry, zero)

	genBlock(f, prog)
	f.Return()
	return f
}

func genBlock(f *Func, insts []ir.Instruction) {
	for _, inst := range insts {
		genOne(f, inst)
	}
}

func genOne(f *Func, inst ir.Instruction) {
	switch inst.Op {
	case ir.AddVal:
		ptr := f.UseVar(f.cur)
		v := f.Load(ptr)
		v2 := f.IAddImm(v, int64(inst.Val8))
		f.Store(ptr, v2)

	case ir.SubVal:
		ptr := f.UseVar(f.cur)
		v := f.Load(ptr)
		v2 := f.ISubImm(v, int64(inst.Val8))
		f.Store(ptr, v2)

	case ir.PtrRight:
		ptr := f.UseVar(f.cur)
		np := f.PtrAddImm(ptr, int64(inst.Val32))
		f.DefVar(f.cur, np)

	case ir.PtrLeft:
		ptr := f.UseVar(f.cur)
		np := f.PtrSubImm(ptr, int64(inst.Val32))
		f.DefVar(f.cur, np)

	case ir.Put:
		ptr := f.UseVar(f.cur)
		v := f.Load(ptr)
		w := f.Uextend(v)
		f.CallPut(w)

	case ir.Get:
		r := f.CallGet()
		v := f.Ireduce(r)
		ptr := f.UseVar(f.cur)
		f.Store(ptr, v)

	case ir.Loop:
		genLoop(f, inst.Body)
	}
}

func genLoop(f *Func, body []ir.Instruction) {
	preheaderPtr := f.UseVar(f.cur)

	head := f.CreateBlock()
	f.Jump(head, preheaderPtr)

	f.SwitchToBlock(head)
	headPtr := f.UseVar(head)
	loaded := f.Load(headPtr)

	bodyBlock := f.CreateBlock()
	endBlock := f.CreateBlock()
	f.Brif(loaded, bodyBlock, headPtr, endBlock, headPtr)

	// Both bodyBlock and endBlock have exactly one predecessor (head,
	// just recorded above by Brif) and no others will ever be added —
	// a brainfuck loop has no other way to reach either block.
	f.SealBlock(bodyBlock)
	f.SealBlock(endBlock)

	f.SwitchToBlock(bodyBlock)
	genBlock(f, body)
	tailPtr := f.UseVar(f.cur)
	f.Jump(head, tailPtr)

	// head's predecessors are complete now: the preheader jump above
	// and this back edge. Sealing resolves its block parameter.
	f.SealBlock(head)

	f.SwitchToBlock(endBlock)
}
