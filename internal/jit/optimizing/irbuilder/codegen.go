//go:build amd64

package irbuilder

import "github.com/nilcount/bf/internal/ir"

// Build translates a parsed program into this backend's naive,
// alloca-based IR: every pointer read and write is an explicit
// load/store against the single stack slot created here, mirroring
// how original_source/src/vm/llvm.rs's codegen emits build_load/
// build_store around every access instead of tracking values in SSA
// form the way the Cranelift backend does.
func Build(prog ir.Program) *Func {
	f := NewFunc()
	entry := f.CreateBlock()
	f.SwitchToBlock(entry)

	f.Alloca()
	zero := f.IConst(0, "i32")
	f.StoreSlot(zero)

	genBlock(f, prog)
	f.Ret()
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
		p := f.LoadSlot()
		addr := f.GEP(p)
		v := f.LoadCell(addr)
		v2 := f.AddImm(v, int64(inst.Val8), "i8")
		f.StoreCell(addr, v2)

	case ir.SubVal:
		p := f.LoadSlot()
		addr := f.GEP(p)
		v := f.LoadCell(addr)
		v2 := f.SubImm(v, int64(inst.Val8), "i8")
		f.StoreCell(addr, v2)

	case ir.PtrRight:
		p := f.LoadSlot()
		p2 := f.AddImm(p, int64(inst.Val32), "i32")
		f.StoreSlot(p2)

	case ir.PtrLeft:
		p := f.LoadSlot()
		p2 := f.SubImm(p, int64(inst.Val32), "i32")
		f.StoreSlot(p2)

	case ir.Put:
		p := f.LoadSlot()
		addr := f.GEP(p)
		v := f.LoadCell(addr)
		w := f.ZExt(v)
		f.CallPut(w)

	case ir.Get:
		r := f.CallGet()
		v := f.Trunc(r)
		p := f.LoadSlot()
		addr := f.GEP(p)
		f.StoreCell(addr, v)

	case ir.Loop:
		genLoop(f, inst.Body)
	}
}

func genLoop(f *Func, body []ir.Instruction) {
	head := f.CreateBlock()
	f.Br(head)

	f.SwitchToBlock(head)
	p := f.LoadSlot()
	addr := f.GEP(p)
	v := f.LoadCell(addr)
	cond := f.ICmpNE(v)

	bodyBlock := f.CreateBlock()
	endBlock := f.CreateBlock()
	f.CondBr(cond, bodyBlock, endBlock)

	f.SwitchToBlock(bodyBlock)
	genBlock(f, body)
	f.Br(head)

	f.SwitchToBlock(endBlock)
}
