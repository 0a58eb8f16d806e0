//go:build amd64

// Package irbuilder is the "optimizing" JIT's front end, grounded on
// original_source/src/vm/llvm.rs: an LLVM-style direct builder where
// the pointer lives in a stack-allocated slot (an alloca) that every
// read and write goes through explicitly, rather than Cranelift's
// use_var/def_var variable tracking. There is no block-sealing here —
// every block simply reloads the slot from memory on entry — which is
// exactly why the optimizing backend needs a separate promotion pass
// (see the optpass package) to claw back the redundant loads/stores a
// direct alloca-based translation produces.
//
// Tape addressing is unchecked pointer arithmetic (spec §4.4, §9):
// GEP never validates its index against the tape bounds.
package irbuilder

// Value identifies one instruction's result.
type Value int

const NoValue Value = -1

// InstrOp names one instruction kind in this backend's IR dialect —
// LLVM instruction mnemonics, trimmed to what a brainfuck function
// needs.
type InstrOp int

const (
	OpIConst InstrOp = iota
	OpAlloca
	OpLoadSlot  // load i32, i32* %ptrslot
	OpStoreSlot // store i32 %v, i32* %ptrslot
	OpGEP       // getelementptr i8, i8* %tape, i32 %idx — unchecked
	OpLoadCell  // load i8, i8* %addr
	OpStoreCell // store i8 %v, i8* %addr
	OpAddImm
	OpSubImm
	OpZExt
	OpTrunc
	OpCallPut
	OpCallGet
	OpICmpNE
	OpBr
	OpCondBr
	OpRet
)

func (op InstrOp) String() string {
	names := map[InstrOp]string{
		OpIConst: "iconst", OpAlloca: "alloca", OpLoadSlot: "load",
		OpStoreSlot: "store", OpGEP: "getelementptr", OpLoadCell: "load",
		OpStoreCell: "store", OpAddImm: "add", OpSubImm: "sub",
		OpZExt: "zext", OpTrunc: "trunc", OpCallPut: "call @bf_put",
		OpCallGet: "call @bf_get", OpICmpNE: "icmp ne", OpBr: "br",
		OpCondBr: "br", OpRet: "ret",
	}
	if n, ok := names[op]; ok {
		return n
	}
	return "?"
}

// Instr is one instruction, built naively (every variable access is
// an explicit memory op) before optpass ever runs.
type Instr struct {
	Op     InstrOp
	Result Value
	Type   string // "i8", "i32", "i64", "i1", "ptr"

	Operand Value // store value, arithmetic input, zext/trunc input
	Imm     int64
	Addr    Value // GEP result consumed by LoadCell/StoreCell

	Cond       Value
	TargetBlock *Block
	ThenBlock   *Block
	ElseBlock   *Block

	// Set by optpass, consulted by lower.go. A Dead instruction is
	// skipped during lowering; a Promoted load's uses resolve to
	// PromotedValue instead of re-reading memory.
	Dead          bool
	Promoted      bool
	PromotedValue Value
}

// Block is a single basic block. Unlike the lightweight backend's
// Block, there are no predecessors, no parameters, and no sealing:
// this builder never merges values across block boundaries, it always
// reloads the slot.
type Block struct {
	id     int
	Instrs []*Instr
}

func (b *Block) ID() int { return b.id }

// Func owns the whole compiled function.
type Func struct {
	Blocks    []*Block
	cur       *Block
	nextValue Value
}

func NewFunc() *Func { return &Func{} }

func (f *Func) CreateBlock() *Block {
	b := &Block{id: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) SwitchToBlock(b *Block) { f.cur = b }
func (f *Func) Current() *Block        { return f.cur }

func (f *Func) newValue() Value {
	v := f.nextValue
	f.nextValue++
	return v
}

func (f *Func) emit(in *Instr) Value {
	in.Result = f.newValue()
	f.cur.Instrs = append(f.cur.Instrs, in)
	return in.Result
}

func (f *Func) emitVoid(in *Instr) {
	in.Result = NoValue
	f.cur.Instrs = append(f.cur.Instrs, in)
}

func (f *Func) IConst(imm int64, typ string) Value {
	return f.emit(&Instr{Op: OpIConst, Imm: imm, Type: typ})
}

// Alloca declares the pointer's stack slot. Called exactly once, at
// function entry.
func (f *Func) Alloca() Value { return f.emit(&Instr{Op: OpAlloca, Type: "i32"}) }

func (f *Func) LoadSlot() Value { return f.emit(&Instr{Op: OpLoadSlot, Type: "i32"}) }

func (f *Func) StoreSlot(v Value) {
	f.emitVoid(&Instr{Op: OpStoreSlot, Operand: v, Type: "i32"})
}

// GEP computes the tape cell address for index idx. Never bounds
// checked — spec §4.4/§9's "optimizing JIT performs no bounds
// checking" applies here. The lightweight JIT's tape addressing is
// likewise unchecked; only the interpreter checks pointer moves.
func (f *Func) GEP(idx Value) Value {
	return f.emit(&Instr{Op: OpGEP, Operand: idx, Type: "ptr"})
}

func (f *Func) LoadCell(addr Value) Value {
	return f.emit(&Instr{Op: OpLoadCell, Addr: addr, Type: "i8"})
}

func (f *Func) StoreCell(addr, v Value) {
	f.emitVoid(&Instr{Op: OpStoreCell, Addr: addr, Operand: v, Type: "i8"})
}

func (f *Func) AddImm(v Value, imm int64, typ string) Value {
	return f.emit(&Instr{Op: OpAddImm, Operand: v, Imm: imm, Type: typ})
}

func (f *Func) SubImm(v Value, imm int64, typ string) Value {
	return f.emit(&Instr{Op: OpSubImm, Operand: v, Imm: imm, Type: typ})
}

func (f *Func) ZExt(v Value) Value { return f.emit(&Instr{Op: OpZExt, Operand: v, Type: "i64"}) }
func (f *Func) Trunc(v Value) Value { return f.emit(&Instr{Op: OpTrunc, Operand: v, Type: "i8"}) }

func (f *Func) CallPut(v Value) { f.emitVoid(&Instr{Op: OpCallPut, Operand: v}) }
func (f *Func) CallGet() Value  { return f.emit(&Instr{Op: OpCallGet, Type: "i64"}) }

func (f *Func) ICmpNE(v Value) Value {
	return f.emit(&Instr{Op: OpICmpNE, Operand: v, Type: "i1"})
}

func (f *Func) Br(target *Block) {
	f.emitVoid(&Instr{Op: OpBr, TargetBlock: target})
}

func (f *Func) CondBr(cond Value, then, els *Block) {
	f.emitVoid(&Instr{Op: OpCondBr, Cond: cond, ThenBlock: then, ElseBlock: els})
}

func (f *Func) Ret() { f.emitVoid(&Instr{Op: OpRet}) }
