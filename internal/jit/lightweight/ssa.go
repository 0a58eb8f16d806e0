//go:build amd64

// Package lightweight implements the "lightweight" JIT method named in
// spec.md §4.3: a single-pass SSA builder in the style of Cranelift's
// FunctionBuilder, grounded on original_source/src/vm/cranelift.rs.
// Block arguments stand in for phi nodes exactly the way Cranelift
// represents them, and resolving a variable read at a block boundary
// follows the simple-and-efficient construction algorithm from Braun
// et al. (2013) that Cranelift's own SSABuilder implements.
//
// The brainfuck pointer is the only mutable variable a compiled
// function ever has, so the general Braun algorithm (which tracks one
// current-definition per (block, variable) pair) is specialized here
// to a single variable per block — one currentDef slot, not a map.
package lightweight

// Value identifies an SSA value: either an instruction result or a
// block parameter. Values are never reused across functions.
type Value int

const noValue Value = -1

// Block is one point in the function's control-flow graph. Only the
// loop head ever receives a block parameter — a straight-line block
// with a single predecessor resolves its variable's value by
// forwarding to that predecessor instead of materializing one.
type Block struct {
	id         int
	Instrs     []*Instr
	preds      []*Block
	sealed     bool
	param      Value // noValue if this block never needed one
	hasParam   bool
	currentDef Value // noValue until resolved or defined
	incomplete bool  // true while param exists but seal hasn't run yet
}

func (b *Block) ID() int { return b.id }

// Func owns every block and value created by one compilation.
type Func struct {
	blocks    []*Block
	nextValue Value
	cur       *Block
	// trivialReplace maps a value that turned out to be a trivial
	// (redundant) block parameter onto the single value it stood in
	// for. resolve() follows this chain at read time instead of
	// rewriting already-emitted instruction operands in place.
	trivialReplace map[Value]Value
}

func NewFunc() *Func {
	return &Func{nextValue: 0, trivialReplace: map[Value]Value{}}
}

func (f *Func) newValue() Value {
	v := f.nextValue
	f.nextValue++
	return v
}

// CreateBlock allocates a new, initially unsealed block with no
// predecessors recorded yet.
func (f *Func) CreateBlock() *Block {
	b := &Block{id: len(f.blocks), param: noValue, currentDef: noValue}
	f.blocks = append(f.blocks, b)
	return b
}

// SwitchToBlock makes b the insertion point for subsequent Emit calls.
func (f *Func) SwitchToBlock(b *Block) { f.cur = b }

// Current returns the block currently receiving new instructions.
func (f *Func) Current() *Block { return f.cur }

// addPred records that control can reach b from from, via a branch
// that is responsible for supplying b's block argument (if any) once
// it is known. Must be called before b is sealed.
func (f *Func) addPred(b, from *Block) {
	b.preds = append(b.preds, from)
}

// SealBlock declares that every predecessor of b has now been added
// via addPred. Sealing lets UseVar resolve any parameter left
// incomplete because a predecessor wasn't known yet.
func (f *Func) SealBlock(b *Block) {
	b.sealed = true
	if b.incomplete {
		f.resolveParam(b)
	}
}

// DefVar records that the pointer variable's value, within block b,
// is now v — the direct analogue of Cranelift's builder.def_var.
func (f *Func) DefVar(b *Block, v Value) {
	b.currentDef = v
}

// UseVar resolves the pointer variable's current value as seen from
// block b, the direct analogue of Cranelift's builder.use_var. It may
// create a block parameter on b (if b isn't sealed yet, or has more
// than one predecessor), recursing into predecessors exactly as Braun
// et al. describe.
func (f *Func) UseVar(b *Block) Value {
	if v := f.resolve(b.currentDef); v != noValue {
		return v
	}
	var v Value
	switch {
	case !b.sealed:
		v = f.newValue()
		b.param = v
		b.hasParam = true
		b.incomplete = true
	case len(b.preds) == 1:
		v = f.UseVar(b.preds[0])
	case len(b.preds) == 0:
		// Entry block with no definition: the pointer always starts
		// at zero, set explicitly by the caller before codegen walks
		// the first instruction, so this path is unreachable in
		// practice. Fall back to zero defensively.
		v = f.newValue()
	default:
		v = f.newValue()
		b.param = v
		b.hasParam = true
		b.currentDef = v // break recursive cycles through back-edges
		v = f.resolveOperands(b, v)
	}
	b.currentDef = v
	return v
}

func (f *Func) resolveParam(b *Block) {
	b.incomplete = false
	f.resolveOperands(b, b.param)
}

// resolveOperands gathers b's param value from every known
// predecessor, patches each predecessor's branch to pass it, and
// collapses the parameter if every operand turned out identical.
func (f *Func) resolveOperands(b *Block, param Value) Value {
	var operands []Value
	for _, pred := range b.preds {
		v := f.UseVar(pred)
		operands = append(operands, v)
		patchBranchArg(pred, b, v)
	}
	return f.tryRemoveTrivial(b, param, operands)
}

func (f *Func) tryRemoveTrivial(b *Block, param Value, operands []Value) Value {
	same := noValue
	for _, op := range operands {
		v := f.resolve(op)
		if v == param {
			continue // self-reference through a back edge
		}
		if same == noValue {
			same = v
			continue
		}
		if same != v {
			return param // genuinely merges two different values
		}
	}
	if same == noValue {
		same = param
	}
	f.trivialReplace[param] = same
	b.hasParam = false
	b.param = noValue
	return same
}

// resolve follows the trivial-parameter replacement chain, if any.
func (f *Func) resolve(v Value) Value {
	if v == noValue {
		return noValue
	}
	for {
		r, ok := f.trivialReplace[v]
		if !ok {
			return v
		}
		v = r
	}
}

// patchBranchArg fills in the argument a predecessor's terminator
// passes to target, once that argument's value is known. It walks the
// predecessor's last instruction (always its terminator) and sets
// whichever operand slot points at target.
func patchBranchArg(pred, target *Block, v Value) {
	if len(pred.Instrs) == 0 {
		return
	}
	term := pred.Instrs[len(pred.Instrs)-1]
	switch term.Op {
	case OpJump:
		if term.TargetBlock == target {
			term.TargetArg = v
		}
	case OpBrif:
		if term.ThenBlock == target {
			term.ThenArg = v
		}
		if term.ElseBlock == target {
			term.ElseArg = v
		}
	}
}
