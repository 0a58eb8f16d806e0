//go:build amd64

package irbuilder

import (
	"fmt"
	"strings"
)

// String renders the function as LLVM-flavored textual IR. Dead
// stores and promoted loads (set by the optpass package) are still
// printed — the dump reflects what optpass decided, the same way
// `opt -passes=mem2reg -print-after-all` output shows instructions
// annotated rather than silently vanished.
func (f *Func) String() string {
	var b strings.Builder
	b.WriteString("define void @brainfuck(i8* %tape, %IO* %io) {\n")
	for _, blk := range f.Blocks {
		fmt.Fprintf(&b, "block%d:\n", blk.id)
		for _, in := range blk.Instrs {
			b.WriteString("  ")
			b.WriteString(formatInstr(in))
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

func formatInstr(in *Instr) string {
	v := func(x Value) string { return fmt.Sprintf("%%v%d", x) }
	note := ""
	if in.Dead {
		note = "  ; dead (mem2reg)"
	} else if in.Promoted {
		note = fmt.Sprintf("  ; promoted to %s (mem2reg)", v(in.PromotedValue))
	}
	switch in.Op {
	case OpIConst:
		return fmt.Sprintf("%s = %s.%s %d%s", v(in.Result), in.Op, in.Type, in.Imm, note)
	case OpAlloca:
		return fmt.Sprintf("%s = alloca %s%s", v(in.Result), in.Type, note)
	case OpLoadSlot:
		return fmt.Sprintf("%s = load %s, %s* %%ptrslot%s", v(in.Result), in.Type, in.Type, note)
	case OpStoreSlot:
		return fmt.Sprintf("store %s %s, %s* %%ptrslot%s", in.Type, v(in.Operand), in.Type, note)
	case OpGEP:
		return fmt.Sprintf("%s = getelementptr i8, i8* %%tape, i32 %s%s", v(in.Result), v(in.Operand), note)
	case OpLoadCell:
		return fmt.Sprintf("%s = load i8, i8* %s%s", v(in.Result), v(in.Addr), note)
	case OpStoreCell:
		return fmt.Sprintf("store i8 %s, i8* %s%s", v(in.Operand), v(in.Addr), note)
	case OpAddImm:
		return fmt.Sprintf("%s = add %s %s, %d", v(in.Result), in.Type, v(in.Operand), in.Imm)
	case OpSubImm:
		return fmt.Sprintf("%s = sub %s %s, %d", v(in.Result), in.Type, v(in.Operand), in.Imm)
	case OpZExt:
		return fmt.Sprintf("%s = zext i8 %s to i64", v(in.Result), v(in.Operand))
	case OpTrunc:
		return fmt.Sprintf("%s = trunc i64 %s to i8", v(in.Result), v(in.Operand))
	case OpCallPut:
		return fmt.Sprintf("call void @bf_put(i64 %s)", v(in.Operand))
	case OpCallGet:
		return fmt.Sprintf("%s = call i64 @bf_get()", v(in.Result))
	case OpICmpNE:
		return fmt.Sprintf("%s = icmp ne i8 %s, 0", v(in.Result), v(in.Operand))
	case OpBr:
		return fmt.Sprintf("br label %%block%d", in.TargetBlock.id)
	case OpCondBr:
		return fmt.Sprintf("br i1 %s, label %%block%d, label %%block%d", v(in.Cond), in.ThenBlock.id, in.ElseBlock.id)
	case OpRet:
		return "ret void"
	}
	return "?"
}
