//go:build amd64

package lightweight

import (
	"fmt"
	"strings"
)

// String renders the function in a Cranelift-flavored textual IR,
// captured after the SSA builder has finished (every block sealed,
// every trivial parameter collapsed) but before any machine code has
// been emitted — the low-level IR dump spec.md §4.5 requires.
func (f *Func) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %%brainfuck() system_v {\n")
	for _, blk := range f.blocks {
		if blk.hasParam {
			fmt.Fprintf(&b, "block%d(v%d: %s):\n", blk.id, f.resolve(blk.param), "i32")
		} else {
			fmt.Fprintf(&b, "block%d:\n", blk.id)
		}
		for _, in := range blk.Instrs {
			b.WriteString("    ")
			b.WriteString(f.formatInstr(in))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func (f *Func) formatInstr(in *Instr) string {
	v := func(x Value) string { return fmt.Sprintf("v%d", f.resolve(x)) }
	switch in.Op {
	case OpIConst:
		return fmt.Sprintf("%s = iconst.%s %d", v(in.Result), in.Type, in.Imm)
	case OpLoad:
		return fmt.Sprintf("%s = load.%s tape+%s", v(in.Result), in.Type, v(in.Addr))
	case OpStore:
		return fmt.Sprintf("store.%s %s, tape+%s", in.Type, v(in.Operand), v(in.Addr))
	case OpIAddImm:
		return fmt.Sprintf("%s = iadd_imm.%s %s, %d", v(in.Result), in.Type, v(in.Operand), in.Imm)
	case OpISubImm:
		return fmt.Sprintf("%s = isub_imm.%s %s, %d", v(in.Result), in.Type, v(in.Operand), in.Imm)
	case OpUextend:
		return fmt.Sprintf("%s = uextend.i64 %s", v(in.Result), v(in.Operand))
	case OpIreduce:
		return fmt.Sprintf("%s = ireduce.i8 %s", v(in.Result), v(in.Operand))
	case OpCallPut:
		return fmt.Sprintf("call bf_put(%s)", v(in.Operand))
	case OpCallGet:
		return fmt.Sprintf("%s = call bf_get()", v(in.Result))
	case OpJump:
		if in.TargetArg != noValue {
			return fmt.Sprintf("jump block%d(%s)", in.TargetBlock.id, v(in.TargetArg))
		}
		return fmt.Sprintf("jump block%d", in.TargetBlock.id)
	case OpBrif:
		then := fmt.Sprintf("block%d", in.ThenBlock.id)
		if in.ThenArg != noValue && in.ThenBlock.hasParam {
			then = fmt.Sprintf("block%d(%s)", in.ThenBlock.id, v(in.ThenArg))
		}
		els := fmt.Sprintf("block%d", in.ElseBlock.id)
		if in.ElseArg != noValue && in.ElseBlock.hasParam {
			els = fmt.Sprintf("block%d(%s)", in.ElseBlock.id, v(in.ElseArg))
		}
		return fmt.Sprintf("brif %s, %s, %s", v(in.Cond), then, els)
	case OpReturn:
		return "return"
	}
	return "?"
}
