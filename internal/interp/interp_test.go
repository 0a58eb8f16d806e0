package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/ir"
	"github.com/nilcount/bf/internal/parser"
)

func run(t *testing.T, src string, in string) (string, error) {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	var out bytes.Buffer
	m := New(strings.NewReader(in), &out)
	err = m.Run(prog)
	return out.String(), err
}

func TestHelloWorld(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	out, err := run(t, src, "")
	require.NoError(t, err)
	require.Equal(t, "Hello World!\n", out)
}

func TestEchoWithTerminator(t *testing.T) {
	out, err := run(t, ",+[-.,+]", "Hi\n\xff")
	require.NoError(t, err)
	require.Equal(t, "Hi\n", out)
}

func TestEchoSimple(t *testing.T) {
	out, err := run(t, ",.,.,.", "abc")
	require.NoError(t, err)
	require.Equal(t, "abc", out)
}

func TestCellWrapToZeroTerminates(t *testing.T) {
	out, err := run(t, "+[+]", "")
	require.NoError(t, err)
	require.Equal(t, "", out)
}

func TestNestedLoopsMultiply(t *testing.T) {
	out, err := run(t, "++>+++<[>[->+>+<<]>>[-<<+>>]<<<-]>>.", "")
	require.NoError(t, err)
	require.Equal(t, "\x06", out)
}

func TestPointerBoundsOverflow(t *testing.T) {
	_, err := run(t, "<", "")
	require.Error(t, err)
	var overflow bferr.OverflowError
	require.ErrorAs(t, err, &overflow)
}

func TestGetEOFIsIOError(t *testing.T) {
	_, err := run(t, ",", "")
	require.Error(t, err)
	var ioErr bferr.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "get", ioErr.Op)
}

func TestWhitespaceOnlyIsNoOp(t *testing.T) {
	prog, err := parser.Parse([]byte("  \n\t this is a comment \n"))
	require.NoError(t, err)
	require.Empty(t, prog)

	var out bytes.Buffer
	m := New(strings.NewReader(""), &out)
	require.NoError(t, m.Run(prog))
	require.Empty(t, out.String())
}

func TestWrappingArithmetic(t *testing.T) {
	var out bytes.Buffer
	m := New(strings.NewReader(""), &out)
	block := []ir.Instruction{}
	for i := 0; i < 256; i++ {
		block = append(block, ir.AddValN(1))
	}
	block = append(block, ir.PutOp())
	require.NoError(t, m.Run(ir.Program(block)))
	require.Equal(t, byte(0), out.Bytes()[0])
}

func TestTapeIsolation(t *testing.T) {
	var out bytes.Buffer
	m := New(strings.NewReader(""), &out)
	prog := ir.Program{
		ir.AddValN(5),
		ir.PtrRightN(1),
		ir.AddValN(9),
		ir.PtrLeftN(1),
		ir.PutOp(),
		ir.PtrRightN(1),
		ir.PutOp(),
	}
	require.NoError(t, m.Run(prog))
	require.Equal(t, []byte{5, 9}, out.Bytes())
}
