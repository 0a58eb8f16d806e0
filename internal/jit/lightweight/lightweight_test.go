//go:build amd64

package lightweight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilcount/bf/internal/bfio"
	"github.com/nilcount/bf/internal/interp"
	"github.com/nilcount/bf/internal/parser"
)

func runJIT(t *testing.T, src, in string) string {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err)

	j, err := Compile(prog)
	require.NoError(t, err)
	defer j.Close()

	var out bytes.Buffer
	ctx := bfio.NewContext(strings.NewReader(in), &out)
	require.NoError(t, j.Run(ctx))
	return out.String()
}

func runOracle(t *testing.T, src, in string) string {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	var out bytes.Buffer
	m := interp.New(strings.NewReader(in), &out)
	require.NoError(t, m.Run(prog))
	return out.String()
}

func TestHelloWorldMatchesInterpreter(t *testing.T) {
	const src = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	require.Equal(t, runOracle(t, src, ""), runJIT(t, src, ""))
}

func TestNestedLoopMultiplyMatchesInterpreter(t *testing.T) {
	const src = `++>+++<[>[->+>+<<]>>[-<<+>>]<<<-]>>.`
	require.Equal(t, runOracle(t, src, ""), runJIT(t, src, ""))
}

func TestEchoMatchesInterpreter(t *testing.T) {
	const src = `,+[-.,+]`
	require.Equal(t, runOracle(t, src, "Hi\n\xff"), runJIT(t, src, "Hi\n\xff"))
}

func TestCellWrapTerminatesWithNoOutput(t *testing.T) {
	require.Equal(t, "", runJIT(t, "+[+]", ""))
}

func TestIRDumpContainsExpectedOpcodes(t *testing.T) {
	prog, err := parser.Parse([]byte(`+>,.[-]`))
	require.NoError(t, err)
	f := Build(prog)
	dump := f.String()

	require.Contains(t, dump, "function %brainfuck()")
	require.Contains(t, dump, "iadd_imm")
	require.Contains(t, dump, "call bf_get")
	require.Contains(t, dump, "call bf_put")
	require.Contains(t, dump, "brif")
}

func TestIRDumpCapturedBeforeFinalization(t *testing.T) {
	prog, err := parser.Parse([]byte(`+.`))
	require.NoError(t, err)
	j, err := Compile(prog)
	require.NoError(t, err)
	defer j.Close()
	require.NotEmpty(t, j.IR())
}
