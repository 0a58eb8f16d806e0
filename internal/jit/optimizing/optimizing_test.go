//go:build amd64

package optimizing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilcount/bf/internal/bfio"
	"github.com/nilcount/bf/internal/interp"
	"github.com/nilcount/bf/internal/jit/optimizing/irbuilder"
	"github.com/nilcount/bf/internal/jit/optimizing/optpass"
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

func TestRepeatedPointerSlotAccessIsPromoted(t *testing.T) {
	// Each ">" and "+" is isolated by the other so the parser's
	// run-length folding never merges them: this produces several
	// independent load/store pairs against the pointer slot with
	// nothing but other-alloca-disjoint instructions between them,
	// which optpass should collapse down to one live store.
	prog, err := parser.Parse([]byte(">+>+>."))
	require.NoError(t, err)

	f := irbuilder.Build(prog)
	optpass.Run(f)

	var deadStores, liveStores, promotedLoads, plainLoads int
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			switch {
			case in.Op == irbuilder.OpStoreSlot && in.Dead:
				deadStores++
			case in.Op == irbuilder.OpStoreSlot:
				liveStores++
			case in.Op == irbuilder.OpLoadSlot && in.Promoted:
				promotedLoads++
			case in.Op == irbuilder.OpLoadSlot:
				plainLoads++
			}
		}
	}
	require.Equal(t, 1, liveStores, "only the final store to the slot should survive")
	require.Greater(t, deadStores, 0)
	require.Greater(t, promotedLoads, 0)
	require.Equal(t, 0, plainLoads, "every load after the first store should be promoted")
}

func TestIRDumpShowsPromotionAnnotations(t *testing.T) {
	prog, err := parser.Parse([]byte(">>."))
	require.NoError(t, err)
	f := irbuilder.Build(prog)
	optpass.Run(f)
	dump := f.String()
	require.Contains(t, dump, "mem2reg")
	require.Contains(t, dump, "getelementptr")
}
