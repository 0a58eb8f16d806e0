package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/ir"
)

func TestRunLengthFolding(t *testing.T) {
	prog, err := Parse([]byte("+++>>><<-"))
	require.NoError(t, err)
	require.Equal(t, ir.Program{
		ir.AddValN(3),
		ir.PtrRightN(3),
		ir.PtrLeftN(2),
		ir.SubValN(1),
	}, prog)
}

func TestAddValRunTruncatesAt256(t *testing.T) {
	src := make([]byte, 257)
	for i := range src {
		src[i] = '+'
	}
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog, 1)
	require.Equal(t, uint8(1), prog[0].Val8) // 257 mod 256 == 1
}

func TestPtrRunDoesNotTruncateAt256(t *testing.T) {
	src := make([]byte, 300)
	for i := range src {
		src[i] = '>'
	}
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog, 1)
	require.Equal(t, uint32(300), prog[0].Val32)
}

func TestNestedLoops(t *testing.T) {
	prog, err := Parse([]byte("[[+]-]"))
	require.NoError(t, err)
	require.Len(t, prog, 1)
	require.Equal(t, ir.Loop, prog[0].Op)
	require.Len(t, prog[0].Body, 2)
	require.Equal(t, ir.Loop, prog[0].Body[0].Op)
}

func TestUnmatchedOpenBracket(t *testing.T) {
	_, err := Parse([]byte("[+"))
	require.Error(t, err)
	var perr bferr.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestUnmatchedCloseBracket(t *testing.T) {
	_, err := Parse([]byte("+]"))
	require.Error(t, err)
	var perr bferr.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestCommentsAndWhitespaceSkipped(t *testing.T) {
	prog, err := Parse([]byte("+ this is bf\n+\t+"))
	require.NoError(t, err)
	require.Equal(t, ir.Program{ir.AddValN(1), ir.AddValN(1), ir.AddValN(1)}, prog)
}

func TestEmptySourceYieldsEmptyProgram(t *testing.T) {
	prog, err := Parse([]byte(""))
	require.NoError(t, err)
	require.Empty(t, prog)
}
