// Package interp is the reference tree-walking executor (spec §4.2).
// Its output is the oracle every JIT backend must match byte-for-byte.
package interp

import (
	"io"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/ir"
)

// MemorySize is the fixed tape length (spec §3): 4 MiB.
const MemorySize = ir.MemorySize

// Interp walks an ir.Program against a zero-initialized tape, reading
// from in and writing to out in program order.
type Interp struct {
	tape []byte
	ptr  int
	in   io.Reader
	out  io.Writer
}

// New allocates a fresh tape and binds the given I/O handles. The
// handles are owned exclusively by the Interp for the duration of one
// Run.
func New(in io.Reader, out io.Writer) *Interp {
	return &Interp{
		tape: make([]byte, MemorySize),
		in:   in,
		out:  out,
	}
}

// Run executes prog from pointer 0 to completion.
func (m *Interp) Run(prog ir.Program) error {
	return m.runBlock(prog)
}

func (m *Interp) runBlock(block []ir.Instruction) error {
	for _, inst := range block {
		if err := m.runOne(inst); err != nil {
			return err
		}
	}
	return nil
}

func (m *Interp) runOne(inst ir.Instruction) error {
	switch inst.Op {
	case ir.AddVal:
		m.tape[m.ptr] += inst.Val8
	case ir.SubVal:
		m.tape[m.ptr] -= inst.Val8
	case ir.PtrRight:
		return m.movePtr(int64(inst.Val32))
	case ir.PtrLeft:
		return m.movePtr(-int64(inst.Val32))
	case ir.Put:
		if _, err := m.out.Write(m.tape[m.ptr : m.ptr+1]); err != nil {
			return bferr.IOError{Op: "put", Err: err}
		}
	case ir.Get:
		var b [1]byte
		if _, err := io.ReadFull(m.in, b[:]); err != nil {
			return bferr.IOError{Op: "get", Err: err}
		}
		m.tape[m.ptr] = b[0]
	case ir.Loop:
		// The check happens before each iteration; zero on entry means
		// the body never runs.
		for m.tape[m.ptr] != 0 {
			if err := m.runBlock(inst.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Interp) movePtr(delta int64) error {
	next := int64(m.ptr) + delta
	if next < 0 || next >= MemorySize {
		return bferr.OverflowError{Pointer: m.ptr, Delta: int(delta)}
	}
	m.ptr = int(next)
	return nil
}
