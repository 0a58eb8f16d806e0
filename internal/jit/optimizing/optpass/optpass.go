//go:build amd64

// Package optpass implements the small mem2reg-style promotion the
// optimizing JIT runs over irbuilder's naive alloca-based IR before
// lowering it to machine code (spec §4.4's "aggressive optimization").
//
// The real LLVM pass builds dominance frontiers and inserts phi nodes
// to promote an alloca across an entire function. This one is
// deliberately smaller: within a single basic block, a load from the
// pointer slot that is provably preceded by a store or another load
// with no intervening instruction capable of touching it (nothing but
// GEP/LoadCell/StoreCell/calls/arithmetic ever executes between them,
// and none of those can alias the slot — the tape and the slot are
// disjoint allocations with no address-of-slot ever taken) is
// redundant and gets marked Promoted; a store immediately superseded
// by a later store to the same slot before any load escapes to a
// successor block gets marked Dead. The final store in a block is
// always kept live, because this backend never builds the cross-block
// value tracking that would let a successor avoid reloading from
// memory (see irbuilder's package doc: "no block-sealing").
package optpass

import "github.com/nilcount/bf/internal/jit/optimizing/irbuilder"

// Run mutates f in place, setting Dead/Promoted/PromotedValue on the
// instructions it eliminates.
func Run(f *irbuilder.Func) {
	for _, block := range f.Blocks {
		runBlock(block)
	}
}

func runBlock(block *irbuilder.Block) {
	known := irbuilder.NoValue
	var pendingStore *irbuilder.Instr

	for _, in := range block.Instrs {
		switch in.Op {
		case irbuilder.OpLoadSlot:
			if known != irbuilder.NoValue {
				in.Promoted = true
				in.PromotedValue = known
			} else {
				known = in.Result
			}
		case irbuilder.OpStoreSlot:
			if pendingStore != nil {
				pendingStore.Dead = true
			}
			pendingStore = in
			known = in.Operand
		}
	}
}
