//go:build !amd64

package main

import (
	"fmt"
	"os"

	"github.com/nilcount/bf/internal/bferr"
	"github.com/nilcount/bf/internal/ir"
)

// runJIT reports that neither backend has a native-code generator on
// this architecture. Both internal/jit/lightweight and
// internal/jit/optimizing emit amd64 machine code directly; there is
// no portable fallback to a different instruction set, so the JIT
// command surfaces a CompileError instead of silently falling back to
// the interpreter.
func runJIT(method string, _ ir.Program, _ bool) {
	err := bferr.CompileError{Backend: method, Err: fmt.Errorf("no native code generator for this architecture")}
	fmt.Fprintf(os.Stderr, "bf: %v\n", err)
	os.Exit(1)
}
