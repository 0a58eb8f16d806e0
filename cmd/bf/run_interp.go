package main

import (
	"os"

	"github.com/nilcount/bf/internal/interp"
	"github.com/nilcount/bf/internal/ir"
)

func runInterp(prog ir.Program) error {
	m := interp.New(os.Stdin, os.Stdout)
	return m.Run(prog)
}
