//go:build amd64

package main

import (
	"fmt"
	"os"

	"github.com/nilcount/bf/internal/ir"
	"github.com/nilcount/bf/internal/jit/lightweight"
	"github.com/nilcount/bf/internal/jit/optimizing"
)

func runJIT(method string, prog ir.Program, dumpIR bool) {
	switch method {
	case "lightweight":
		j, err := lightweight.Compile(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bf: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		if dumpIR {
			fmt.Print(j.IR())
		}
		runAndReport(fmt.Sprintf("Running program with %s JIT:", method), func() error {
			return j.Run(newStdContext())
		})

	case "optimizing":
		j, err := optimizing.Compile(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bf: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		if dumpIR {
			fmt.Print(j.IR())
		}
		runAndReport(fmt.Sprintf("Running program with %s JIT:", method), func() error {
			return j.Run(newStdContext())
		})
	}
}
