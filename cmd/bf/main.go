// Command bf runs brainfuck programs, either under the reference
// interpreter (the default) or under one of two JIT backends selected
// with the `jit` subcommand.
//
// Usage:
//
//	bf <source-file>
//	bf jit --method {lightweight|optimizing} [--dump-ir] <source-file>
//
// Argument parsing is a plain os.Args loop in the style of
// tinyrange-rtg/std/compiler/main.go rather than a flag-package-based
// parser — this CLI has exactly two shapes and a handful of switches,
// not enough surface to justify pulling in a flags library.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nilcount/bf/internal/bfio"
	"github.com/nilcount/bf/internal/ir"
	"github.com/nilcount/bf/internal/parser"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if os.Args[1] == "jit" {
		runJITCommand(os.Args[2:])
		return
	}

	runInterpreter(os.Args[1:])
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bf <source-file>")
	fmt.Fprintln(os.Stderr, "       bf jit --method {lightweight|optimizing} [--dump-ir] <source-file>")
}

func runInterpreter(args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	prog := loadProgram(args[0])
	runAndReport("Running program without JIT:", func() error {
		return runInterp(prog)
	})
}

func runJITCommand(args []string) {
	method := ""
	dumpIR := false
	var srcPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--method":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "bf: --method requires an argument")
				os.Exit(2)
			}
			method = args[i]
		case "--dump-ir":
			dumpIR = true
		default:
			if srcPath != "" {
				usage()
				os.Exit(2)
			}
			srcPath = args[i]
		}
	}

	if method != "lightweight" && method != "optimizing" {
		fmt.Fprintln(os.Stderr, "bf: --method must be \"lightweight\" or \"optimizing\"")
		os.Exit(2)
	}
	if srcPath == "" {
		usage()
		os.Exit(2)
	}

	prog := loadProgram(srcPath)
	runJIT(method, prog, dumpIR)
}

func loadProgram(path string) ir.Program {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf: %v\n", err)
		os.Exit(1)
	}
	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf: %v\n", err)
		os.Exit(1)
	}
	return prog
}

// runAndReport prints the run banner, executes run, and reports
// elapsed time — all on stdout, interleaved with the program's own
// output, matching original_source/src/main.rs's
// `println!("Running program {}:")` / `println!("The code took: {:?}
// to run", ...)` pair (spec §6).
func runAndReport(banner string, run func() error) {
	fmt.Println(banner)
	start := time.Now()
	err := run()
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("The code took: %s to run\n", elapsed)
}

func newStdContext() *bfio.Context {
	return bfio.NewContext(os.Stdin, os.Stdout)
}
