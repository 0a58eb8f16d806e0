//go:build amd64

// Package jitexec owns the mmap'd executable pages a JIT backend's
// compiled function lives in. Grounded on
// other_examples/…launix-de-memcp__scm-jit.go.go's allocExec/makeRX:
// allocate anonymous RW memory, copy the emitted bytes in, flip the
// mapping to RX, and hand back the raw code address.
package jitexec

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Module owns one mmap'd region of machine code. The region stays
// mapped for the Module's lifetime; Free must not be called while any
// call into the code is in flight (spec §5 "freeing the module before
// the function returns is undefined behavior").
type Module struct {
	mem []byte
}

// Build copies code into a freshly mapped, page-aligned buffer and
// switches it from RW to RX. The returned Module owns that mapping.
func Build(code []byte) (*Module, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("jitexec: empty code buffer")
	}
	page := syscall.Getpagesize()
	size := (len(code) + page - 1) &^ (page - 1)

	mem, err := syscall.Mmap(-1, 0, size,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("jitexec: mmap: %w", err)
	}
	copy(mem, code)

	if err := syscall.Mprotect(mem, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		syscall.Munmap(mem)
		return nil, fmt.Errorf("jitexec: mprotect: %w", err)
	}
	return &Module{mem: mem}, nil
}

// EntryPoint returns the address of the first byte of the compiled
// function. Both JIT backends pass it to jitabi.Invoke, mirroring how
// VMCranelift.compile/get_finalized_function hands back a raw code
// pointer in original_source/src/vm/cranelift.rs.
func (m *Module) EntryPoint() uintptr {
	return uintptr(unsafe.Pointer(&m.mem[0]))
}

// Free unmaps the executable pages. The caller must guarantee no
// invocation of the compiled function is still running.
func (m *Module) Free() error {
	if m.mem == nil {
		return nil
	}
	err := syscall.Munmap(m.mem)
	m.mem = nil
	return err
}
