// vmem_assembler_test.go - Vmem assembler tests

package main

import (
	"strings"
	"testing"
)

func assemble(t *testing.T, vmemSize int, src string) *Project {
	t.Helper()
	p := newEmptyProject()
	p.VmemSize = vmemSize
	p.Assembly = src
	if err := p.AssembleVmem(); err != nil {
		t.Fatalf("AssembleVmem failed: %v", err)
	}
	return p
}

// TestAssembleLiterals verifies decimal, hex and binary words land in order.
func TestAssembleLiterals(t *testing.T) {
	p := assemble(t, 8, "42 0x2A 0b101010 -1")
	want := []uint32{42, 0x2A, 42, 0xFFFFFFFF}
	for i, w := range want {
		if p.Vmem[i] != w {
			t.Fatalf("vmem[%d] = 0x%08X, want 0x%08X", i, p.Vmem[i], w)
		}
	}
}

// TestAssembleComments verifies everything after a semicolon is ignored.
func TestAssembleComments(t *testing.T) {
	p := assemble(t, 4, `
; full line comment
1 2 ; trailing comment 99
3
`)
	for i, w := range []uint32{1, 2, 3} {
		if p.Vmem[i] != w {
			t.Fatalf("vmem[%d] = %d, want %d", i, p.Vmem[i], w)
		}
	}
}

// TestAssembleLabelsAndBackpatch verifies labels resolve to word offsets,
// including forward references patched at the end.
func TestAssembleLabelsAndBackpatch(t *testing.T) {
	p := assemble(t, 8, `
start:  end     ; forward reference
        7
loop:   loop    ; self reference
end:    start
`)
	if got := p.AssemblySymbols["start"]; got != 0 {
		t.Fatalf("start = %d, want 0", got)
	}
	if got := p.AssemblySymbols["loop"]; got != 2 {
		t.Fatalf("loop = %d, want 2", got)
	}
	if got := p.AssemblySymbols["end"]; got != 3 {
		t.Fatalf("end = %d, want 3", got)
	}
	want := []uint32{3, 7, 2, 0}
	for i, w := range want {
		if p.Vmem[i] != w {
			t.Fatalf("vmem[%d] = %d, want %d", i, p.Vmem[i], w)
		}
	}
}

// TestAssembleOrg verifies .org moves the write cursor.
func TestAssembleOrg(t *testing.T) {
	p := assemble(t, 8, `
1
.org 4
2
here: 3
`)
	if p.Vmem[0] != 1 || p.Vmem[4] != 2 || p.Vmem[5] != 3 {
		t.Fatalf("vmem = %v after .org", p.Vmem[:6])
	}
	if got := p.AssemblySymbols["here"]; got != 5 {
		t.Fatalf("here = %d, want 5", got)
	}
}

// TestAssembleErrorsCarryLineNumbers verifies each failure mode reports the
// offending line.
func TestAssembleErrorsCarryLineNumbers(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line string
	}{
		{"bad token", "1\n2\n@bogus", "line 3"},
		{"duplicate label", "a:\na:", "line 2"},
		{"bad org", "1\n.org zzz:", "line 2"},
		{"org out of range", ".org 99", "line 1"},
		{"overflow", "1 2 3 4 5", "line 1"},
		{"missing org operand", "1\n.org", "line 2"},
	}
	for _, tc := range cases {
		p := newEmptyProject()
		p.VmemSize = 4
		p.Assembly = tc.src
		err := p.AssembleVmem()
		if err == nil {
			t.Fatalf("%s: assembly succeeded", tc.name)
		}
		if !strings.Contains(err.Error(), tc.line) {
			t.Fatalf("%s: error %q does not name %s", tc.name, err, tc.line)
		}
	}
}

// TestAssembleUndefinedSymbol verifies unresolved references fail after the
// main pass, with vmem partially filled.
func TestAssembleUndefinedSymbol(t *testing.T) {
	p := newEmptyProject()
	p.VmemSize = 4
	p.Assembly = "7 nowhere"
	err := p.AssembleVmem()
	if err == nil {
		t.Fatalf("undefined symbol accepted")
	}
	if !strings.Contains(err.Error(), "nowhere") {
		t.Fatalf("error %q does not name the symbol", err)
	}
	if p.Vmem[0] != 7 {
		t.Fatalf("vmem[0] = %d, want the partial fill kept", p.Vmem[0])
	}
}

// TestAssembleWithoutVmem verifies assembling with no vmem configured is an
// error, not a crash.
func TestAssembleWithoutVmem(t *testing.T) {
	p := newEmptyProject()
	p.Assembly = "1"
	if err := p.AssembleVmem(); err == nil {
		t.Fatalf("assembly without vmem succeeded")
	}
}
