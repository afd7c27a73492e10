// script_test.go - Lua testbench binding tests

package main

import (
	"strings"
	"testing"
)

// TestScriptDrivesCircuit verifies a Lua testbench can toggle latches, tick
// and observe state.
func TestScriptDrivesCircuit(t *testing.T) {
	c := newCircuit(2, 1)
	c.set(0, 0, InkLatchOff)
	c.set(1, 0, InkReadOff)
	p := c.compile(t)

	err := p.RunScriptString(`
		if width() ~= 2 or height() ~= 1 then
			error("bad dimensions")
		end
		toggle_latch(0, 0)
		tick(2)
		local name, gid, on = sample(1, 0)
		if not on then
			error("read tap should be on, ink " .. name)
		end
		toggle_latch(0, 0)
		tick(2)
		local _, _, still = sample(1, 0)
		if still then
			error("read tap should be off again")
		end
	`)
	if err != nil {
		t.Fatalf("testbench failed: %v", err)
	}
}

// TestScriptAssembleAndVmem verifies the assembler and vmem accessors are
// reachable from Lua.
func TestScriptAssembleAndVmem(t *testing.T) {
	p := newEmptyProject()
	p.VmemSize = 8

	err := p.RunScriptString(`
		assemble("10 0x20 0b11")
		if vmem_read(1) ~= 0x20 then
			error("vmem[1] wrong")
		end
		vmem_write(3, 99)
		if vmem_read(3) ~= 99 then
			error("vmem[3] wrong")
		end
		if #dump_vmem() == 0 then
			error("empty dump")
		end
	`)
	if err != nil {
		t.Fatalf("testbench failed: %v", err)
	}
}

// TestScriptErrorPropagates verifies Lua errors surface as Go errors.
func TestScriptErrorPropagates(t *testing.T) {
	p := newEmptyProject()
	err := p.RunScriptString(`error("boom")`)
	if err == nil {
		t.Fatalf("script error swallowed")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error %q does not carry the script message", err)
	}
}

// TestScriptVmemRangeChecked verifies out-of-range vmem access raises
// instead of crashing.
func TestScriptVmemRangeChecked(t *testing.T) {
	p := newEmptyProject()
	p.Vmem = make([]uint32, 2)
	if err := p.RunScriptString(`vmem_read(5)`); err == nil {
		t.Fatalf("out-of-range vmem read accepted")
	}
}
