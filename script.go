// script.go - Lua testbench bindings for openVCB

/*
 ▒█████   ██▓███   ▓█████  ███▄    █  ██▒   █▓  ▄████▄   ▄▄▄▄
▒██▒  ██▒▓██░  ██▒ ▓█   ▀  ██ ▀█   █ ▓██░   █▒ ▒██▀ ▀█  ▓█████▄
▒██░  ██▒▓██░ ██▓▒ ▒███   ▓██  ▀█ ██▒ ▓██  █▒░ ▒▓█    ▄ ▒██▒ ▄██▒
▒██   ██░▒██▄█▓▒ ▒ ▒▓█  ▄ ▓██▒  ▐▌██▒  ▒██ █░░ ▒▓▓▄ ▄██▒▒██░█▀
░ ████▓▒░▒██▒ ░  ░ ░▒████▒▒██░   ▓██░   ▒▀█░   ▒ ▓███▀ ░░▓█  ▀█▓
░ ▒░▒░▒░ ▒▓▒░ ░  ░ ░░ ▒░ ░░ ▒░   ▒ ▒    ░ ▐░   ░ ░▒ ▒  ░░▒▓███▀▒
  ░ ▒ ▒░ ░▒ ░       ░ ░  ░░ ░░   ░ ▒░   ░ ░░     ░  ▒   ▒░▒   ░
░ ░ ░ ▒  ░░           ░      ░   ░ ░      ░░   ░         ░    ░
    ░ ░               ░  ░         ░       ░   ░ ░       ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/openVCB
License: GPLv3 or later
*/

/*
script.go - Lua testbench bindings for openVCB

A circuit on its own is mute; a testbench drives it. This module exposes a
small Lua API so test fixtures can poke latches, advance ticks and assert on
observed state without recompiling anything:

    tick(n [, maxEvents])     advance the simulation, returns events processed
    toggle_latch(x, y)        flip the latch at a pixel
    sample(x, y)              returns ink name, group id, on/off
    group_state(gid)          returns the group's on/off state
    assemble(text)            assemble vmem source, raises on error
    vmem_read(a) / vmem_write(a, v)
    dump_vmem()               returns the hex dump text
    width() / height() / queue_len() / tick_count()
*/

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// RunScript executes a Lua testbench file against the project.
func (p *Project) RunScript(path string) error {
	L := lua.NewState()
	defer L.Close()
	p.registerScriptAPI(L)
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// RunScriptString executes inline Lua testbench source.
func (p *Project) RunScriptString(src string) error {
	L := lua.NewState()
	defer L.Close()
	p.registerScriptAPI(L)
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (p *Project) registerScriptAPI(L *lua.LState) {
	reg := func(name string, fn lua.LGFunction) {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	reg("tick", func(L *lua.LState) int {
		n := L.OptInt(1, 1)
		budget := L.OptInt(2, 0)
		L.Push(lua.LNumber(p.Tick(n, int64(budget))))
		return 1
	})

	reg("toggle_latch", func(L *lua.LState) int {
		p.ToggleLatch(L.CheckInt(1), L.CheckInt(2))
		return 0
	})

	reg("sample", func(L *lua.LState) int {
		ink, gid := p.Sample(L.CheckInt(1), L.CheckInt(2))
		L.Push(lua.LString(ink.String()))
		L.Push(lua.LNumber(gid))
		L.Push(lua.LBool(getOn(ink)))
		return 3
	})

	reg("group_state", func(L *lua.LState) int {
		gid := int32(L.CheckInt(1))
		if gid < 0 || gid >= p.NumGroups {
			L.RaiseError("group %d out of range", gid)
		}
		L.Push(lua.LBool(p.GroupState(gid)))
		return 1
	})

	reg("assemble", func(L *lua.LState) int {
		p.Assembly = L.CheckString(1)
		if err := p.AssembleVmem(); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	})

	reg("vmem_read", func(L *lua.LState) int {
		a := L.CheckInt(1)
		if a < 0 || a >= len(p.Vmem) {
			L.RaiseError("vmem address %d out of range", a)
		}
		L.Push(lua.LNumber(p.Vmem[a]))
		return 1
	})

	reg("vmem_write", func(L *lua.LState) int {
		a := L.CheckInt(1)
		if a < 0 || a >= len(p.Vmem) {
			L.RaiseError("vmem address %d out of range", a)
		}
		p.Vmem[a] = uint32(L.CheckInt64(2))
		return 0
	})

	reg("dump_vmem", func(L *lua.LState) int {
		L.Push(lua.LString(p.DumpVMemToText()))
		return 1
	})

	reg("width", func(L *lua.LState) int {
		L.Push(lua.LNumber(p.Width))
		return 1
	})

	reg("height", func(L *lua.LState) int {
		L.Push(lua.LNumber(p.Height))
		return 1
	})

	reg("queue_len", func(L *lua.LState) int {
		L.Push(lua.LNumber(p.QueueLen()))
		return 1
	})

	reg("tick_count", func(L *lua.LState) int {
		L.Push(lua.LNumber(p.TickCount()))
		return 1
	})
}
