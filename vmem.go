// vmem.go - Virtual memory overlay and latch access for openVCB

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
vmem.go - Virtual memory overlay and latch access for openVCB

This module projects an integer word buffer onto latch groups through two
rectangular latch interfaces: VmAddr supplies the address lines, VmData the
data lines. The overlay is serviced once per tick, before the frontier swap:

    The address is composed from the VmAddr latch bits. When it differs from
    the address of the previous tick, the addressed word is driven onto the
    VmData latches, enqueueing every latch whose state changes. When the
    address is unchanged, the word is instead refreshed from the latches, so
    that circuit-side writes land in memory.

Latch state changes made from here (and from ToggleLatch) bypass the rising
edge evaluation: the stored bit is authoritative, the change is pushed
directly into the successor input counters and the successors are scheduled.
*/

package main

import (
	"fmt"
	"strings"
)

// handleVMemTick services the overlay between frontiers. No-op for projects
// without vmem.
func (p *Project) handleVMemTick() {
	if p.Vmem == nil || p.VmAddr.NumBits <= 0 {
		return
	}
	addr := uint32(p.readLatchWord(&p.VmAddr))
	if int(addr) >= len(p.Vmem) {
		return
	}
	if addr != p.lastVMemAddr {
		p.writeLatchWord(&p.VmData, uint64(p.Vmem[addr]))
		p.lastVMemAddr = addr
		return
	}
	p.Vmem[addr] = uint32(p.readLatchWord(&p.VmData))
}

// readLatchWord composes an integer from the interface's latch bits.
func (p *Project) readLatchWord(li *LatchInterface) uint64 {
	var word uint64
	for i := 0; i < li.NumBits; i++ {
		gid := li.Gids[i]
		if gid < 0 {
			continue
		}
		if getOn(Ink(p.loadInk(gid))) {
			word |= 1 << uint(i)
		}
	}
	return word
}

// writeLatchWord drives a word onto the interface's latches, scheduling the
// successors of every bit that changes.
func (p *Project) writeLatchWord(li *LatchInterface, word uint64) {
	for i := 0; i < li.NumBits; i++ {
		gid := li.Gids[i]
		if gid < 0 {
			continue
		}
		p.setLatchState(gid, word&(1<<uint(i)) != 0)
	}
}

// setLatchState forces a latch group's stored bit and propagates the change
// to its successors. The latch itself is not re-evaluated; its stored state
// is authoritative.
func (p *Project) setLatchState(g int32, state bool) {
	ink := Ink(p.loadInk(g))
	if getOn(ink) == state {
		return
	}
	p.storeInk(g, uint8(setOn(ink, state)))

	delta := int32(1)
	if !state {
		delta = -1
	}
	for _, v := range p.WriteMap.Col(g) {
		p.addActive(v, delta)
		p.tryEmit(v)
	}
}

// ToggleLatch flips the latch at a pixel position. Does nothing if the pixel
// is not part of a latch group.
func (p *Project) ToggleLatch(x, y int) {
	if !p.inBounds(x, y) {
		return
	}
	idx := y*p.Width + x
	if setOff(p.Image[idx].Ink) != InkLatchOff {
		return
	}
	gid := p.IndexImage[idx]
	if gid < 0 {
		return
	}
	p.setLatchState(gid, !getOn(Ink(p.loadInk(gid))))
}

// DumpVMemToText renders the vmem buffer as whitespace-separated hex words,
// one per cell, sixteen cells per line.
func (p *Project) DumpVMemToText() string {
	var sb strings.Builder
	for i, word := range p.Vmem {
		if i > 0 {
			if i%16 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%08x", word)
	}
	if len(p.Vmem) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}
