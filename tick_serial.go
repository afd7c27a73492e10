//go:build !ovcbmt

// tick_serial.go - Serial tick engine primitives for openVCB

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

// The serial engine build. One thread owns the whole project; every queue and
// state primitive is a plain update. The parallel counterparts live in
// tick_parallel.go behind the ovcbmt build tag.

package main

// tryEmit schedules a group for the next tick if it is not already queued.
// Guarantees at most one enqueue per group per tick.
func (p *Project) tryEmit(g int32) bool {
	if p.visited[g] != 0 {
		return false
	}
	p.visited[g] = 1
	p.updateQ[1][p.qSize] = g
	p.qSize++
	return true
}

func (p *Project) clearVisited(g int32) {
	p.visited[g] = 0
}

func (p *Project) loadActive(g int32) int32 {
	return p.activeInputs[g]
}

func (p *Project) addActive(g, delta int32) {
	p.activeInputs[g] += delta
}

func (p *Project) loadInk(g int32) uint8 {
	return p.inkState[g]
}

func (p *Project) storeInk(g int32, ink uint8) {
	p.inkState[g] = ink
}

// drainFrontier evaluates the frontier in order, stopping once the event
// budget runs out. Returns the events processed and the index of the first
// unconsumed entry. A negative budget means unlimited.
func (p *Project) drainFrontier(frontier []int32, budget int64) (int64, int) {
	var processed int64
	for i, g := range frontier {
		if budget >= 0 && processed >= budget {
			return processed, i
		}
		p.clearVisited(g)
		p.processGroup(g)
		processed++
	}
	return processed, len(frontier)
}
