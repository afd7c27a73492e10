// tick.go - Event-driven tick engine for openVCB

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
tick.go - Event-driven tick engine for openVCB

This module advances the compiled circuit tick by tick. Each tick drains the
current event frontier, evaluates every scheduled group once, and propagates
state deltas to successor groups through the write map, scheduling them for
the following tick.

Per-tick procedure:
1. Service the virtual memory overlay (address compose, data project).
2. Swap the double-buffered queue; the old write side becomes the frontier.
3. For each group in the frontier: clear its visited flag, compute the new
   state from its active input counter and ink kind, and on a change walk
   its write map column applying +1/-1 input deltas and emitting events.
4. Stop early once the cumulative event budget is exhausted; the unconsumed
   remainder of the frontier carries over to the next call.

Within a tick the per-group updates commute: every successor only accumulates
signed deltas and is evaluated no earlier than the following tick, so the
post-tick state is independent of the order groups are drained in. That is
what makes the parallel engine build a drop-in replacement for the serial
one. Event coalescing through the visited flag keeps the next frontier
duplicate free.

The event budget is the engine's only cancellation channel. Exhausting it is
not an error; the engine simply returns the number of events it processed.
*/

package main

// Tick advances the simulation by up to numTicks ticks or until the
// cumulative number of processed events reaches maxEvents, whichever comes
// first. A maxEvents of zero or below means no budget. Returns the number of
// events actually processed.
func (p *Project) Tick(numTicks int, maxEvents int64) int64 {
	budget := maxEvents
	if budget <= 0 {
		budget = -1
	}
	var processed int64

	for t := 0; t < numTicks; t++ {
		if budget >= 0 && processed >= budget {
			break
		}
		p.handleVMemTick()

		p.updateQ[0], p.updateQ[1] = p.updateQ[1], p.updateQ[0]
		rSize := p.qSize
		p.qSize = 0
		frontier := p.updateQ[0][:rSize]

		remaining := int64(-1)
		if budget >= 0 {
			remaining = budget - processed
		}
		done, stop := p.drainFrontier(frontier, remaining)
		processed += done
		if stop < len(frontier) {
			p.requeueUnconsumed(frontier[stop:])
		}
		p.tickNum++
	}
	return processed
}

// requeueUnconsumed carries frontier entries that were never drained over to
// the write-side queue. Their visited flags are still set, so tryEmit cannot
// be used; the entries are appended directly. Only ever called between
// drains, with no workers running.
func (p *Project) requeueUnconsumed(rest []int32) {
	for _, g := range rest {
		p.updateQ[1][p.qSize] = g
		p.qSize++
	}
}

// processGroup evaluates one group taken off the frontier. The caller has
// already cleared the group's visited flag, so a clock (or any successor
// touched later this tick) can re-enter the queue for the following tick.
func (p *Project) processGroup(g int32) {
	ink := Ink(p.loadInk(g))
	kind := setOff(ink)
	s := getOn(ink)
	ai := p.loadActive(g)

	var next bool
	switch kind {
	case InkTraceOff, InkReadOff, InkWriteOff, InkBundleOff, InkBufferOff, InkOrOff, InkLedOff:
		next = ai > 0
	case InkNotOff, InkNorOff:
		next = ai == 0
	case InkAndOff:
		next = ai == p.inDegree[g]
	case InkNandOff:
		next = ai != p.inDegree[g]
	case InkXorOff:
		next = ai&1 != 0
	case InkXnorOff:
		next = ai&1 == 0
	case InkLatchOff:
		// A latch flips on the rising edge of its write predecessor and
		// holds otherwise. The previous counter value is the edge detector.
		next = s
		if ai > 0 && p.lastActiveInputs[g] == 0 {
			next = !s
		}
		p.lastActiveInputs[g] = ai
	case InkClockOff:
		next = (p.tickNum/p.ClockHalfPeriod)&1 == 1
		p.tryEmit(g)
	default:
		// Inert kinds never reach the queue; keep whatever state they have.
		next = s
	}

	if next == s {
		return
	}
	p.storeInk(g, uint8(setOn(kind, next)))

	delta := int32(1)
	if !next {
		delta = -1
	}
	for _, v := range p.WriteMap.Col(g) {
		p.addActive(v, delta)
		p.tryEmit(v)
	}
}
