// preprocess.go - Image to component graph compiler for openVCB

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
preprocess.go - Image to component graph compiler for openVCB

This module compiles a decoded circuit image into the directed graph the tick
engine simulates. It is the heaviest part of the core: everything the
simulator touches per tick is laid out here, once, so that ticking itself
never allocates.

Signal Flow:
1. Normalise every pixel colour into an (ink, meta) pair.
2. Flood fill connected components per ink kind, looking through cross and
   tunnel pixels along each axis for conductors.
3. Union wire components that share a bundle region and channel.
4. Number groups densely, wires before components; optionally relabel for
   cache locality (Gorder).
5. Emit directed edges across ink boundaries from the fixed rule table,
   deduplicate, and compact into a compressed sparse-column matrix.
6. Derive initial state, record gate in-degrees, seed the initial frontier
   and resolve the latch interface rectangles to group ids.

Invalid placements never abort preprocessing. A cross or tunnel that cannot
be resolved on any axis is downgraded in place to its invalid marker and left
out of the graph.
*/

package main

import (
	"fmt"
	"sort"
)

// Four-neighbour offsets, x/y pairs.
var neighbour4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// protoComp is a provisional connected component found by the flood fill.
type protoComp struct {
	ink Ink
}

// dsu is a disjoint-set union over provisional component ids, used to merge
// wire components that meet through a bundle.
type dsu struct {
	parent []int32
}

func newDSU(n int32) *dsu {
	d := &dsu{parent: make([]int32, n)}
	for i := range d.parent {
		d.parent[i] = int32(i)
	}
	return d
}

func (d *dsu) find(x int32) int32 {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *dsu) union(a, b int32) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}

// virtualAdj records two wire components joined through a bundle channel.
// Same-kind pairs are unioned; differing kinds fall through to the edge rule
// table exactly as if the pixels were adjacent.
type virtualAdj struct {
	a, b int32
	ka   Ink
	kb   Ink
}

// Preprocess compiles the project image into the simulation format. Configure
// the latch interfaces and VmemSize before calling it. With useGorder the
// group numbering is additionally permuted for event queue cache locality.
func (p *Project) Preprocess(useGorder bool) error {
	w, h := p.Width, p.Height
	if w <= 0 || h <= 0 {
		return fmt.Errorf("openvcb: bad image dimensions %dx%d", w, h)
	}
	if p.Image == nil {
		if len(p.OriginalImage) != w*h*4 {
			return fmt.Errorf("openvcb: image buffer holds %d bytes, want %d", len(p.OriginalImage), w*h*4)
		}
		p.normalizeImage()
	}

	p.resolveCrossings()

	comps, compOf := p.floodFill()
	sets, vadj := p.resolveBundles(comps, compOf)

	// Dense numbering, wire groups first. Only union roots get ids.
	finalID := make([]int32, len(comps))
	for i := range finalID {
		finalID[i] = -1
	}
	// Bundle components never become groups; their pixels were already
	// detached and their channels live on in the unioned wires.
	var numWires, numGroups int32
	for ci := range comps {
		root := sets.find(int32(ci))
		if finalID[root] >= 0 || comps[root].ink == InkBundleOff || !isConductor(comps[root].ink) {
			continue
		}
		finalID[root] = numWires
		numWires++
	}
	numGroups = numWires
	for ci := range comps {
		root := sets.find(int32(ci))
		if finalID[root] >= 0 || isConductor(comps[root].ink) {
			continue
		}
		finalID[root] = numGroups
		numGroups++
	}

	groupInk := make([]Ink, numGroups)
	for ci := range comps {
		root := sets.find(int32(ci))
		if finalID[root] >= 0 {
			groupInk[finalID[root]] = comps[root].ink
		}
	}

	// Rewrite the provisional labels in the index image.
	for i, c := range compOf {
		if c < 0 {
			p.IndexImage[i] = -1
			continue
		}
		p.IndexImage[i] = finalID[sets.find(c)]
	}

	edges := p.collectEdges(sets, finalID, vadj)

	if useGorder {
		perm := gorderPermutation(numGroups, numWires, edges)
		applyPermutation(perm, p.IndexImage, edges, groupInk)
	}

	p.NumGroups = numGroups
	p.NumWireGroups = numWires
	p.WriteMap = buildCSC(numGroups, edges)

	p.allocState(groupInk)
	p.seedInitialFrontier()

	p.resolveLatchInterface(&p.VmAddr)
	p.resolveLatchInterface(&p.VmData)
	if p.VmemSize > 0 && p.Vmem == nil {
		p.Vmem = make([]uint32, p.VmemSize)
	}
	return nil
}

// normalizeImage maps each RGBA pixel to its (ink, meta) pair. Unknown
// colours collapse to InkNone.
func (p *Project) normalizeImage() {
	n := p.Width * p.Height
	p.Image = make([]InkPixel, n)
	for i := 0; i < n; i++ {
		o := i * 4
		rgba := uint32(p.OriginalImage[o])<<24 |
			uint32(p.OriginalImage[o+1])<<16 |
			uint32(p.OriginalImage[o+2])<<8 |
			uint32(p.OriginalImage[o+3])
		p.Image[i] = classifyColor(rgba)
	}
}

// lookThrough resolves the effective neighbour reached from (x, y) moving in
// direction d across any run of cross pixels, or through one tunnel pair.
// Returns the landing pixel index or -1 when the axis is inert.
func (p *Project) lookThrough(x, y int, d [2]int) int {
	nx, ny := x+d[0], y+d[1]
	if !p.inBounds(nx, ny) {
		return -1
	}
	// Raw ink comparisons: the invalid markers share their low bits with
	// cross and tunnel, and an invalid pixel must block the axis.
	switch p.Image[ny*p.Width+nx].Ink {
	case InkCross:
		for p.inBounds(nx, ny) && p.Image[ny*p.Width+nx].Ink == InkCross {
			nx += d[0]
			ny += d[1]
		}
		if !p.inBounds(nx, ny) {
			return -1
		}
		return ny*p.Width + nx
	case InkTunnel:
		// Step past the entry pixel, then scan for the matching exit.
		nx += d[0]
		ny += d[1]
		for p.inBounds(nx, ny) {
			if p.Image[ny*p.Width+nx].Ink == InkTunnel {
				ex, ey := nx+d[0], ny+d[1]
				if !p.inBounds(ex, ey) {
					return -1
				}
				return ey*p.Width + ex
			}
			nx += d[0]
			ny += d[1]
		}
		return -1
	}
	return ny*p.Width + nx
}

func (p *Project) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.Width && y < p.Height
}

// resolveCrossings downgrades cross and tunnel pixels that no conductor can
// pass to their invalid markers. The downgrade only flags the pixel; it never
// aborts preprocessing.
func (p *Project) resolveCrossings() {
	w := p.Width
	for y := 0; y < p.Height; y++ {
		for x := 0; x < w; x++ {
			switch p.Image[y*w+x].Ink {
			case InkCross:
				if !p.crossResolves(x, y) {
					p.Image[y*w+x].Ink = InkInvalidCross
				}
			case InkTunnel:
				if !p.tunnelResolves(x, y) {
					p.Image[y*w+x].Ink = InkInvalidTunnel
				}
			}
		}
	}
}

// crossResolves reports whether at least one axis of the cross carries a
// matching conductor pair, or no conductor touches it at all (an inert cross
// is legal, a blocked one is not).
func (p *Project) crossResolves(x, y int) bool {
	touched := false
	for axis := 0; axis < 2; axis++ {
		d := neighbour4[axis*2]
		a := p.axisEndpoint(x, y, [2]int{-d[0], -d[1]})
		b := p.axisEndpoint(x, y, d)
		if a == nil && b == nil {
			continue
		}
		touched = true
		if a != nil && b != nil && a.Ink == b.Ink && a.Meta&(BUNDLE_CHANNELS-1) == b.Meta&(BUNDLE_CHANNELS-1) {
			return true
		}
	}
	return !touched
}

// axisEndpoint walks from a cross cell in direction d over further crosses
// and returns the conductor pixel that terminates the run, or nil.
func (p *Project) axisEndpoint(x, y int, d [2]int) *InkPixel {
	nx, ny := x+d[0], y+d[1]
	for p.inBounds(nx, ny) && p.Image[ny*p.Width+nx].Ink == InkCross {
		nx += d[0]
		ny += d[1]
	}
	if !p.inBounds(nx, ny) {
		return nil
	}
	px := &p.Image[ny*p.Width+nx]
	if isConductor(setOff(px.Ink)) {
		return px
	}
	return nil
}

// tunnelResolves reports whether the tunnel pixel has a matching exit tunnel
// on at least one axis, or no conductor enters it.
func (p *Project) tunnelResolves(x, y int) bool {
	entered := false
	for _, d := range neighbour4 {
		ax, ay := x-d[0], y-d[1]
		if !p.inBounds(ax, ay) || !isConductor(setOff(p.Image[ay*p.Width+ax].Ink)) {
			continue
		}
		entered = true
		if p.lookThrough(ax, ay, d) >= 0 {
			return true
		}
	}
	return !entered
}

// floodFill labels every groupable pixel with a provisional component id.
// Conductors look through crosses and tunnels; gates and stateful inks merge
// by plain four-neighbour adjacency only.
func (p *Project) floodFill() ([]protoComp, []int32) {
	w, h := p.Width, p.Height
	n := w * h
	compOf := make([]int32, n)
	for i := range compOf {
		compOf[i] = -1
	}
	p.IndexImage = make([]int32, n)

	var comps []protoComp
	stack := make([]int32, 0, 256)

	for seed := 0; seed < n; seed++ {
		kind := setOff(p.Image[seed].Ink)
		if compOf[seed] >= 0 || !isGroupable(kind) {
			continue
		}
		ci := int32(len(comps))
		comps = append(comps, protoComp{ink: kind})
		conductive := isConductor(kind)

		stack = append(stack[:0], int32(seed))
		compOf[seed] = ci
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := int(idx)%w, int(idx)/w

			for _, d := range neighbour4 {
				nx, ny := x+d[0], y+d[1]
				if !p.inBounds(nx, ny) {
					continue
				}
				next := ny*w + nx
				passedThrough := false
				raw := p.Image[next].Ink
				if conductive && (raw == InkCross || raw == InkTunnel) {
					passedThrough = true
					next = p.lookThrough(x, y, d)
				}
				if next < 0 || compOf[next] >= 0 {
					continue
				}
				if setOff(p.Image[next].Ink) != kind {
					continue
				}
				// Direct adjacency merges any colour of the same kind; a
				// cross or tunnel only carries a matching channel across.
				if passedThrough &&
					p.Image[next].Meta&(BUNDLE_CHANNELS-1) != p.Image[idx].Meta&(BUNDLE_CHANNELS-1) {
					continue
				}
				compOf[next] = ci
				stack = append(stack, int32(next))
			}
		}
	}
	return comps, compOf
}

// resolveBundles merges wire components that meet through a bundle region on
// the same channel, and records cross-kind meetings as virtual adjacencies
// for the edge rule table.
//
// Bundle regions themselves never become groups: a bundle pixel lane carries
// up to 64 channels at once and so cannot hold a single group id.
func (p *Project) resolveBundles(comps []protoComp, compOf []int32) (*dsu, []virtualAdj) {
	sets := newDSU(int32(len(comps)))
	w, h := p.Width, p.Height

	// attachments: bundle component -> channel -> attached wire components.
	attach := make(map[int64][]int32)
	var vadj []virtualAdj

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bi := compOf[y*w+x]
			if bi < 0 || comps[bi].ink != InkBundleOff {
				continue
			}
			for _, d := range neighbour4 {
				next := p.lookThrough(x, y, d)
				if next < 0 {
					continue
				}
				wc := compOf[next]
				if wc < 0 {
					continue
				}
				kind := comps[wc].ink
				if !isConductor(kind) || kind == InkBundleOff {
					continue
				}
				ch := int64(p.Image[next].Meta) & (BUNDLE_CHANNELS - 1)
				key := int64(bi)<<8 | ch
				attach[key] = append(attach[key], wc)
			}
		}
	}

	for _, wires := range attach {
		for i := 1; i < len(wires); i++ {
			a, b := wires[0], wires[i]
			ka, kb := comps[sets.find(a)].ink, comps[sets.find(b)].ink
			if ka == kb {
				sets.union(a, b)
				continue
			}
			vadj = append(vadj, virtualAdj{a: a, b: b, ka: ka, kb: kb})
		}
	}

	// Bundle pixels stay outside every group.
	for i, c := range compOf {
		if c >= 0 && comps[c].ink == InkBundleOff {
			compOf[i] = -1
		}
	}
	return sets, vadj
}

// edgeRule reports whether a state change in ink kind a must re-evaluate an
// adjacent group of ink kind b.
func edgeRule(a, b Ink) bool {
	switch a {
	case InkWriteOff:
		return b == InkTraceOff || b == InkReadOff || b == InkLatchOff || b == InkLedOff
	case InkTraceOff:
		return b == InkReadOff || b == InkLedOff
	case InkReadOff:
		return isGate(b) || b == InkLedOff
	case InkLatchOff:
		return b == InkReadOff
	case InkClockOff:
		return b == InkWriteOff
	}
	if isGate(a) {
		return b == InkWriteOff
	}
	return false
}

type edge struct {
	from, to int32
}

// collectEdges walks every pixel boundary of interest plus the virtual bundle
// adjacencies and emits directed edges from the rule table. Duplicates are
// removed later during the CSC compaction.
func (p *Project) collectEdges(sets *dsu, finalID []int32, vadj []virtualAdj) []edge {
	w, h := p.Width, p.Height
	var edges []edge

	emit := func(ga, gb int32, ka, kb Ink) {
		if ga == gb || ga < 0 || gb < 0 {
			return
		}
		if edgeRule(ka, kb) {
			edges = append(edges, edge{from: ga, to: gb})
		}
		if edgeRule(kb, ka) {
			edges = append(edges, edge{from: gb, to: ga})
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ga := p.IndexImage[y*w+x]
			if ga < 0 {
				continue
			}
			ka := setOff(p.Image[y*w+x].Ink)
			// Right and down cover each boundary once; emit handles both
			// directions of the rule table.
			for _, d := range [2][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if !p.inBounds(nx, ny) {
					continue
				}
				gb := p.IndexImage[ny*w+nx]
				if gb < 0 {
					continue
				}
				emit(ga, gb, ka, setOff(p.Image[ny*w+nx].Ink))
			}
		}
	}

	for _, va := range vadj {
		ga := finalID[sets.find(va.a)]
		gb := finalID[sets.find(va.b)]
		emit(ga, gb, va.ka, va.kb)
	}
	return edges
}

// buildCSC compacts an edge list into the compressed sparse-column adjacency
// matrix: columns sorted by row id, duplicates removed.
func buildCSC(n int32, edges []edge) SparseMat {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	ptr := make([]int32, n+1)
	rows := make([]int32, 0, len(edges))
	var last edge = edge{from: -1, to: -1}
	for _, e := range edges {
		if e == last {
			continue
		}
		last = e
		rows = append(rows, e.to)
		ptr[e.from+1]++
	}
	for i := int32(1); i <= n; i++ {
		ptr[i] += ptr[i-1]
	}
	return SparseMat{N: n, Nnz: int32(len(rows)), Ptr: ptr, Rows: rows}
}

// allocState sizes every per-group buffer and derives the initial state:
// all groups off, no active inputs, queues empty.
func (p *Project) allocState(groupInk []Ink) {
	n := p.NumGroups
	p.activeInputs = make([]int32, n)
	p.visited = make([]uint32, n)
	p.inkState = make([]uint8, n)
	p.lastActiveInputs = make([]int32, n)
	p.inDegree = make([]int32, n)
	p.updateQ[0] = make([]int32, n)
	p.updateQ[1] = make([]int32, n)
	p.qSize = 0
	p.tickNum = 0

	for g := int32(0); g < n; g++ {
		p.inkState[g] = uint8(groupInk[g])
	}
	for _, row := range p.WriteMap.Rows {
		p.inDegree[row]++
	}
}

// resolveLatchInterface walks the interface rectangle and records the group
// id under each projected bit. Bits that do not land on a latch group get -1.
func (p *Project) resolveLatchInterface(li *LatchInterface) {
	li.invalidate()
	if li.NumBits <= 0 {
		return
	}
	if li.NumBits > LATCH_MAX_BITS {
		li.NumBits = LATCH_MAX_BITS
	}
	for i := 0; i < li.NumBits; i++ {
		cx := li.Pos[0] + li.Stride[0]*i
		cy := li.Pos[1] + li.Stride[1]*i
		li.Gids[i] = p.findLatchIn(cx, cy, li.Size)
	}
}

// findLatchIn scans a size-bounded cell for the first latch pixel and
// returns its group.
func (p *Project) findLatchIn(cx, cy int, size [2]int) int32 {
	sw, sh := size[0], size[1]
	if sw <= 0 {
		sw = 1
	}
	if sh <= 0 {
		sh = 1
	}
	for dy := 0; dy < sh; dy++ {
		for dx := 0; dx < sw; dx++ {
			x, y := cx+dx, cy+dy
			if !p.inBounds(x, y) {
				continue
			}
			idx := y*p.Width + x
			if setOff(p.Image[idx].Ink) == InkLatchOff && p.IndexImage[idx] >= 0 {
				return p.IndexImage[idx]
			}
		}
	}
	return -1
}
