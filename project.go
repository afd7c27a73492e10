// project.go - Project state for the openVCB simulation core

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
project.go - Project state for the openVCB simulation core

This module owns every per-circuit buffer: the decoded pixel image, the
normalised ink image, the component index image, the compressed sparse-column
adjacency matrix, the per-group simulation state, both halves of the
double-buffered event queue, the latch interfaces and the virtual memory
overlay.

Core Features:

    Single owner for all simulation buffers; everything is allocated during
    preprocessing and nothing is allocated while ticking.
    Struct-of-arrays group state (active input counters, visited flags, ink
    state bytes) shared byte for byte between the serial and the parallel
    engine builds.
    Double-buffered update queue with a single write-side counter.
    Latch interfaces projecting rectangular latch banks onto group indices.

Technical Details:

    Group state is split into three parallel slices rather than a slice of
    structs so that the parallel engine can apply sync/atomic operations to
    the counters and flags without changing the memory layout the serial
    engine uses. The adjacency matrix is read-only after preprocessing; the
    tick engine only ever walks Ptr/Rows. The visited flag is one 32-bit word
    per group because compare-and-swap needs a full word on every port we
    target.
*/

package main

import (
	"fmt"
)

const (
	// Bundles multiplex up to this many logical channels over one pixel lane.
	BUNDLE_CHANNELS = 64

	// A latch interface projects at most one machine word of bits.
	LATCH_MAX_BITS = 64

	// Default tick count per clock half-period.
	DEFAULT_CLOCK_PERIOD = 1
)

type LatchInterface struct {
	/*
		LatchInterface projects a rectangular bank of latch pixels onto
		group indices. Pos is the top-left pixel of the bank, Stride the
		step between consecutive bits and Size the extent walked per bit.

		Gids is populated during preprocessing: one group id per projected
		bit, or -1 where the walk did not land on a latch.
	*/

	Pos     [2]int
	Stride  [2]int
	Size    [2]int
	NumBits int
	Gids    [LATCH_MAX_BITS]int32
}

type SparseMat struct {
	/*
		SparseMat is a compressed sparse-column adjacency matrix. Column g
		holds the successor groups of g: Rows[Ptr[g]:Ptr[g+1]], sorted and
		duplicate free.
	*/

	N    int32
	Nnz  int32
	Ptr  []int32
	Rows []int32
}

// Col returns the successor groups of g.
func (m *SparseMat) Col(g int32) []int32 {
	return m.Rows[m.Ptr[g]:m.Ptr[g+1]]
}

type Project struct {
	/*
		Project is a compiled circuit plus its live simulation state.

		Buffer lifecycle: the image buffers are created by the decoder or
		loader, everything else by Preprocess. During simulation the state
		slices and the two queue buffers are updated in place; nothing is
		allocated or freed until the whole project is dropped.
	*/

	Width  int
	Height int

	// Decoded RGBA pixels, 4 bytes per pixel, row major.
	OriginalImage []byte
	// Normalised ink per pixel.
	Image []InkPixel
	// Group id per pixel, -1 for pixels outside every group.
	IndexImage []int32
	// Decoration layers: on / off / unknown. Inert to simulation.
	Decoration [3][]int32

	LedPalette [16]uint32

	NumGroups int32
	// Count of wire groups; wire group ids precede component group ids.
	NumWireGroups int32

	// Adjacency: column g lists the groups invalidated by a change in g.
	WriteMap SparseMat

	// Group state, struct-of-arrays. See module header.
	activeInputs []int32
	visited      []uint32
	inkState     []uint8

	// Snapshot of activeInputs from the previous evaluation of each group.
	// Rising-edge detection for latches reads this.
	lastActiveInputs []int32

	// Number of in-edges per group, recorded for the all-input gates.
	inDegree []int32

	// Double-buffered event queue. Index 0 is drained, index 1 written;
	// the roles swap at every tick boundary.
	updateQ [2][]int32
	qSize   int32

	// Clock groups re-enqueue themselves; the half period is in ticks.
	ClockHalfPeriod int64
	tickNum         int64

	// Virtual memory overlay.
	Vmem            []uint32
	VmemSize        int
	Assembly        string
	AssemblySymbols map[string]int64
	VmAddr          LatchInterface
	VmData          LatchInterface
	lastVMemAddr    uint32
}

// NewProject wraps an already-decoded RGBA pixel buffer. The buffer must hold
// exactly width*height*4 bytes. Configure the latch interfaces and vmem size
// before calling Preprocess.
func NewProject(rgba []byte, width, height int) (*Project, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("openvcb: bad image dimensions %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("openvcb: image buffer holds %d bytes, want %d", len(rgba), width*height*4)
	}

	p := newEmptyProject()
	p.Width = width
	p.Height = height
	p.OriginalImage = rgba
	return p, nil
}

func newEmptyProject() *Project {
	p := &Project{
		LedPalette:      defaultLedPalette,
		ClockHalfPeriod: DEFAULT_CLOCK_PERIOD,
	}
	p.VmAddr.invalidate()
	p.VmData.invalidate()
	return p
}

func (li *LatchInterface) invalidate() {
	for i := range li.Gids {
		li.Gids[i] = -1
	}
}

// Sample returns the ink and group id at a pixel. Out-of-range positions
// report InkNone and no group.
func (p *Project) Sample(x, y int) (Ink, int32) {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return InkNone, -1
	}
	idx := y*p.Width + x
	gid := p.IndexImage[idx]
	if gid < 0 {
		return p.Image[idx].Ink, -1
	}
	return Ink(p.loadInk(gid)), gid
}

// InDegree returns the number of in-edges recorded for a group.
func (p *Project) InDegree(g int32) int32 {
	return p.inDegree[g]
}

// GroupState reports whether a group is currently active.
func (p *Project) GroupState(g int32) bool {
	return getOn(Ink(p.loadInk(g)))
}

// QueueLen returns the number of groups scheduled for the next tick.
func (p *Project) QueueLen() int {
	return int(p.qSize)
}

// TickCount returns the number of ticks advanced since preprocessing.
func (p *Project) TickCount() int64 {
	return p.tickNum
}

// Reset restores a preprocessed project to its initial simulation state
// without re-running preprocessing. Vmem contents and assembly symbols are
// preserved; the event queue is rebuilt from the intrinsically active groups.
func (p *Project) Reset() {
	for g := int32(0); g < p.NumGroups; g++ {
		p.activeInputs[g] = 0
		p.lastActiveInputs[g] = 0
		p.visited[g] = 0
		p.inkState[g] = uint8(setOff(Ink(p.inkState[g])))
	}
	p.qSize = 0
	p.tickNum = 0
	p.lastVMemAddr = 0
	p.seedInitialFrontier()
}

// seedInitialFrontier enqueues every group that is intrinsically active with
// no inputs, so the first tick drives their outputs high, plus every clock,
// which is low on tick 0 and re-enqueues itself from then on.
func (p *Project) seedInitialFrontier() {
	for g := int32(0); g < p.NumGroups; g++ {
		switch setOff(Ink(p.inkState[g])) {
		case InkNotOff, InkNorOff, InkNandOff, InkXnorOff, InkClockOff:
			p.tryEmit(g)
		}
	}
}
