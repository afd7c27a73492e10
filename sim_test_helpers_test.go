// sim_test_helpers_test.go - Shared circuit-building helpers for tests

package main

import "testing"

// circuitBuilder paints a synthetic circuit image with palette colours, so
// tests exercise the same colour classification path real images take.
type circuitBuilder struct {
	w, h int
	rgba []byte
}

func newCircuit(w, h int) *circuitBuilder {
	return &circuitBuilder{w: w, h: h, rgba: make([]byte, w*h*4)}
}

func (c *circuitBuilder) setColor(x, y int, rgba uint32) {
	o := (y*c.w + x) * 4
	c.rgba[o] = byte(rgba >> 24)
	c.rgba[o+1] = byte(rgba >> 16)
	c.rgba[o+2] = byte(rgba >> 8)
	c.rgba[o+3] = byte(rgba)
}

// set paints the off-form colour of an ink kind.
func (c *circuitBuilder) set(x, y int, ink Ink) {
	c.setColor(x, y, colorPallet[ink][0])
}

// setTrace paints a coloured trace variant.
func (c *circuitBuilder) setTrace(x, y, variant int) {
	c.setColor(x, y, traceColors[variant][0])
}

func (c *circuitBuilder) build(t testing.TB) *Project {
	t.Helper()
	p, err := NewProject(c.rgba, c.w, c.h)
	if err != nil {
		t.Fatalf("NewProject failed: %v", err)
	}
	return p
}

// compile builds the project and runs preprocessing.
func (c *circuitBuilder) compile(t testing.TB) *Project {
	t.Helper()
	p := c.build(t)
	if err := p.Preprocess(false); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return p
}

// groupAt returns the group id at a pixel, failing if it has none.
func groupAt(t testing.TB, p *Project, x, y int) int32 {
	t.Helper()
	_, gid := p.Sample(x, y)
	if gid < 0 {
		t.Fatalf("pixel (%d,%d) has no group", x, y)
	}
	return gid
}

// stateAt reports whether the group at a pixel is on.
func stateAt(t testing.TB, p *Project, x, y int) bool {
	t.Helper()
	ink, gid := p.Sample(x, y)
	if gid < 0 {
		t.Fatalf("pixel (%d,%d) has no group", x, y)
	}
	return getOn(ink)
}
