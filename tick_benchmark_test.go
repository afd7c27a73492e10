// tick_benchmark_test.go - Tick engine benchmarks

package main

import "testing"

// benchChain builds a clock feeding a ripple of buffer stages:
// clock -> [write, trace, read, buffer] x stages.
func benchChain(b *testing.B, stages int) *Project {
	b.Helper()
	c := newCircuit(1+stages*4, 1)
	c.set(0, 0, InkClockOff)
	for s := 0; s < stages; s++ {
		x := 1 + s*4
		c.set(x, 0, InkWriteOff)
		c.set(x+1, 0, InkTraceOff)
		c.set(x+2, 0, InkReadOff)
		c.set(x+3, 0, InkBufferOff)
	}
	p := c.compile(b)
	p.ClockHalfPeriod = int64(stages + 4)
	return p
}

func BenchmarkTickRipple(b *testing.B) {
	p := benchChain(b, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Tick(1, 0)
	}
}

func BenchmarkPreprocess(b *testing.B) {
	c := newCircuit(256, 2)
	for x := 0; x < 256; x += 4 {
		c.set(x, 0, InkReadOff)
		c.set(x+1, 0, InkXorOff)
		c.set(x+2, 0, InkWriteOff)
		c.set(x+3, 0, InkTraceOff)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := NewProject(c.rgba, c.w, c.h)
		if err != nil {
			b.Fatalf("NewProject failed: %v", err)
		}
		if err := p.Preprocess(false); err != nil {
			b.Fatalf("Preprocess failed: %v", err)
		}
	}
}
