// gorder_test.go - Cache relabeling tests

package main

import "testing"

// TestGorderPermutationIsBijection verifies the relabeling maps every old
// id to exactly one new id and respects the partition boundary.
func TestGorderPermutationIsBijection(t *testing.T) {
	edges := []edge{{0, 4}, {4, 1}, {1, 5}, {5, 2}, {2, 6}, {3, 6}}
	const numGroups, numWires = 7, 4

	perm := gorderPermutation(numGroups, numWires, edges)
	seen := make([]bool, numGroups)
	for old, now := range perm {
		if now < 0 || now >= numGroups {
			t.Fatalf("perm[%d] = %d out of range", old, now)
		}
		if seen[now] {
			t.Fatalf("new id %d assigned twice", now)
		}
		seen[now] = true
		if (int32(old) < numWires) != (now < numWires) {
			t.Fatalf("perm[%d] = %d crosses the wire/component partition", old, now)
		}
	}
}

// TestGorderPreservesSemantics verifies a relabeled circuit simulates
// identically, observed per pixel.
func TestGorderPreservesSemantics(t *testing.T) {
	build := func(useGorder bool) *Project {
		c := newCircuit(5, 3)
		c.set(0, 0, InkLatchOff)
		c.set(1, 0, InkReadOff)
		c.set(2, 0, InkNandOff)
		c.set(2, 1, InkNandOff)
		c.set(2, 2, InkNandOff)
		c.set(1, 2, InkReadOff)
		c.set(0, 2, InkLatchOff)
		c.set(3, 1, InkWriteOff)
		c.set(4, 1, InkTraceOff)
		p := c.build(t)
		if err := p.Preprocess(useGorder); err != nil {
			t.Fatalf("Preprocess(%v) failed: %v", useGorder, err)
		}
		return p
	}

	plain := build(false)
	ordered := build(true)
	if plain.NumGroups != ordered.NumGroups || plain.NumWireGroups != ordered.NumWireGroups {
		t.Fatalf("group counts differ under Gorder: %d/%d vs %d/%d",
			plain.NumGroups, plain.NumWireGroups, ordered.NumGroups, ordered.NumWireGroups)
	}

	script := func(p *Project) {
		p.Tick(4, 0)
		p.ToggleLatch(0, 0)
		p.Tick(4, 0)
		p.ToggleLatch(0, 2)
		p.Tick(4, 0)
	}
	script(plain)
	script(ordered)

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			inkA, gidA := plain.Sample(x, y)
			inkB, gidB := ordered.Sample(x, y)
			if (gidA < 0) != (gidB < 0) {
				t.Fatalf("pixel (%d,%d): grouping differs under Gorder", x, y)
			}
			if gidA >= 0 && inkA != inkB {
				t.Fatalf("pixel (%d,%d): state %s vs %s under Gorder", x, y, inkA, inkB)
			}
		}
	}
}
