// ink_test.go - Ink taxonomy tests

package main

import "testing"

// TestInkOnOffAlignment verifies the load-bearing bit layout: every on form
// is its off form with bit 7 set, so masking with 0x7f normalises.
func TestInkOnOffAlignment(t *testing.T) {
	pairs := [][2]Ink{
		{InkTraceOff, InkTrace},
		{InkReadOff, InkRead},
		{InkWriteOff, InkWrite},
		{InkBufferOff, InkBuffer},
		{InkOrOff, InkOr},
		{InkNandOff, InkNand},
		{InkNotOff, InkNot},
		{InkNorOff, InkNor},
		{InkAndOff, InkAnd},
		{InkXorOff, InkXor},
		{InkXnorOff, InkXnor},
		{InkClockOff, InkClock},
		{InkLatchOff, InkLatch},
		{InkLedOff, InkLed},
		{InkBundleOff, InkBundle},
	}
	for _, pair := range pairs {
		off, on := pair[0], pair[1]
		if on != off|0x80 {
			t.Fatalf("%s: on form 0x%02X, want 0x%02X", off, uint8(on), uint8(off)|0x80)
		}
		if setOff(on) != off {
			t.Fatalf("setOff(0x%02X) = 0x%02X, want 0x%02X", uint8(on), uint8(setOff(on)), uint8(off))
		}
		if setOn(off, true) != on || setOn(on, false) != off {
			t.Fatalf("setOn round trip failed for %s", off)
		}
		if getOn(off) || !getOn(on) {
			t.Fatalf("getOn inconsistent for %s", off)
		}
	}
}

// TestInvalidMarkersShareBaseKind verifies the invalid placement markers
// occupy the unused on slots of their base kinds.
func TestInvalidMarkersShareBaseKind(t *testing.T) {
	cases := [][2]Ink{
		{InkInvalidCross, InkCross},
		{InkInvalidFiller, InkFiller},
		{InkInvalidAnnotation, InkAnnotation},
		{InkInvalidTunnel, InkTunnel},
	}
	for _, c := range cases {
		if setOff(c[0]) != c[1] {
			t.Fatalf("setOff(0x%02X) = 0x%02X, want 0x%02X", uint8(c[0]), uint8(setOff(c[0])), uint8(c[1]))
		}
	}
}

// TestClassifyColorRoundTrip verifies the published palette classifies back
// to the ink that owns the colour, in off form.
func TestClassifyColorRoundTrip(t *testing.T) {
	for kind := InkNone + 1; kind < numInkTypes; kind++ {
		for _, col := range colorPallet[kind] {
			px := classifyColor(col)
			if px.Ink != kind {
				t.Fatalf("colour 0x%08X classified as %s, want %s", col, px.Ink, kind)
			}
			if getOn(px.Ink) {
				t.Fatalf("colour 0x%08X classified to an on form", col)
			}
		}
	}
}

// TestClassifyTraceVariants verifies the sixteen trace colours keep their
// variant index in Meta.
func TestClassifyTraceVariants(t *testing.T) {
	for v, pair := range traceColors {
		for _, col := range pair {
			px := classifyColor(col)
			if px.Ink != InkTraceOff {
				t.Fatalf("trace colour 0x%08X classified as %s", col, px.Ink)
			}
			if px.Meta != uint16(v) {
				t.Fatalf("trace colour 0x%08X got variant %d, want %d", col, px.Meta, v)
			}
		}
	}
}

// TestClassifyUnknownColor verifies reserved and unknown colours collapse to
// InkNone.
func TestClassifyUnknownColor(t *testing.T) {
	for _, col := range []uint32{0x00000000, 0x12345678, 0xDEADBEEF} {
		if px := classifyColor(col); px.Ink != InkNone {
			t.Fatalf("colour 0x%08X classified as %s, want none", col, px.Ink)
		}
	}
}

func TestInkStrings(t *testing.T) {
	cases := map[Ink]string{
		InkTraceOff:     "trace",
		InkTrace:        "trace (on)",
		InkNandOff:      "nand",
		InkInvalidCross: "invalid cross",
		InkNone:         "none",
	}
	for ink, want := range cases {
		if got := ink.String(); got != want {
			t.Fatalf("Ink(0x%02X).String() = %q, want %q", uint8(ink), got, want)
		}
	}
}
