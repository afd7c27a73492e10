// ink_constants.go - Colour palette and ink name tables for openVCB

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

package main

// The published circuit palette. Compatibility with existing circuit images
// requires these values to match byte for byte; do not edit them.
//
// All colours are 0xRRGGBBAA.

// ------------------------------------------------------------------------------
// Trace Variants
// ------------------------------------------------------------------------------
// Traces come in sixteen cosmetic colours. The variant index is preserved in
// InkPixel.Meta and selects the bundle channel when the trace meets a bundle.
var traceColors = [16][2]uint32{
	// {off, on}
	{0x626262FF, 0xF5F5F5FF}, // white
	{0x661212FF, 0xFF2E2EFF}, // red
	{0x66330FFF, 0xFF7F26FF}, // orange
	{0x665C0FFF, 0xFFE626FF}, // yellow
	{0x3D660FFF, 0x99FF26FF}, // lime
	{0x0F661EFF, 0x26FF4CFF}, // green
	{0x0F6647FF, 0x26FFB2FF}, // teal
	{0x0F5C66FF, 0x26E5FFFF}, // cyan
	{0x0F2E66FF, 0x2672FFFF}, // blue
	{0x230F66FF, 0x5926FFFF}, // indigo
	{0x3D0F66FF, 0x9926FFFF}, // purple
	{0x5C0F66FF, 0xE526FFFF}, // magenta
	{0x660F47FF, 0xFF26B2FF}, // pink
	{0x660F23FF, 0xFF2659FF}, // rose
	{0x4C2A13FF, 0xBF6A30FF}, // brown
	{0x3E4348FF, 0x9CA7B4FF}, // grey
}

// ------------------------------------------------------------------------------
// Component Colours
// ------------------------------------------------------------------------------
// Off/on display colour per ink kind. Pass-through and decoration inks have a
// single colour; their on slot repeats it.
var colorPallet = [numInkTypes][2]uint32{
	InkNone:       {0x00000000, 0x00000000},
	InkTraceOff:   {0x626262FF, 0xF5F5F5FF}, // variant 0; see traceColors
	InkReadOff:    {0x123724FF, 0x2E8A5CFF},
	InkWriteOff:   {0x371247FF, 0x8A2EB2FF},
	InkCross:      {0x1F2A38FF, 0x1F2A38FF},
	InkBufferOff:  {0x3A6628FF, 0x92FF63FF},
	InkOrOff:      {0x28663EFF, 0x63FF9CFF},
	InkNandOff:    {0x664228FF, 0xFFA763FF},
	InkNotOff:     {0x662828FF, 0xFF6363FF},
	InkNorOff:     {0x662855FF, 0xFF63D4FF},
	InkAndOff:     {0x284F66FF, 0x63C6FFFF},
	InkXorOff:     {0x4F2866FF, 0xC663FFFF},
	InkXnorOff:    {0x3E2866FF, 0x9C63FFFF},
	InkClockOff:   {0x666628FF, 0xFFFF63FF},
	InkLatchOff:   {0x286660FF, 0x63FFF0FF},
	InkLedOff:     {0x404040FF, 0xFFFFFFFF},
	InkBundleOff:  {0x373737FF, 0x8A8A8AFF},
	InkFiller:     {0x14191FFF, 0x14191FFF},
	InkAnnotation: {0x3C3C3CFF, 0x3C3C3CFF},
	InkTunnel:     {0x3A2A4AFF, 0x3A2A4AFF},
}

// Default LED palette carried on every project.
var defaultLedPalette = [16]uint32{
	0x323841, 0xffffff, 0xff0000, 0x00ff00, 0x0000ff, 0xff0000, 0x00ff00, 0x0000ff,
	0xff0000, 0x00ff00, 0x0000ff, 0xff0000, 0x00ff00, 0x0000ff, 0xff0000, 0x00ff00,
}

var inkNames = [numInkTypes]string{
	InkNone:       "none",
	InkTraceOff:   "trace",
	InkReadOff:    "read",
	InkWriteOff:   "write",
	InkCross:      "cross",
	InkBufferOff:  "buffer",
	InkOrOff:      "or",
	InkNandOff:    "nand",
	InkNotOff:     "not",
	InkNorOff:     "nor",
	InkAndOff:     "and",
	InkXorOff:     "xor",
	InkXnorOff:    "xnor",
	InkClockOff:   "clock",
	InkLatchOff:   "latch",
	InkLedOff:     "led",
	InkBundleOff:  "bundle",
	InkFiller:     "filler",
	InkAnnotation: "annotation",
	InkTunnel:     "tunnel",
}

// colorToInk maps a packed RGBA colour to its normalised pixel. Built once at
// startup from the palette tables above. Pixels whose colour is not in the
// map collapse to InkNone.
var colorToInk map[uint32]InkPixel

func init() {
	colorToInk = make(map[uint32]InkPixel, 2*len(traceColors)+2*int(numInkTypes))

	for kind := InkNone + 1; kind < numInkTypes; kind++ {
		off, on := colorPallet[kind][0], colorPallet[kind][1]
		colorToInk[off] = InkPixel{Ink: kind}
		// On colours normalise to the off form as well; the initial state of
		// every group is off and power sources are detected by the
		// preprocessor, not by colour.
		if on != off {
			colorToInk[on] = InkPixel{Ink: kind}
		}
	}

	// Trace variants override the plain trace entry so the variant index
	// survives in Meta.
	for v, pair := range traceColors {
		colorToInk[pair[0]] = InkPixel{Ink: InkTraceOff, Meta: uint16(v)}
		colorToInk[pair[1]] = InkPixel{Ink: InkTraceOff, Meta: uint16(v)}
	}
}

// classifyColor normalises one RGBA pixel colour.
func classifyColor(rgba uint32) InkPixel {
	if px, ok := colorToInk[rgba]; ok {
		return px
	}
	return InkPixel{Ink: InkNone}
}
