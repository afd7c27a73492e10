// vcbdump prints the structure of a circuit blueprint file: format version,
// checksum state, dimensions and per-layer sizes. It is a debugging aid for
// blueprint interchange and deliberately knows nothing about simulation.
package main

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const v2Prefix = "VCB+"

var layerNames = map[int]string{
	0: "logic",
	1: "decoration on",
	2: "decoration off",
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: vcbdump <blueprint-file>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcbdump: %v\n", err)
		os.Exit(1)
	}
	data := stripSpace(string(raw))

	if strings.HasPrefix(data, v2Prefix) {
		err = dumpV2(data[len(v2Prefix):])
	} else {
		err = dumpV1(data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcbdump: %v\n", err)
		os.Exit(1)
	}
}

func dumpV1(data string) error {
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("not base64: %w", err)
	}
	if len(buf) <= 36 {
		return fmt.Errorf("%d bytes is too short for a v1 blueprint", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[:4]) != 0xFD2FB528 {
		return fmt.Errorf("bad zstd magic")
	}

	trailer := buf[len(buf)-32:]
	width := beInt(trailer, 0)
	height := beInt(trailer, 4)
	imgDSize := beInt(trailer, 8)

	fmt.Println("format:   v1")
	fmt.Printf("size:     %dx%d\n", width, height)
	return dumpLayer("logic", buf[:len(buf)-32], imgDSize)
}

func dumpV2(data string) error {
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("not base64: %w", err)
	}
	if len(buf) <= 17 {
		return fmt.Errorf("%d bytes is too short for a v2 blueprint", len(buf))
	}

	sum := sha1.Sum([]byte(data[12:]))
	want := fmt.Sprintf("%x", sum)[:12]
	got := fmt.Sprintf("%x", buf[3:9])
	checksum := "ok"
	if want != got {
		checksum = fmt.Sprintf("MISMATCH (payload %s, computed %s)", got, want)
	}

	fmt.Println("format:   v2")
	fmt.Printf("checksum: %s\n", checksum)
	fmt.Printf("size:     %dx%d\n", beInt(buf, 9), beInt(buf, 13))

	cursor := 17
	for cursor < len(buf) {
		if cursor+12 > len(buf) {
			return fmt.Errorf("truncated layer record at byte %d", cursor)
		}
		recordSize := beInt(buf, cursor)
		layerID := beInt(buf, cursor+4)
		imgDSize := beInt(buf, cursor+8)
		if recordSize < 12 || cursor+recordSize > len(buf) {
			return fmt.Errorf("bad layer record size %d at byte %d", recordSize, cursor)
		}
		name := layerNames[layerID]
		if name == "" {
			name = fmt.Sprintf("unknown (%d)", layerID)
		}
		if err := dumpLayer(name, buf[cursor+12:cursor+recordSize], imgDSize); err != nil {
			return err
		}
		cursor += recordSize
	}
	return nil
}

func dumpLayer(name string, compressed []byte, imgDSize int) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("layer %s: %w", name, err)
	}
	status := ""
	if len(raw) != imgDSize {
		status = fmt.Sprintf("  SIZE MISMATCH (claims %d)", imgDSize)
	}
	fmt.Printf("layer:    %-15s %7d compressed, %8d raw%s\n", name, len(compressed), len(raw), status)
	return nil
}

func beInt(b []byte, off int) int {
	return int(binary.BigEndian.Uint32(b[off : off+4]))
}

func stripSpace(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
