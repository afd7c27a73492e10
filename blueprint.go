// blueprint.go - Clipboard blueprint decoding for openVCB

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
blueprint.go - Clipboard blueprint decoding for openVCB

Two wire formats are accepted:

  V1: the whole string is base64. The decoded buffer is a zstd frame
      (magic 0xFD2FB528, little-endian, at byte 0) followed by a 32-byte
      trailer holding width, height and the decompressed image size as
      big-endian 32-bit integers at trailer offsets 0, 4 and 8.

  V2: ASCII prefix "VCB+", remainder base64. The decoded buffer starts with
      a 17-byte header: bytes 3..8 are a truncated SHA-1 of the base64 text
      from character 12 onwards (first 12 hex characters), width and height
      are big-endian 32-bit integers at offsets 9 and 13. The header is
      followed by layer records { recordSize, layerId, imgDSize } (big
      endian) whose zstd payload begins 12 bytes in; recordSize covers the
      record header. Layer 0 is logic, layers 1 and 2 decoration on/off.

A checksum mismatch or a short buffer rejects the blueprint outright; the
project is left untouched in that case.
*/

package main

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	zstdMagic = 0xFD2FB528

	bpV2Prefix     = "VCB+"
	bpV2HeaderSize = 17 // 3 reserved + 6 checksum + 4 width + 4 height
	bpV1Trailer    = 32
)

// NewProjectFromBlueprint decodes a clipboard blueprint string into a fresh
// project. Configure latch interfaces and vmem, then call Preprocess.
func NewProjectFromBlueprint(data string) (*Project, error) {
	p := newEmptyProject()
	if err := p.ReadFromBlueprint(data); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadFromBlueprint decodes base64 blueprint data into the project's image
// buffers, dispatching on the V2 prefix.
func (p *Project) ReadFromBlueprint(data string) error {
	data = stripWhitespace(data)
	if len(data) >= len(bpV2Prefix) && data[:len(bpV2Prefix)] == bpV2Prefix {
		return p.readFromBlueprintV2(data[len(bpV2Prefix):])
	}
	return p.readFromBlueprintV1(data)
}

func (p *Project) readFromBlueprintV1(data string) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("blueprint: not base64: %w", err)
	}
	// Minimum size: zstd magic plus the trailer.
	if len(raw) <= bpV1Trailer+4 {
		return fmt.Errorf("blueprint: %d bytes is too short for a v1 blueprint", len(raw))
	}
	if binary.LittleEndian.Uint32(raw[:4]) != zstdMagic {
		return fmt.Errorf("blueprint: bad zstd magic")
	}

	trailer := raw[len(raw)-bpV1Trailer:]
	width := readBEInt(trailer, 0)
	height := readBEInt(trailer, 4)
	imgDSize := readBEInt(trailer, 8)
	if err := p.processLogicData(raw[:len(raw)-bpV1Trailer], width, height, imgDSize); err != nil {
		return err
	}
	p.Width, p.Height = width, height
	return nil
}

func (p *Project) readFromBlueprintV2(data string) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("blueprint: not base64: %w", err)
	}
	if len(raw) <= bpV2HeaderSize {
		return fmt.Errorf("blueprint: %d bytes is too short for a v2 blueprint", len(raw))
	}

	// Truncated SHA-1 over the base64 text from character 12.
	if len(data) < 12 {
		return fmt.Errorf("blueprint: truncated v2 payload")
	}
	sum := sha1.Sum([]byte(data[12:]))
	want := fmt.Sprintf("%x", sum)[:12]
	got := fmt.Sprintf("%x", raw[3:9])
	if want != got {
		return fmt.Errorf("blueprint: checksum mismatch (payload %s, computed %s)", got, want)
	}

	width := readBEInt(raw, 9)
	height := readBEInt(raw, 13)

	cursor := bpV2HeaderSize
	for cursor < len(raw) {
		if cursor+12 > len(raw) {
			return fmt.Errorf("blueprint: truncated layer record at byte %d", cursor)
		}
		recordSize := readBEInt(raw, cursor)
		layerID := readBEInt(raw, cursor+4)
		imgDSize := readBEInt(raw, cursor+8)
		if recordSize < 12 || cursor+recordSize > len(raw) {
			return fmt.Errorf("blueprint: bad layer record size %d at byte %d", recordSize, cursor)
		}
		payload := raw[cursor+12 : cursor+recordSize]

		switch layerID {
		case 0:
			if err := p.processLogicData(payload, width, height, imgDSize); err != nil {
				return err
			}
		case 1, 2:
			if err := p.processDecorationData(payload, width, height, imgDSize, layerID-1); err != nil {
				return err
			}
		}
		cursor += recordSize
	}

	p.Width, p.Height = width, height
	return nil
}

// processLogicData decompresses the logic layer into the RGBA image buffer.
func (p *Project) processLogicData(compressed []byte, width, height, imgDSize int) error {
	if width <= 0 || height <= 0 || imgDSize != width*height*4 {
		return fmt.Errorf("blueprint: logic layer claims %d bytes for %dx%d", imgDSize, width, height)
	}
	raw, err := zstdDecompress(compressed, imgDSize)
	if err != nil {
		return fmt.Errorf("blueprint: logic layer: %w", err)
	}
	p.OriginalImage = raw
	p.Image = nil
	return nil
}

// processDecorationData decompresses a decoration layer. Decoration is inert
// to simulation and kept as packed RGBA words for frontends.
func (p *Project) processDecorationData(compressed []byte, width, height, imgDSize, slot int) error {
	if width <= 0 || height <= 0 || imgDSize != width*height*4 {
		return fmt.Errorf("blueprint: decoration layer claims %d bytes for %dx%d", imgDSize, width, height)
	}
	raw, err := zstdDecompress(compressed, imgDSize)
	if err != nil {
		return fmt.Errorf("blueprint: decoration layer: %w", err)
	}
	layer := make([]int32, width*height)
	for i := range layer {
		o := i * 4
		layer[i] = int32(uint32(raw[o])<<24 | uint32(raw[o+1])<<16 | uint32(raw[o+2])<<8 | uint32(raw[o+3]))
	}
	p.Decoration[slot] = layer
	return nil
}

func zstdDecompress(compressed []byte, expect int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, make([]byte, 0, expect))
	if err != nil {
		return nil, err
	}
	if len(raw) != expect {
		return nil, fmt.Errorf("decompressed to %d bytes, want %d", len(raw), expect)
	}
	return raw, nil
}

// readBEInt reads a big-endian 32-bit integer.
func readBEInt(b []byte, off int) int {
	return int(binary.BigEndian.Uint32(b[off : off+4]))
}

// stripWhitespace removes every ASCII whitespace byte. Bytes above 0x7f are
// never treated as whitespace.
func stripWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
