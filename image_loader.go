// image_loader.go - Circuit image and file loading for openVCB

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

// Circuit loading from disk. PNG and BMP images decode straight into the
// RGBA pixel buffer the preprocessor consumes; anything else is treated as
// blueprint text.

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// LoadCircuitImage decodes a PNG or BMP circuit image into a fresh project.
func LoadCircuitImage(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		return nil, fmt.Errorf("openvcb: unsupported image format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("openvcb: decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgba := make([]byte, w*h*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rgba[i] = byte(r >> 8)
			rgba[i+1] = byte(g >> 8)
			rgba[i+2] = byte(b >> 8)
			rgba[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return NewProject(rgba, w, h)
}

// ReadFromVCB loads a circuit from any supported file: a PNG or BMP image,
// or a text file holding a clipboard blueprint.
func ReadFromVCB(path string) (*Project, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp":
		return LoadCircuitImage(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewProjectFromBlueprint(string(data))
}
