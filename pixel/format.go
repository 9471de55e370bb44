// Package pixel provides the pixel format catalog shared by tiles and tilesets.
//
// Every logical Format maps to exactly one native Layout, the Go image buffer
// type used to hold its pixels. The mapping is a static table.
package pixel

import (
	"fmt"
	"strings"
)

// Format is a logical pixel format. Its ordinal is persisted in tileset files.
type Format int32

const (
	FormatRgba8 Format = iota
	FormatRgba16
	FormatGray8
	FormatIndexed8
	FormatIndexed6

	formatCount
)

// Layout is the native buffer layout backing a Format.
type Layout uint8

const (
	LayoutUnknown     Layout = iota
	LayoutRGBA32             // *image.RGBA or *image.NRGBA
	LayoutRGBA64             // *image.RGBA64 or *image.NRGBA64
	LayoutGray8              // *image.Gray
	LayoutPaletted256        // *image.Paletted, up to 256 colors
	LayoutPaletted64         // *image.Paletted, up to 64 colors
)

type formatInfo struct {
	name          string
	layout        Layout
	paletteSize   int
	bytesPerPixel int
}

var formatTable = [formatCount]formatInfo{
	FormatRgba8:    {name: "rgba8", layout: LayoutRGBA32, bytesPerPixel: 4},
	FormatRgba16:   {name: "rgba16", layout: LayoutRGBA64, bytesPerPixel: 8},
	FormatGray8:    {name: "gray8", layout: LayoutGray8, bytesPerPixel: 1},
	FormatIndexed8: {name: "indexed8", layout: LayoutPaletted256, paletteSize: 256, bytesPerPixel: 1},
	FormatIndexed6: {name: "indexed6", layout: LayoutPaletted64, paletteSize: 64, bytesPerPixel: 1},
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f >= 0 && f < formatCount
}

// Layout returns the native layout for f, or LayoutUnknown.
func (f Format) Layout() Layout {
	if !f.Valid() {
		return LayoutUnknown
	}
	return formatTable[f].layout
}

// PaletteSize returns the maximum palette length of an indexed format and 0
// for direct color formats.
func (f Format) PaletteSize() int {
	if !f.Valid() {
		return 0
	}
	return formatTable[f].paletteSize
}

// Indexed reports whether f stores palette indices.
func (f Format) Indexed() bool {
	return f.PaletteSize() > 0
}

func (f Format) BytesPerPixel() int {
	if !f.Valid() {
		return 0
	}
	return formatTable[f].bytesPerPixel
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int32(f))
	}
	return formatTable[f].name
}

// Formats returns all known formats in ordinal order.
func Formats() []Format {
	formats := make([]Format, 0, formatCount)
	for f := range formatCount {
		formats = append(formats, f)
	}
	return formats
}

// ParseFormat parses a format name as returned by Format.String.
func ParseFormat(s string) (Format, error) {
	for f, info := range formatTable {
		if strings.EqualFold(s, info.name) {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("pixel: unknown format %q", s)
}
