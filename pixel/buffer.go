package pixel

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
)

// Palette64 is the default palette of FormatIndexed6: every combination of
// four levels per RGB channel, red varying slowest.
var Palette64 = func() color.Palette {
	levels := [4]uint8{0x00, 0x55, 0xaa, 0xff}
	p := make(color.Palette, 0, 64)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p = append(p, color.RGBA{r, g, b, 0xff})
			}
		}
	}
	return p
}()

// DefaultPalette returns a copy of the palette new buffers of f start with,
// or nil for direct color formats.
func DefaultPalette(f Format) color.Palette {
	switch f.Layout() {
	case LayoutPaletted256:
		return append(color.Palette(nil), palette.Plan9...)
	case LayoutPaletted64:
		return append(color.Palette(nil), Palette64...)
	default:
		return nil
	}
}

// NewImage allocates a zeroed buffer of the native layout of f.
// Unpremultiplied alpha selects the non-premultiplied buffer variant for
// direct color layouts; other alpha modes use the premultiplied one.
func NewImage(f Format, alpha AlphaMode, width, height int) (DrawImage, error) {
	r := image.Rect(0, 0, width, height)
	switch f.Layout() {
	case LayoutRGBA32:
		if alpha == AlphaUnpremultiplied {
			return image.NewNRGBA(r), nil
		}
		return image.NewRGBA(r), nil
	case LayoutRGBA64:
		if alpha == AlphaUnpremultiplied {
			return image.NewNRGBA64(r), nil
		}
		return image.NewRGBA64(r), nil
	case LayoutGray8:
		return image.NewGray(r), nil
	case LayoutPaletted256, LayoutPaletted64:
		return image.NewPaletted(r, DefaultPalette(f)), nil
	default:
		return nil, fmt.Errorf("pixel: unsupported format %v", f)
	}
}

// DrawImage is an image whose pixels can be modified.
type DrawImage interface {
	image.Image
	Set(x, y int, c color.Color)
}

// Classify reports the format and alpha mode matching the concrete type of
// a native buffer. ok is false for any other image type.
func Classify(img image.Image) (f Format, alpha AlphaMode, ok bool) {
	switch m := img.(type) {
	case *image.RGBA:
		return FormatRgba8, AlphaPremultiplied, true
	case *image.NRGBA:
		return FormatRgba8, AlphaUnpremultiplied, true
	case *image.RGBA64:
		return FormatRgba16, AlphaPremultiplied, true
	case *image.NRGBA64:
		return FormatRgba16, AlphaUnpremultiplied, true
	case *image.Gray:
		return FormatGray8, AlphaOpaque, true
	case *image.Paletted:
		f := FormatIndexed8
		if len(m.Palette) <= FormatIndexed6.PaletteSize() {
			f = FormatIndexed6
		}
		return f, paletteAlpha(m.Palette), true
	default:
		return 0, AlphaUnknown, false
	}
}

func paletteAlpha(p color.Palette) AlphaMode {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return AlphaUnpremultiplied
		}
	}
	return AlphaOpaque
}
