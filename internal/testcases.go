// Package internal holds tileset fixtures shared by package tests.
package internal

import (
	"image"
	"image/color"
	"iter"
	"testing"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
)

// Paint fills t with a pattern derived from seed. Direct color tiles get
// opaque pixels unless translucent is set.
func Paint(t *tile.Tile, seed int, translucent bool) {
	img := t.Image()
	b := img.Bounds()
	alpha := uint8(0xff)
	if translucent {
		alpha = 0x90
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := seed*31 + x*7 + y*13
			if paletted, ok := img.(*image.Paletted); ok {
				paletted.SetColorIndex(x, y, uint8(v%len(paletted.Palette)))
				continue
			}
			img.Set(x, y, color.NRGBA{uint8(v), uint8(v * 3), uint8(seed * 50), alpha})
		}
	}
}

type testCase struct {
	name        string
	newTileset  func() *tileset.Tileset
	sizes       []image.Point // nil for fixed tilesets
	count       int
	translucent bool
}

var testCases = []testCase{
	{name: "empty", newTileset: func() *tileset.Tileset { return tileset.NewFixed(8, 8, pixel.FormatRgba8) }},
	{name: "empty-variable", newTileset: func() *tileset.Tileset { return tileset.NewVariable(pixel.FormatGray8) }},
	{
		name:       "rgba8",
		newTileset: func() *tileset.Tileset { return tileset.NewFixed(8, 6, pixel.FormatRgba8) },
		count:      4,
	},
	{
		name: "rgba8-unpremultiplied",
		newTileset: func() *tileset.Tileset {
			return tileset.NewFixed(5, 5, pixel.FormatRgba8, tileset.WithAlphaMode(pixel.AlphaUnpremultiplied))
		},
		count:       3,
		translucent: true,
	},
	{
		name:        "rgba8-premultiplied-translucent",
		newTileset:  func() *tileset.Tileset { return tileset.NewFixed(5, 4, pixel.FormatRgba8) },
		count:       3,
		translucent: true,
	},
	{
		name:       "rgba16",
		newTileset: func() *tileset.Tileset { return tileset.NewFixed(4, 4, pixel.FormatRgba16) },
		count:      2,
	},
	{
		name:        "rgba16-premultiplied-translucent",
		newTileset:  func() *tileset.Tileset { return tileset.NewFixed(3, 3, pixel.FormatRgba16) },
		count:       2,
		translucent: true,
	},
	{
		name: "rgba16-unpremultiplied",
		newTileset: func() *tileset.Tileset {
			return tileset.NewFixed(3, 2, pixel.FormatRgba16, tileset.WithAlphaMode(pixel.AlphaUnpremultiplied))
		},
		count:       2,
		translucent: true,
	},
	{
		// Gray tiles are opaque whatever the tileset alpha mode says.
		name:       "gray8",
		newTileset: func() *tileset.Tileset { return tileset.NewFixed(6, 3, pixel.FormatGray8) },
		count:      3,
	},
	{
		name:       "indexed8",
		newTileset: func() *tileset.Tileset { return tileset.NewFixed(4, 8, pixel.FormatIndexed8) },
		count:      2,
	},
	{
		name:       "indexed6",
		newTileset: func() *tileset.Tileset { return tileset.NewFixed(7, 7, pixel.FormatIndexed6) },
		count:      5,
	},
	{
		name:       "variable",
		newTileset: func() *tileset.Tileset { return tileset.NewVariable(pixel.FormatRgba8) },
		sizes:      []image.Point{{1, 1}, {3, 2}, {5, 9}, {2, 2}},
	},
	{
		name: "linear",
		newTileset: func() *tileset.Tileset {
			return tileset.NewFixed(3, 3, pixel.FormatRgba8, tileset.WithColorSpace(pixel.ColorSpaceLinearSRGB))
		},
		count: 2,
	},
}

// TilesetCases yields named tilesets covering every pixel format, translucent
// pixels in premultiplied and straight alpha, and both dimension modes. Pixel content
// and alpha tags survive lossless encoding exactly.
func TilesetCases(t *testing.T) iter.Seq2[string, *tileset.Tileset] {
	return func(yield func(string, *tileset.Tileset) bool) {
		t.Helper()

		for _, tc := range testCases {
			ts := tc.newTileset()
			add := func(i int) {
				var tl *tile.Tile
				var err error
				if tc.sizes != nil {
					tl, err = ts.AddSizedTile(tc.sizes[i].X, tc.sizes[i].Y)
				} else {
					tl, err = ts.AddTile()
				}
				if err != nil {
					t.Fatalf("%s: add tile %d: %v", tc.name, i, err)
				}
				Paint(tl, i, tc.translucent)
			}
			for i := range tc.count {
				add(i)
			}
			for i := range tc.sizes {
				add(i)
			}

			if !yield(tc.name, ts) {
				return
			}
		}
	}
}

// Pixels returns the raw pixel bytes of a native buffer.
func Pixels(img image.Image) []byte {
	switch m := img.(type) {
	case *image.RGBA:
		return m.Pix
	case *image.NRGBA:
		return m.Pix
	case *image.RGBA64:
		return m.Pix
	case *image.NRGBA64:
		return m.Pix
	case *image.Gray:
		return m.Pix
	case *image.Paletted:
		return m.Pix
	default:
		return nil
	}
}

// RequireEqual fails t unless got holds the same shape, defaults and pixels
// as want.
func RequireEqual(t *testing.T, want, got *tileset.Tileset) {
	t.Helper()

	if got.Mode() != want.Mode() {
		t.Fatalf("Mode() = %v, want = %v", got.Mode(), want.Mode())
	}
	if got.Format() != want.Format() {
		t.Errorf("Format() = %v, want = %v", got.Format(), want.Format())
	}
	if got.AlphaMode() != want.AlphaMode() {
		t.Errorf("AlphaMode() = %v, want = %v", got.AlphaMode(), want.AlphaMode())
	}
	if got.ColorSpace() != want.ColorSpace() {
		t.Errorf("ColorSpace() = %v, want = %v", got.ColorSpace(), want.ColorSpace())
	}
	if got.Len() != want.Len() {
		t.Fatalf("Len() = %v, want = %v", got.Len(), want.Len())
	}

	for i, wantTile := range want.Tiles() {
		gotTile, err := got.Tile(i)
		if err != nil {
			t.Fatalf("Tile(%d) failed: %v", i, err)
		}
		if gotTile.Size() != wantTile.Size() {
			t.Errorf("tile %d: Size() = %v, want = %v", i, gotTile.Size(), wantTile.Size())
			continue
		}
		if gotTile.Format() != wantTile.Format() {
			t.Errorf("tile %d: Format() = %v, want = %v", i, gotTile.Format(), wantTile.Format())
		}
		if gotTile.AlphaMode() != wantTile.AlphaMode() {
			t.Errorf("tile %d: AlphaMode() = %v, want = %v", i, gotTile.AlphaMode(), wantTile.AlphaMode())
		}
		if string(Pixels(gotTile.Image())) != string(Pixels(wantTile.Image())) {
			t.Errorf("tile %d: pixel data mismatch", i)
		}
	}
}
