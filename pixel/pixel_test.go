package pixel_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/stretchr/testify/require"
)

func TestFormatTable(t *testing.T) {
	for _, tc := range []struct {
		Format      pixel.Format
		Layout      pixel.Layout
		PaletteSize int
	}{
		{pixel.FormatRgba8, pixel.LayoutRGBA32, 0},
		{pixel.FormatRgba16, pixel.LayoutRGBA64, 0},
		{pixel.FormatGray8, pixel.LayoutGray8, 0},
		{pixel.FormatIndexed8, pixel.LayoutPaletted256, 256},
		{pixel.FormatIndexed6, pixel.LayoutPaletted64, 64},
	} {
		t.Run(tc.Format.String(), func(t *testing.T) {
			require.True(t, tc.Format.Valid())
			require.Equal(t, tc.Layout, tc.Format.Layout())
			require.Equal(t, tc.PaletteSize, tc.Format.PaletteSize())

			parsed, err := pixel.ParseFormat(tc.Format.String())
			require.NoError(t, err)
			require.Equal(t, tc.Format, parsed)
		})
	}

	require.False(t, pixel.Format(5).Valid())
	require.False(t, pixel.Format(-1).Valid())
	require.Equal(t, pixel.LayoutUnknown, pixel.Format(42).Layout())
	require.Len(t, pixel.Formats(), 5)
}

func TestOrdinals(t *testing.T) {
	require.EqualValues(t, 0, pixel.FormatRgba8)
	require.EqualValues(t, 4, pixel.FormatIndexed6)
	require.EqualValues(t, 1, pixel.AlphaOpaque)
	require.EqualValues(t, 2, pixel.AlphaPremultiplied)
	require.EqualValues(t, 3, pixel.AlphaUnpremultiplied)
}

func TestNewImage(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Format pixel.Format
		Alpha  pixel.AlphaMode
		Want   image.Image
	}{
		{"RGBA", pixel.FormatRgba8, pixel.AlphaPremultiplied, &image.RGBA{}},
		{"NRGBA", pixel.FormatRgba8, pixel.AlphaUnpremultiplied, &image.NRGBA{}},
		{"RGBA64", pixel.FormatRgba16, pixel.AlphaOpaque, &image.RGBA64{}},
		{"NRGBA64", pixel.FormatRgba16, pixel.AlphaUnpremultiplied, &image.NRGBA64{}},
		{"Gray", pixel.FormatGray8, pixel.AlphaPremultiplied, &image.Gray{}},
		{"Paletted", pixel.FormatIndexed8, pixel.AlphaPremultiplied, &image.Paletted{}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			img, err := pixel.NewImage(tc.Format, tc.Alpha, 3, 2)
			require.NoError(t, err)
			require.IsType(t, tc.Want, img)
			require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

			format, _, ok := pixel.Classify(img)
			require.True(t, ok)
			require.Equal(t, tc.Format, format)
		})
	}

	_, err := pixel.NewImage(pixel.Format(9), pixel.AlphaOpaque, 1, 1)
	require.Error(t, err)
}

func TestIndexedPalettes(t *testing.T) {
	img, err := pixel.NewImage(pixel.FormatIndexed6, pixel.AlphaOpaque, 2, 2)
	require.NoError(t, err)
	paletted := img.(*image.Paletted)
	require.Len(t, paletted.Palette, 64)

	format, alpha, ok := pixel.Classify(paletted)
	require.True(t, ok)
	require.Equal(t, pixel.FormatIndexed6, format)
	require.Equal(t, pixel.AlphaOpaque, alpha)

	// Mutating a default palette copy must not leak into the next buffer.
	paletted.Palette[0] = paletted.Palette[63]
	require.NotEqual(t, paletted.Palette[0], pixel.DefaultPalette(pixel.FormatIndexed6)[0])

	require.Len(t, pixel.DefaultPalette(pixel.FormatIndexed8), 256)
	require.Nil(t, pixel.DefaultPalette(pixel.FormatRgba8))
}

func TestPremultiplyRoundTrip(t *testing.T) {
	// Every valid premultiplied color: channel value c with alpha a >= c.
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for a := range 256 {
		for c := range 256 {
			v := uint8(min(c, a))
			img.SetRGBA(c, a, color.RGBA{v, v / 2, v / 3, uint8(a)})
		}
	}

	straight, ok := pixel.Unpremultiply(img)
	require.True(t, ok)
	nrgba, ok := straight.(*image.NRGBA)
	require.True(t, ok)

	restored, ok := pixel.Premultiply(nrgba)
	require.True(t, ok)
	require.Equal(t, img.Pix, restored.(*image.RGBA).Pix)

	// Premultiply agrees with the conversion image.RGBA applies on Set.
	for _, p := range []image.Point{{10, 40}, {1, 4}, {200, 255}, {0, 0}, {77, 90}} {
		want := color.RGBAModel.Convert(nrgba.NRGBAAt(p.X, p.Y))
		require.Equal(t, want, restored.(*image.RGBA).RGBAAt(p.X, p.Y), "%v", p)
	}
}

func TestPremultiplyRoundTrip16(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			a := uint16(y*1031 + 7)
			c := uint16(uint32(a) * uint32(x) / 63)
			img.SetRGBA64(x, y, color.RGBA64{c, c / 2, c / 5, a})
		}
	}
	img.SetRGBA64(0, 0, color.RGBA64{0, 0, 0, 0})
	img.SetRGBA64(1, 0, color.RGBA64{0x1234, 0x10, 0xffff, 0xffff})

	straight, ok := pixel.Unpremultiply(img)
	require.True(t, ok)
	restored, ok := pixel.Premultiply(straight)
	require.True(t, ok)
	require.Equal(t, img.Pix, restored.(*image.RGBA64).Pix)

	nrgba64 := straight.(*image.NRGBA64)
	for _, p := range []image.Point{{5, 3}, {63, 20}, {31, 63}} {
		want := color.RGBA64Model.Convert(nrgba64.NRGBA64At(p.X, p.Y))
		require.Equal(t, want, restored.(*image.RGBA64).RGBA64At(p.X, p.Y), "%v", p)
	}
}

func TestPremultiplyOtherImages(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	_, ok := pixel.Unpremultiply(gray)
	require.False(t, ok)
	_, ok = pixel.Premultiply(gray)
	require.False(t, ok)
}
