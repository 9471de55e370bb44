package tile_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"maps"
	"testing"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	for _, format := range pixel.Formats() {
		t.Run(format.String(), func(t *testing.T) {
			tl, err := tile.New(3, 5, format, pixel.AlphaUnknown, pixel.ColorSpaceUnknown)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got, want := tl.Size(), image.Pt(3, 5); got != want {
				t.Errorf("Size() = %v, want = %v", got, want)
			}
			if got, want := tl.Format(), format; got != want {
				t.Errorf("Format() = %v, want = %v", got, want)
			}
			wantAlpha := pixel.AlphaPremultiplied
			if format == pixel.FormatGray8 {
				wantAlpha = pixel.AlphaOpaque
			}
			if got, want := tl.AlphaMode(), wantAlpha; got != want {
				t.Errorf("AlphaMode() = %v, want = %v", got, want)
			}
			if got, want := tl.ColorSpace(), pixel.ColorSpaceSRGB; got != want {
				t.Errorf("ColorSpace() = %v, want = %v", got, want)
			}
		})
	}
}

func TestNewInvalidDimension(t *testing.T) {
	for _, size := range []image.Point{{0, 1}, {1, 0}, {-1, 4}, {0, 0}} {
		_, err := tile.New(size.X, size.Y, pixel.FormatRgba8, pixel.AlphaPremultiplied, pixel.ColorSpaceSRGB)
		if !errors.Is(err, tile.ErrInvalidDimension) {
			t.Errorf("New(%v) error = %v, want = %v", size, err, tile.ErrInvalidDimension)
		}
	}
}

func gradient(t *testing.T, width, height int, alpha pixel.AlphaMode) *tile.Tile {
	t.Helper()
	tl, err := tile.New(width, height, pixel.FormatRgba8, alpha, pixel.ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for y := range height {
		for x := range width {
			tl.Image().Set(x, y, color.NRGBA{uint8(x * 20), uint8(y * 20), 0x40, 0x80})
		}
	}
	return tl
}

func TestEncodeDecode(t *testing.T) {
	for _, alpha := range []pixel.AlphaMode{pixel.AlphaUnpremultiplied, pixel.AlphaPremultiplied} {
		t.Run(alpha.String(), func(t *testing.T) {
			tl := gradient(t, 7, 4, alpha)

			var buffer bytes.Buffer
			if err := tl.Encode(&buffer); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			buffer.WriteString("next")

			decoded, err := tile.Decode(&buffer)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got, want := buffer.String(), "next"; got != want {
				t.Errorf("remaining after Decode = %q, want = %q", got, want)
			}
			if got, want := decoded.Format(), pixel.FormatRgba8; got != want {
				t.Errorf("Format() = %v, want = %v", got, want)
			}
			// PNG carries straight alpha only.
			if got, want := decoded.AlphaMode(), pixel.AlphaUnpremultiplied; got != want {
				t.Errorf("AlphaMode() = %v, want = %v", got, want)
			}

			restored := decoded.Restore(pixel.FormatRgba8, alpha)
			if got, want := restored.AlphaMode(), alpha; got != want {
				t.Errorf("Restore: AlphaMode() = %v, want = %v", got, want)
			}
			if got, want := pixels(restored), pixels(tl); !cmp.Equal(got, want) {
				t.Errorf("pixel data mismatch:\n got %v\nwant %v", got, want)
			}
		})
	}
}

func pixels(tl *tile.Tile) []uint8 {
	switch m := tl.Image().(type) {
	case *image.RGBA:
		return m.Pix
	case *image.NRGBA:
		return m.Pix
	default:
		return nil
	}
}

func TestRestorePremultiplied(t *testing.T) {
	tl, err := tile.New(2, 1, pixel.FormatRgba8, pixel.AlphaPremultiplied, pixel.ColorSpaceLinearSRGB)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rgba := tl.Image().(*image.RGBA)
	rgba.SetRGBA(0, 0, color.RGBA{10, 20, 30, 40})
	rgba.SetRGBA(1, 0, color.RGBA{1, 2, 3, 4})

	var buffer bytes.Buffer
	if err := tl.Encode(&buffer); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := tile.Decode(&buffer)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	restored := decoded.Restore(pixel.FormatRgba8, pixel.AlphaPremultiplied)
	got, ok := restored.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("Restore: Image() is %T, want *image.RGBA", restored.Image())
	}
	if diff := cmp.Diff(rgba.Pix, got.Pix); diff != "" {
		t.Errorf("pixel data mismatch (-want +got):\n%s", diff)
	}
	if got, want := restored.ColorSpace(), pixel.ColorSpaceLinearSRGB; got != want {
		t.Errorf("ColorSpace() = %v, want = %v", got, want)
	}

	// Translucent pixels cannot be tagged opaque; the decoded mode stays.
	kept := decoded.Restore(pixel.FormatRgba8, pixel.AlphaOpaque)
	if got, want := kept.AlphaMode(), pixel.AlphaUnpremultiplied; got != want {
		t.Errorf("Restore(Opaque): AlphaMode() = %v, want = %v", got, want)
	}
}

func TestGrayIsOpaque(t *testing.T) {
	tl, err := tile.New(2, 2, pixel.FormatGray8, pixel.AlphaPremultiplied, pixel.ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got, want := tl.AlphaMode(), pixel.AlphaOpaque; got != want {
		t.Errorf("AlphaMode() = %v, want = %v", got, want)
	}

	var buffer bytes.Buffer
	if err := tl.Encode(&buffer); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := tile.Decode(&buffer)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got, want := decoded.AlphaMode(), tl.AlphaMode(); got != want {
		t.Errorf("decoded AlphaMode() = %v, want = %v", got, want)
	}
}

func TestEncodeJPEGQuality(t *testing.T) {
	tl := gradient(t, 16, 16, pixel.AlphaOpaque)

	var low, high bytes.Buffer
	if err := tl.Encode(&low, imgcodec.WithFormat(imgcodec.FormatJPEG), imgcodec.WithQuality(5)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := tl.Encode(&high, imgcodec.WithFormat(imgcodec.FormatJPEG), imgcodec.WithQuality(100)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 5 encodes to %d bytes, quality 100 to %d bytes", low.Len(), high.Len())
	}

	decoded, err := tile.Decode(&high)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got, want := decoded.Size(), tl.Size(); got != want {
		t.Errorf("Size() = %v, want = %v", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	var buffer bytes.Buffer
	if err := gradient(t, 4, 4, pixel.AlphaUnpremultiplied).Encode(&buffer); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	truncated := buffer.Bytes()[:buffer.Len()/2]

	_, err := tile.Decode(bytes.NewReader(truncated))
	if !errors.Is(err, tile.ErrDecode) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode(truncated) error = %v", err)
	}

	_, err = tile.Decode(bytes.NewReader([]byte("garbage!")))
	if !errors.Is(err, tile.ErrDecode) || !errors.Is(err, imgcodec.ErrFormat) {
		t.Errorf("Decode(garbage) error = %v", err)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	src.SetNRGBA(10, 10, color.NRGBA{1, 2, 3, 4})

	tl := tile.FromImage(src, pixel.ColorSpaceLinearSRGB)
	if got, want := tl.Image().Bounds(), image.Rect(0, 0, 4, 2); got != want {
		t.Errorf("Bounds() = %v, want = %v", got, want)
	}
	if got, want := tl.AlphaMode(), pixel.AlphaUnpremultiplied; got != want {
		t.Errorf("AlphaMode() = %v, want = %v", got, want)
	}
	if got, want := tl.Image().At(0, 0), (color.NRGBA{1, 2, 3, 4}); got != want {
		t.Errorf("At(0, 0) = %v, want = %v", got, want)
	}
	if got, want := tl.ColorSpace(), pixel.ColorSpaceLinearSRGB; got != want {
		t.Errorf("ColorSpace() = %v, want = %v", got, want)
	}

	ycbcr := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	tl = tile.FromImage(ycbcr, pixel.ColorSpaceUnknown)
	if got, want := tl.Format(), pixel.FormatRgba8; got != want {
		t.Errorf("Format() = %v, want = %v", got, want)
	}
	if got, want := tl.AlphaMode(), pixel.AlphaOpaque; got != want {
		t.Errorf("AlphaMode() = %v, want = %v", got, want)
	}
	if got, want := tl.ColorSpace(), pixel.ColorSpaceSRGB; got != want {
		t.Errorf("ColorSpace() = %v, want = %v", got, want)
	}
}

func TestConvertIndexed(t *testing.T) {
	tl := gradient(t, 8, 8, pixel.AlphaUnpremultiplied)

	converted, err := tl.Convert(pixel.FormatIndexed6, pixel.AlphaUnpremultiplied)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	paletted, ok := converted.Image().(*image.Paletted)
	if !ok {
		t.Fatalf("Convert produced %T", converted.Image())
	}
	if n := len(paletted.Palette); n == 0 || n > 64 {
		t.Errorf("palette has %d colors", n)
	}
	if got, want := converted.Size(), tl.Size(); got != want {
		t.Errorf("Size() = %v, want = %v", got, want)
	}
}

func TestRetag(t *testing.T) {
	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), pixel.DefaultPalette(pixel.FormatIndexed6))
	tl := tile.FromImage(paletted, pixel.ColorSpaceSRGB)
	if got, want := tl.Format(), pixel.FormatIndexed6; got != want {
		t.Fatalf("Format() = %v, want = %v", got, want)
	}
	if !tl.Retag(pixel.FormatIndexed8, pixel.AlphaOpaque) {
		t.Errorf("Retag(Indexed8) failed")
	}
	if tl.Retag(pixel.FormatRgba8, pixel.AlphaOpaque) {
		t.Errorf("Retag(Rgba8) of a paletted buffer succeeded")
	}
	if got, want := tl.Format(), pixel.FormatIndexed8; got != want {
		t.Errorf("Format() = %v, want = %v", got, want)
	}

	rgba := gradient(t, 2, 2, pixel.AlphaPremultiplied)
	if rgba.Retag(pixel.FormatRgba8, pixel.AlphaOpaque) {
		t.Errorf("Retag(Opaque) of a translucent buffer succeeded")
	}
}

type sliceVisitor []*tile.Tile

func (s sliceVisitor) VisitTiles(visitor func(int, *tile.Tile) error) error {
	for i, t := range s {
		if err := visitor(i, t); err != nil {
			return err
		}
	}
	return nil
}

func TestIterTiles(t *testing.T) {
	tiles := sliceVisitor{
		gradient(t, 1, 1, pixel.AlphaOpaque),
		gradient(t, 2, 2, pixel.AlphaOpaque),
		gradient(t, 3, 3, pixel.AlphaOpaque),
	}

	got := maps.Collect(tile.IterTiles(tiles))
	if len(got) != len(tiles) {
		t.Fatalf("IterTiles yielded %d tiles, want %d", len(got), len(tiles))
	}
	for i, tl := range tiles {
		if got[i] != tl {
			t.Errorf("IterTiles[%d] mismatch", i)
		}
	}

	for i := range tile.IterTiles(tiles) {
		if i > 0 {
			t.Fatalf("iteration continued after break")
		}
		break
	}
}
