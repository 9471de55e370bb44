// Package tile provides the Tile value and common tile container interfaces.
package tile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

var (
	ErrInvalidDimension = errors.New("tileedit: invalid tile dimension")
	ErrDecode           = errors.New("tileedit: cannot decode tile")
)

// Tile owns one pixel buffer tagged with its pixel format, alpha mode and
// color space. Its shape never changes after construction; only the pixel
// contents may be edited through Image.
type Tile struct {
	img        pixel.DrawImage
	format     pixel.Format
	alpha      pixel.AlphaMode
	colorSpace pixel.ColorSpace
}

// New allocates a tile with a zeroed buffer. Unknown alpha mode resolves to
// premultiplied, unknown color space to sRGB. Gray8 tiles are always opaque.
func New(width, height int, format pixel.Format, alpha pixel.AlphaMode, colorSpace pixel.ColorSpace) (*Tile, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	switch {
	case format == pixel.FormatGray8:
		alpha = pixel.AlphaOpaque
	case alpha == pixel.AlphaUnknown:
		alpha = pixel.AlphaPremultiplied
	}
	if colorSpace == pixel.ColorSpaceUnknown {
		colorSpace = pixel.ColorSpaceSRGB
	}

	img, err := pixel.NewImage(format, alpha, width, height)
	if err != nil {
		return nil, err
	}

	return &Tile{img: img, format: format, alpha: alpha, colorSpace: colorSpace}, nil
}

// Decode reads exactly one encoded image from r and returns it as a tile.
// Shape, layout and color space are inferred from the encoded data.
func Decode(r io.Reader) (*Tile, error) {
	decoded, err := imgcodec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromImage(decoded.Image, decoded.ColorSpace), nil
}

// FromImage adopts img as a tile buffer. Native buffers (see pixel.Classify)
// are kept without copying, rebased to a zero origin; any other image is
// copied into an RGBA buffer.
func FromImage(img image.Image, colorSpace pixel.ColorSpace) *Tile {
	if colorSpace == pixel.ColorSpaceUnknown {
		colorSpace = pixel.ColorSpaceSRGB
	}

	format, alpha, ok := pixel.Classify(img)
	if !ok {
		format, alpha = pixel.FormatRgba8, pixel.AlphaPremultiplied
		if isOpaque(img) {
			alpha = pixel.AlphaOpaque
		}
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return &Tile{img: dst, format: format, alpha: alpha, colorSpace: colorSpace}
	}

	return &Tile{img: rebase(img), format: format, alpha: alpha, colorSpace: colorSpace}
}

// rebase returns a view of a native buffer whose bounds start at the origin.
func rebase(img image.Image) pixel.DrawImage {
	b := img.Bounds()
	if b.Min == (image.Point{}) || b.Empty() {
		return img.(pixel.DrawImage)
	}
	// Pix offsets are relative to Rect.Min, so shifting Rect is enough.
	r := b.Sub(b.Min)
	switch m := img.(type) {
	case *image.RGBA:
		dup := *m
		dup.Rect = r
		return &dup
	case *image.NRGBA:
		dup := *m
		dup.Rect = r
		return &dup
	case *image.RGBA64:
		dup := *m
		dup.Rect = r
		return &dup
	case *image.NRGBA64:
		dup := *m
		dup.Rect = r
		return &dup
	case *image.Gray:
		dup := *m
		dup.Rect = r
		return &dup
	case *image.Paletted:
		dup := *m
		dup.Rect = r
		return &dup
	default:
		panic(fmt.Sprintf("tile: rebase of non-native image %T", img))
	}
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// Convert returns a copy of t in the given format and alpha mode. Converting
// to an indexed format builds a palette with a median cut quantizer.
func (t *Tile) Convert(format pixel.Format, alpha pixel.AlphaMode) (*Tile, error) {
	dst, err := New(t.Width(), t.Height(), format, alpha, t.colorSpace)
	if err != nil {
		return nil, err
	}
	if paletted, ok := dst.img.(*image.Paletted); ok {
		q := quantize.MedianCutQuantizer{}
		paletted.Palette = q.Quantize(make(color.Palette, 0, format.PaletteSize()), t.img)
	}
	draw.Draw(dst.img.(draw.Image), dst.img.Bounds(), t.img, image.Point{}, draw.Src)
	return dst, nil
}

// Encode writes the tile through the image codec, by default as PNG at
// quality 100.
func (t *Tile) Encode(w io.Writer, opts ...imgcodec.Option) error {
	return imgcodec.Encode(w, t.img, t.colorSpace, opts...)
}

func (t *Tile) Width() int { return t.img.Bounds().Dx() }

func (t *Tile) Height() int { return t.img.Bounds().Dy() }

func (t *Tile) Size() image.Point { return t.img.Bounds().Size() }

func (t *Tile) Format() pixel.Format { return t.format }

func (t *Tile) AlphaMode() pixel.AlphaMode { return t.alpha }

func (t *Tile) ColorSpace() pixel.ColorSpace { return t.colorSpace }

// Image returns the owned pixel buffer. Writes through it edit the tile.
func (t *Tile) Image() pixel.DrawImage { return t.img }

// Retag changes the format and alpha tags of t when its buffer can hold
// them as they are, without converting pixels. Indexed formats also need the
// buffer palette to fit.
func (t *Tile) Retag(format pixel.Format, alpha pixel.AlphaMode) bool {
	if !retaggable(t.img, format, alpha) || (alpha == pixel.AlphaOpaque && !isOpaque(t.img)) {
		return false
	}
	t.format, t.alpha = format, alpha
	return true
}

func retaggable(img image.Image, format pixel.Format, alpha pixel.AlphaMode) bool {
	switch m := img.(type) {
	case *image.RGBA, *image.RGBA64:
		want := pixel.FormatRgba8
		if _, wide := m.(*image.RGBA64); wide {
			want = pixel.FormatRgba16
		}
		return format == want && (alpha == pixel.AlphaPremultiplied || alpha == pixel.AlphaOpaque)
	case *image.NRGBA, *image.NRGBA64:
		want := pixel.FormatRgba8
		if _, wide := m.(*image.NRGBA64); wide {
			want = pixel.FormatRgba16
		}
		return format == want && (alpha == pixel.AlphaUnpremultiplied || alpha == pixel.AlphaOpaque)
	case *image.Gray:
		return format == pixel.FormatGray8 && alpha == pixel.AlphaOpaque
	case *image.Paletted:
		return format.Indexed() && len(m.Palette) <= format.PaletteSize() && alpha != pixel.AlphaUnknown
	default:
		return false
	}
}

// Restore gives a decoded tile the format and alpha mode it was saved with.
// The tile is retagged in place when its buffer holds them as they are; a
// straight alpha buffer decoded for a premultiplied tile is premultiplied
// into a new tile. Otherwise the tile keeps its decoded alpha mode and takes
// format if it can.
func (t *Tile) Restore(format pixel.Format, alpha pixel.AlphaMode) *Tile {
	if t.Retag(format, alpha) {
		return t
	}
	if alpha == pixel.AlphaPremultiplied && t.alpha == pixel.AlphaUnpremultiplied && t.format == format {
		if img, ok := pixel.Premultiply(t.img); ok {
			return &Tile{img: img, format: format, alpha: alpha, colorSpace: t.colorSpace}
		}
	}
	t.Retag(format, t.alpha)
	return t
}
