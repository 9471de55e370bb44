package imgcodec

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/eak1mov/go-tileedit/pixel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Decoded is one decoded image along with what its encoding revealed.
type Decoded struct {
	Image      image.Image
	Format     Format
	ColorSpace pixel.ColorSpace
	Length     int // encoded size in bytes
}

// Decode reads exactly one encoded image from r and decodes it.
func Decode(r io.Reader) (*Decoded, error) {
	frame, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(frame)
}

type decoder struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

var decoders = map[Format]decoder{
	FormatPNG:  {png.Decode, png.DecodeConfig},
	FormatJPEG: {jpeg.Decode, jpeg.DecodeConfig},
	FormatGIF:  {gif.Decode, gif.DecodeConfig},
	FormatBMP:  {bmp.Decode, bmp.DecodeConfig},
	FormatWEBP: {webp.Decode, webp.DecodeConfig},
}

// DecodeFrame decodes an image previously read by ReadFrame.
func DecodeFrame(frame *Frame) (*Decoded, error) {
	d, ok := decoders[frame.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, frame.Format)
	}

	img, err := d.decode(bytes.NewReader(frame.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrFormat, frame.Format, err)
	}

	return &Decoded{
		Image:      img,
		Format:     frame.Format,
		ColorSpace: frame.ColorSpace,
		Length:     len(frame.Data),
	}, nil
}

// DecodeConfig returns the dimensions and color model of a framed image
// without decoding its pixels.
func DecodeConfig(frame *Frame) (image.Config, error) {
	d, ok := decoders[frame.Format]
	if !ok {
		return image.Config{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, frame.Format)
	}
	config, err := d.decodeConfig(bytes.NewReader(frame.Data))
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %v: %w", ErrFormat, frame.Format, err)
	}
	return config, nil
}
