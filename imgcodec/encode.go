package imgcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
)

// pngHeaderLength covers the signature and the IHDR chunk, which the encoder
// always writes first.
const pngHeaderLength = len(pngSignature) + 8 + 13 + 4

// Encode writes img to w in the format and quality given by opts, defaulting
// to lossless PNG at quality 100. For PNG the color space is recorded in an
// sRGB or gAMA chunk so that decoding can recover it.
func Encode(w io.Writer, img image.Image, colorSpace pixel.ColorSpace, opts ...Option) error {
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return err
	}

	switch o.Format {
	case FormatPNG:
		return encodePNG(w, img, colorSpace, o.Quality)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: max(o.Quality, 1)})
	case FormatGIF:
		return gif.Encode(w, img, &gif.Options{
			NumColors: gifColors(o.Quality),
			Quantizer: &quantize.MedianCutQuantizer{},
		})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, o.Format)
	}
}

func pngCompression(quality int) png.CompressionLevel {
	switch {
	case quality >= 90:
		return png.BestCompression
	case quality >= 50:
		return png.DefaultCompression
	case quality > 0:
		return png.BestSpeed
	default:
		return png.NoCompression
	}
}

// gifColors maps quality 0..100 onto a palette size of 2..256.
func gifColors(quality int) int {
	return 2 + quality*254/100
}

func encodePNG(w io.Writer, img image.Image, colorSpace pixel.ColorSpace, quality int) error {
	// PNG stores straight alpha; Premultiply on decode must give back the
	// original premultiplied bytes.
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		img, _ = pixel.Unpremultiply(img)
	}

	var buffer bytes.Buffer
	encoder := png.Encoder{CompressionLevel: pngCompression(quality)}
	if err := encoder.Encode(&buffer, img); err != nil {
		return err
	}

	data := buffer.Bytes()
	chunk := colorSpaceChunk(colorSpace)
	if chunk == nil {
		_, err := w.Write(data)
		return err
	}

	if _, err := w.Write(data[:pngHeaderLength]); err != nil {
		return err
	}
	if _, err := w.Write(chunk); err != nil {
		return err
	}
	_, err := w.Write(data[pngHeaderLength:])
	return err
}

func colorSpaceChunk(colorSpace pixel.ColorSpace) []byte {
	switch colorSpace {
	case pixel.ColorSpaceSRGB:
		return pngChunk("sRGB", []byte{0}) // perceptual rendering intent
	case pixel.ColorSpaceLinearSRGB:
		return pngChunk("gAMA", binary.BigEndian.AppendUint32(nil, pngLinearGamma))
	default:
		return nil
	}
}

func pngChunk(chunkType string, data []byte) []byte {
	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
	chunk = append(chunk, chunkType...)
	chunk = append(chunk, data...)
	return binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))
}
