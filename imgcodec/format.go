// Package imgcodec is the image codec boundary of the tile editor: it encodes
// one image in a chosen format and quality, and reads exactly one encoded
// image back from a stream.
//
// Encoded images are self-delimiting: ReadFrame walks the container structure
// of the format (PNG chunks, JPEG markers, GIF blocks, BMP and RIFF sizes) and
// never consumes bytes past the end of the image. This is what lets a tileset
// file store images back to back without length prefixes.
package imgcodec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an encoded image format. Ordinals follow the encoded image format
// numbering used by tileset metadata.
type Format int32

const (
	FormatBMP  Format = 0
	FormatGIF  Format = 1
	FormatJPEG Format = 3
	FormatPNG  Format = 4
	FormatWEBP Format = 6
)

var (
	ErrFormat            = errors.New("imgcodec: invalid image data")
	ErrUnsupportedFormat = errors.New("imgcodec: unsupported image format")
)

var formatNames = map[Format]string{
	FormatBMP:  "bmp",
	FormatGIF:  "gif",
	FormatJPEG: "jpeg",
	FormatPNG:  "png",
	FormatWEBP: "webp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// CanEncode reports whether images can be written in format f.
func (f Format) CanEncode() bool {
	return f.Valid() && f != FormatWEBP
}

// Ext returns the conventional file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat parses a format name such as "png" or "jpg".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	if s == "jpg" {
		return FormatJPEG, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath deduces the format from the extension of filePath.
func FormatFromPath(filePath string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(filePath), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: no extension in %q", ErrUnsupportedFormat, filePath)
	}
	return ParseFormat(ext)
}

// Options controls encoding. The zero value is not meaningful; start from
// DefaultOptions.
type Options struct {
	Format  Format
	Quality int // 0..100, 100 is best
}

// DefaultOptions is lossless PNG at quality 100.
func DefaultOptions() Options {
	return Options{Format: FormatPNG, Quality: 100}
}

type Option func(*Options)

func WithFormat(format Format) Option {
	return func(o *Options) { o.Format = format }
}

func WithQuality(quality int) Option {
	return func(o *Options) { o.Quality = quality }
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate reports whether o describes an encodable format and quality.
func (o Options) Validate() error {
	if !o.Format.CanEncode() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, o.Format)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("imgcodec: quality %d out of range [0, 100]", o.Quality)
	}
	return nil
}
