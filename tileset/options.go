package tileset

import "github.com/eak1mov/go-tileedit/pixel"

type options struct {
	format     pixel.Format
	alpha      pixel.AlphaMode
	colorSpace pixel.ColorSpace
}

// Option configures a tileset at construction, or a single tile when passed
// to an add or insert operation. Per-tile options never change the tileset
// defaults.
type Option func(*options)

func WithPixelFormat(format pixel.Format) Option {
	return func(o *options) {
		o.format = format
	}
}

func WithAlphaMode(alpha pixel.AlphaMode) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithColorSpace sets the color space. ColorSpaceUnknown on a tileset means
// the color space is adopted from the first appended tile.
func WithColorSpace(colorSpace pixel.ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = colorSpace
	}
}
