package tsdb

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/eak1mov/go-tileedit/tsf/spec"
)

// Metadata names reserved for the tileset layout. Other names are free for
// callers (see WithMetadata).
const (
	KeyVersion       = "version"
	KeyDimensionMode = "dimension_mode"
	KeyTileWidth     = "tile_width"
	KeyTileHeight    = "tile_height"
	KeyPixelFormat   = "pixel_format"
	KeyAlphaMode     = "alpha_mode"
	KeyColorSpace    = "color_space"
	KeyImageFormat   = "image_format"
)

var ErrInvalidMetadata = errors.New("tileedit: invalid tileset metadata")

// Layout is the part of a tileset stored in the metadata table.
type Layout struct {
	Mode        tileset.Mode
	Format      pixel.Format
	AlphaMode   pixel.AlphaMode
	ColorSpace  pixel.ColorSpace
	ImageFormat imgcodec.Format
}

// LayoutOf describes ts. Tiles are stored in imageFormat.
func LayoutOf(ts *tileset.Tileset, imageFormat imgcodec.Format) Layout {
	return Layout{
		Mode:        ts.Mode(),
		Format:      ts.Format(),
		AlphaMode:   ts.AlphaMode(),
		ColorSpace:  ts.ColorSpace(),
		ImageFormat: imageFormat,
	}
}

func (l Layout) metadata() map[string]string {
	m := map[string]string{
		KeyVersion:       fmt.Sprintf("%d.%d", spec.MajorVersion, spec.MinorVersion),
		KeyDimensionMode: l.Mode.Kind().String(),
		KeyPixelFormat:   l.Format.String(),
		KeyAlphaMode:     l.AlphaMode.String(),
		KeyColorSpace:    l.ColorSpace.String(),
		KeyImageFormat:   l.ImageFormat.String(),
	}
	if fixed, ok := l.Mode.(tileset.Fixed); ok {
		m[KeyTileWidth] = strconv.Itoa(fixed.Width)
		m[KeyTileHeight] = strconv.Itoa(fixed.Height)
	}
	return m
}

// ParseLayout reads the layout back from metadata, rejecting versions newer
// than the one this package writes.
func ParseLayout(metadata map[string]string) (Layout, error) {
	var major, minor int32
	if _, err := fmt.Sscanf(metadata[KeyVersion], "%d.%d", &major, &minor); err != nil {
		return Layout{}, fmt.Errorf("%w: version %q", ErrInvalidMetadata, metadata[KeyVersion])
	}
	if err := spec.CheckVersion(major, minor); err != nil {
		return Layout{}, err
	}

	var l Layout
	var err error
	switch kind := metadata[KeyDimensionMode]; kind {
	case tileset.ModeVariable.String():
		l.Mode = tileset.Variable{}
	case tileset.ModeFixed.String():
		width, werr := strconv.Atoi(metadata[KeyTileWidth])
		height, herr := strconv.Atoi(metadata[KeyTileHeight])
		if werr != nil || herr != nil || width < 0 || height < 0 {
			return Layout{}, fmt.Errorf("%w: tile size %q x %q", ErrInvalidMetadata, metadata[KeyTileWidth], metadata[KeyTileHeight])
		}
		l.Mode = tileset.Fixed{Width: width, Height: height}
	default:
		return Layout{}, fmt.Errorf("%w: dimension mode %q", ErrInvalidMetadata, kind)
	}

	if l.Format, err = pixel.ParseFormat(metadata[KeyPixelFormat]); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	if l.AlphaMode, err = pixel.ParseAlphaMode(metadata[KeyAlphaMode]); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	if l.ColorSpace, err = pixel.ParseColorSpace(metadata[KeyColorSpace]); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	if l.ImageFormat, err = imgcodec.ParseFormat(metadata[KeyImageFormat]); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	return l, nil
}

// NewTileset returns an empty tileset with the layout.
func (l Layout) NewTileset() *tileset.Tileset {
	return tileset.NewWithMode(l.Mode, l.Format,
		tileset.WithAlphaMode(l.AlphaMode),
		tileset.WithColorSpace(l.ColorSpace))
}
