package tsf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/eak1mov/go-tileedit/tsf/spec"
)

// newTileset returns an empty tileset described by header. Its color space
// is left unknown so that the first appended tile provides it.
func newTileset(header *spec.Header) *tileset.Tileset {
	colorSpace := pixel.ColorSpaceSRGB
	if header.TileCount > 0 {
		colorSpace = pixel.ColorSpaceUnknown
	}
	opts := []tileset.Option{
		tileset.WithAlphaMode(header.AlphaMode),
		tileset.WithColorSpace(colorSpace),
	}
	return tileset.NewWithMode(header.Mode(), header.PixelFormat, opts...)
}

// Load reads a tileset from r. It reads the header and exactly the number of
// encoded images the header announces, nothing past them.
func Load(r io.Reader, opts ...Option) (*tileset.Tileset, error) {
	o := newOptions(opts)

	header, err := spec.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("tileedit: read header",
		slog.Int("major", int(header.MajorVersion)),
		slog.Int("minor", int(header.MinorVersion)),
		slog.Int("tiles", int(header.TileCount)))

	ts := newTileset(header)
	for i := range int(header.TileCount) {
		t, err := tile.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		if err := ts.AppendDecoded(t); err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
	}

	o.logger.Debug("tileedit: done!", slog.String("colorSpace", ts.ColorSpace().String()))
	return ts, nil
}

// LoadFile reads a tileset file.
func LoadFile(filePath string, opts ...Option) (ts *tileset.Tileset, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
		if err != nil {
			ts = nil
		}
	}()

	return Load(bufio.NewReader(file), opts...)
}
