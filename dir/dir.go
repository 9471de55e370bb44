package dir

import (
	"errors"
	"fmt"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
)

var ErrNoTiles = errors.New("tileedit: no tile files found")

// Export writes every tile of ts to its own file.
func Export(ts *tileset.Tileset, filePattern string, opts ...imgcodec.Option) error {
	writer, err := NewWriter(filePattern, opts...)
	if err != nil {
		return err
	}
	if err := ts.VisitTiles(writer.WriteTile); err != nil {
		return err
	}
	return writer.Finalize()
}

// Import reads the tile files matching filePattern into a variable tileset.
// Files are taken in ascending index order; gaps in the numbering close up.
// Unless opts say otherwise the color space comes from the first tile.
func Import(filePattern string, format pixel.Format, opts ...tileset.Option) (*tileset.Tileset, error) {
	return importTiles(filePattern, func(*tile.Tile) *tileset.Tileset {
		return tileset.NewVariable(format, withDecodedColorSpace(opts)...)
	})
}

// ImportFixed reads the tile files matching filePattern into a fixed tileset
// sized by the first tile. Every other tile must have the same size.
func ImportFixed(filePattern string, format pixel.Format, opts ...tileset.Option) (*tileset.Tileset, error) {
	return importTiles(filePattern, func(first *tile.Tile) *tileset.Tileset {
		return tileset.NewFixed(first.Width(), first.Height(), format, withDecodedColorSpace(opts)...)
	})
}

func importTiles(filePattern string, newTileset func(first *tile.Tile) *tileset.Tileset) (*tileset.Tileset, error) {
	reader, err := NewReader(filePattern)
	if err != nil {
		return nil, err
	}

	var ts *tileset.Tileset
	err = reader.VisitTiles(func(index int, t *tile.Tile) error {
		if ts == nil {
			ts = newTileset(t)
		}
		if err := ts.AppendDecoded(t); err != nil {
			return fmt.Errorf("tile %d: %w", index, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, ErrNoTiles
	}
	return ts, nil
}

func withDecodedColorSpace(opts []tileset.Option) []tileset.Option {
	return append([]tileset.Option{tileset.WithColorSpace(pixel.ColorSpaceUnknown)}, opts...)
}
