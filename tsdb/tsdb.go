package tsdb

import (
	"errors"
	"fmt"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
)

// Save writes ts to a new database at filePath, encoding tiles in
// imageFormat.
func Save(filePath string, ts *tileset.Tileset, imageFormat imgcodec.Format, opts ...WriterOption) (err error) {
	writer, err := NewWriter(filePath, LayoutOf(ts, imageFormat), opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	if err := ts.VisitTiles(writer.WriteTile); err != nil {
		return err
	}
	return writer.Finalize()
}

// Load reads a whole tileset from the database at filePath. Tile indices
// must be contiguous from 0.
func Load(filePath string) (ts *tileset.Tileset, err error) {
	reader, err := NewReader(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, reader.Close())
		if err != nil {
			ts = nil
		}
	}()

	layout, err := reader.ReadLayout()
	if err != nil {
		return nil, err
	}

	ts = layout.NewTileset()
	err = reader.VisitTiles(func(index int, t *tile.Tile) error {
		if index != ts.Len() {
			return fmt.Errorf("%w: tile %d follows %d tiles", tileset.ErrIndexOutOfRange, index, ts.Len())
		}
		return ts.AppendDecoded(t)
	})
	if err != nil {
		return nil, err
	}
	return ts, nil
}
