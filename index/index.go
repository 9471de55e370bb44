// Package index provides a flat binary index of tile locations.
package index

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/tile"
)

// Item represents a single record in the index, mapping a tile index to the
// location (Offset, Length) of its encoded image in a tileset file.
// It is designed to be easily portable to other languages and utilities.
type Item struct {
	Index  uint32
	Format uint32 // imgcodec.Format
	Width  uint32
	Height uint32
	Length uint32
	Offset uint64
}

func (i Item) ImageFormat() imgcodec.Format {
	return imgcodec.Format(i.Format)
}

func (i Item) TileLocation() tile.Location {
	return tile.Location{Offset: i.Offset, Length: uint64(i.Length)}
}

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadAll(indexData []byte) ([]Item, error) {
	count := len(indexData) / binary.Size(Item{})
	items := make([]Item, count)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}
