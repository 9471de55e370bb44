package tsf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/index"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tsf/spec"
)

// ScanIndex reads the header from r and frames every tile without decoding
// its pixels. The returned items locate each encoded image in the stream.
func ScanIndex(r io.Reader) (*spec.Header, []index.Item, error) {
	header, err := spec.ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}

	items := make([]index.Item, 0, min(int(header.TileCount), 1<<16))
	offset := uint64(spec.HeaderLength)
	for i := range int(header.TileCount) {
		frame, err := imgcodec.ReadFrame(r)
		if err != nil {
			return nil, nil, fmt.Errorf("tile %d: %w: %w", i, tile.ErrDecode, err)
		}
		config, err := imgcodec.DecodeConfig(frame)
		if err != nil {
			return nil, nil, fmt.Errorf("tile %d: %w: %w", i, tile.ErrDecode, err)
		}
		items = append(items, index.Item{
			Index:  uint32(i),
			Format: uint32(frame.Format),
			Width:  uint32(config.Width),
			Height: uint32(config.Height),
			Length: uint32(len(frame.Data)),
			Offset: offset,
		})
		offset += uint64(len(frame.Data))
	}
	return header, items, nil
}

// ReadTileAt decodes the tile stored at location.
func ReadTileAt(ra io.ReaderAt, location tile.Location) (*tile.Tile, error) {
	section := io.NewSectionReader(ra, int64(location.Offset), int64(location.Length))
	return tile.Decode(bufio.NewReader(section))
}

// FileReader gives random access to the tiles of a tileset file.
type FileReader struct {
	file   *os.File
	header *spec.Header
	items  []index.Item
}

// NewFileReader opens filePath and scans its tile locations.
func NewFileReader(filePath string) (*FileReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	header, items, err := ScanIndex(bufio.NewReader(file))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &FileReader{file: file, header: header, items: items}, nil
}

func (r *FileReader) Close() error {
	return r.file.Close()
}

func (r *FileReader) Header() spec.Header {
	return *r.header
}

// Items returns the index of the file in tile order.
func (r *FileReader) Items() []index.Item {
	return r.items
}

// ReadTile decodes the tile at index, restored to the pixel format and alpha
// mode of the header. A missing index yields nil and no error.
func (r *FileReader) ReadTile(tileIndex int) (*tile.Tile, error) {
	if tileIndex < 0 || tileIndex >= len(r.items) {
		return nil, nil
	}
	t, err := ReadTileAt(r.file, r.items[tileIndex].TileLocation())
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", tileIndex, err)
	}
	return t.Restore(r.header.PixelFormat, r.header.AlphaMode), nil
}

// VisitTiles decodes the tiles in index order.
func (r *FileReader) VisitTiles(visitor func(int, *tile.Tile) error) error {
	for i := range r.items {
		t, err := r.ReadTile(i)
		if err != nil {
			return err
		}
		if err := visitor(i, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *FileReader) VisitLocations(visitor func(int, tile.Location) error) error {
	for _, item := range r.items {
		if err := visitor(int(item.Index), item.TileLocation()); err != nil {
			return err
		}
	}
	return nil
}
