// Package tileset provides Tileset, an ordered collection of tiles sharing
// format defaults and a dimension mode.
//
// A Tileset is not safe for concurrent use; callers serialize access.
package tileset

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"slices"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
)

var (
	ErrInvalidMode     = errors.New("tileedit: operation not allowed in this dimension mode")
	ErrIndexOutOfRange = errors.New("tileedit: tile index out of range")
	ErrTileOwned       = errors.New("tileedit: tile already belongs to the tileset")
)

// Tileset exclusively owns an ordered sequence of tiles. Indices are always
// 0..Len()-1; failed operations leave the tileset unchanged.
type Tileset struct {
	mode       Mode
	format     pixel.Format
	alpha      pixel.AlphaMode
	colorSpace pixel.ColorSpace
	tiles      []*tile.Tile
}

func newTileset(mode Mode, format pixel.Format, opts []Option) *Tileset {
	o := options{
		format:     format,
		alpha:      pixel.AlphaPremultiplied,
		colorSpace: pixel.ColorSpaceSRGB,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tileset{
		mode:       mode,
		format:     o.format,
		alpha:      o.alpha,
		colorSpace: o.colorSpace,
	}
}

// NewFixed returns an empty tileset whose tiles are all width x height.
// Alpha mode defaults to premultiplied and color space to sRGB.
func NewFixed(width, height int, format pixel.Format, opts ...Option) *Tileset {
	return newTileset(Fixed{Width: width, Height: height}, format, opts)
}

// NewVariable returns an empty tileset whose tiles are sized one by one.
func NewVariable(format pixel.Format, opts ...Option) *Tileset {
	return newTileset(Variable{}, format, opts)
}

// NewWithMode returns an empty tileset in the given dimension mode.
func NewWithMode(mode Mode, format pixel.Format, opts ...Option) *Tileset {
	if mode == nil {
		mode = Fixed{}
	}
	return newTileset(mode, format, opts)
}

// New returns an empty fixed 0x0 RGBA tileset.
func New() *Tileset {
	return NewFixed(0, 0, pixel.FormatRgba8)
}

func (ts *Tileset) Mode() Mode { return ts.mode }

func (ts *Tileset) Format() pixel.Format { return ts.format }

func (ts *Tileset) AlphaMode() pixel.AlphaMode { return ts.alpha }

func (ts *Tileset) ColorSpace() pixel.ColorSpace { return ts.colorSpace }

// TileWidth returns the width of every tile of a fixed tileset and 0 for a
// variable one.
func (ts *Tileset) TileWidth() int {
	if m, ok := ts.mode.(Fixed); ok {
		return m.Width
	}
	return 0
}

// TileHeight returns the height of every tile of a fixed tileset and 0 for a
// variable one.
func (ts *Tileset) TileHeight() int {
	if m, ok := ts.mode.(Fixed); ok {
		return m.Height
	}
	return 0
}

func (ts *Tileset) Len() int { return len(ts.tiles) }

func (ts *Tileset) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, limit)
	}
	return nil
}

func (ts *Tileset) Tile(index int) (*tile.Tile, error) {
	if err := ts.checkIndex(index, len(ts.tiles)); err != nil {
		return nil, err
	}
	return ts.tiles[index], nil
}

// Tiles returns an iterator over the tiles in display order.
func (ts *Tileset) Tiles() iter.Seq2[int, *tile.Tile] {
	return slices.All(ts.tiles)
}

// VisitTiles calls visitor for every tile in display order.
func (ts *Tileset) VisitTiles(visitor func(int, *tile.Tile) error) error {
	for i, t := range ts.tiles {
		if err := visitor(i, t); err != nil {
			return err
		}
	}
	return nil
}

// IndexOf returns the position of t, or -1 if t is not in the tileset.
func (ts *Tileset) IndexOf(t *tile.Tile) int {
	return slices.Index(ts.tiles, t)
}

// tileSize checks the dimension mode against the add path once and returns
// the size of the tile to create.
func (ts *Tileset) tileSize(size image.Point, sized bool) (image.Point, error) {
	switch m := ts.mode.(type) {
	case Fixed:
		if sized {
			return image.Point{}, fmt.Errorf("%w: explicit tile size in %v tileset", ErrInvalidMode, m)
		}
		return image.Pt(m.Width, m.Height), nil
	case Variable:
		if !sized {
			return image.Point{}, fmt.Errorf("%w: tile size required in %v tileset", ErrInvalidMode, m)
		}
		return size, nil
	default:
		return image.Point{}, fmt.Errorf("%w: %v", ErrInvalidMode, ts.mode)
	}
}

func (ts *Tileset) insert(index int, size image.Point, sized bool, opts []Option) (*tile.Tile, error) {
	size, err := ts.tileSize(size, sized)
	if err != nil {
		return nil, err
	}
	if err := ts.checkIndex(index, len(ts.tiles)+1); err != nil {
		return nil, err
	}

	o := options{format: ts.format, alpha: ts.alpha, colorSpace: ts.colorSpace}
	for _, opt := range opts {
		opt(&o)
	}

	t, err := tile.New(size.X, size.Y, o.format, o.alpha, o.colorSpace)
	if err != nil {
		return nil, err
	}
	ts.tiles = slices.Insert(ts.tiles, index, t)
	return t, nil
}

// AddTile appends a new tile of the fixed tile size. Options override the
// tileset format, alpha mode and color space for this tile only.
func (ts *Tileset) AddTile(opts ...Option) (*tile.Tile, error) {
	return ts.insert(len(ts.tiles), image.Point{}, false, opts)
}

// AddSizedTile appends a new width x height tile to a variable tileset.
func (ts *Tileset) AddSizedTile(width, height int, opts ...Option) (*tile.Tile, error) {
	return ts.insert(len(ts.tiles), image.Pt(width, height), true, opts)
}

// InsertTile inserts a new tile of the fixed tile size at index, shifting
// later tiles right. index may equal Len().
func (ts *Tileset) InsertTile(index int, opts ...Option) (*tile.Tile, error) {
	return ts.insert(index, image.Point{}, false, opts)
}

// InsertSizedTile inserts a new width x height tile into a variable tileset.
func (ts *Tileset) InsertSizedTile(index, width, height int, opts ...Option) (*tile.Tile, error) {
	return ts.insert(index, image.Pt(width, height), true, opts)
}

// Append adds an existing tile, typically a decoded one, at the end. A
// fixed tileset only accepts tiles of its exact size. A tileset with an
// unknown color space adopts the color space of the tile.
func (ts *Tileset) Append(t *tile.Tile) error {
	if t == nil {
		return errors.New("tileedit: nil tile")
	}
	if m, ok := ts.mode.(Fixed); ok && (t.Width() != m.Width || t.Height() != m.Height) {
		return fmt.Errorf("%w: %v tile in %v tileset", tile.ErrInvalidDimension, t.Size(), m)
	}
	if ts.IndexOf(t) >= 0 {
		return ErrTileOwned
	}
	if ts.colorSpace == pixel.ColorSpaceUnknown {
		ts.colorSpace = t.ColorSpace()
	}
	ts.tiles = append(ts.tiles, t)
	return nil
}

// AppendDecoded appends a tile read back from storage, restored to the
// tileset format and alpha mode (see tile.Restore). A decoder alone cannot
// tell an Indexed6 tile from an Indexed8 one, nor a premultiplied buffer
// from the straight alpha one PNG stores.
func (ts *Tileset) AppendDecoded(t *tile.Tile) error {
	if t != nil {
		t = t.Restore(ts.format, ts.alpha)
	}
	return ts.Append(t)
}

// RemoveTile removes the tile at index, shifting later tiles left.
func (ts *Tileset) RemoveTile(index int) error {
	if err := ts.checkIndex(index, len(ts.tiles)); err != nil {
		return err
	}
	ts.tiles = slices.Delete(ts.tiles, index, index+1)
	return nil
}

// Remove removes t and reports whether it was present.
func (ts *Tileset) Remove(t *tile.Tile) bool {
	index := ts.IndexOf(t)
	if index < 0 {
		return false
	}
	ts.tiles = slices.Delete(ts.tiles, index, index+1)
	return true
}

func (ts *Tileset) ClearTiles() {
	clear(ts.tiles)
	ts.tiles = ts.tiles[:0]
}

// SwapTiles exchanges the tiles at i and j.
func (ts *Tileset) SwapTiles(i, j int) error {
	if err := ts.checkIndex(i, len(ts.tiles)); err != nil {
		return err
	}
	if err := ts.checkIndex(j, len(ts.tiles)); err != nil {
		return err
	}
	ts.tiles[i], ts.tiles[j] = ts.tiles[j], ts.tiles[i]
	return nil
}

// MoveTile removes the tile at from and reinserts it at to, where to is a
// position in the resulting sequence: [A B C D] moving 0 to 2 gives
// [B C A D].
func (ts *Tileset) MoveTile(from, to int) error {
	if err := ts.checkIndex(from, len(ts.tiles)); err != nil {
		return err
	}
	if err := ts.checkIndex(to, len(ts.tiles)); err != nil {
		return err
	}
	t := ts.tiles[from]
	ts.tiles = slices.Insert(slices.Delete(ts.tiles, from, from+1), to, t)
	return nil
}
