// Package atlas composes tilesets into single sheet images and slices sheets
// back into tilesets.
package atlas

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
)

// CellSize returns the size of the largest tile, in each dimension.
func CellSize(ts *tileset.Tileset) image.Point {
	var cell image.Point
	for _, t := range ts.Tiles() {
		cell.X = max(cell.X, t.Width())
		cell.Y = max(cell.Y, t.Height())
	}
	return cell
}

// Compose draws every tile of ts onto one sheet, each at the top left corner
// of its cell. It returns the sheet and the rectangle each tile covers.
func Compose(ts *tileset.Tileset, layout Layout) (*image.NRGBA, []image.Rectangle, error) {
	cells, grid, err := layout.Cells(ts.Len())
	if err != nil {
		return nil, nil, err
	}
	cell := CellSize(ts)

	sheet := image.NewNRGBA(image.Rect(0, 0, grid.X*cell.X, grid.Y*cell.Y))
	rects := make([]image.Rectangle, 0, ts.Len())
	for i, t := range ts.Tiles() {
		origin := image.Pt(cells[i].X*cell.X, cells[i].Y*cell.Y)
		r := image.Rectangle{Min: origin, Max: origin.Add(t.Size())}
		draw.Draw(sheet, r, t.Image(), image.Point{}, draw.Src)
		rects = append(rects, r)
	}
	return sheet, rects, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Slice cuts sheet into tileWidth x tileHeight tiles in row-major order and
// returns them as a fixed tileset. Partial cells on the right and bottom
// edges are dropped. Indexed formats get a palette quantized per tile.
func Slice(sheet image.Image, tileWidth, tileHeight int, format pixel.Format, opts ...tileset.Option) (*tileset.Tileset, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", tile.ErrInvalidDimension, tileWidth, tileHeight)
	}

	b := sheet.Bounds()
	sub, ok := sheet.(subImager)
	if !ok {
		copied := image.NewNRGBA(b)
		draw.Draw(copied, b, sheet, b.Min, draw.Src)
		sub = copied
	}

	ts := tileset.NewFixed(tileWidth, tileHeight, format, opts...)
	columns, rows := b.Dx()/tileWidth, b.Dy()/tileHeight
	for row := range rows {
		for column := range columns {
			origin := b.Min.Add(image.Pt(column*tileWidth, row*tileHeight))
			region := sub.SubImage(image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tileWidth, tileHeight))})

			// FromImage may share the sheet buffer; Convert gives the tile its own.
			t, err := tile.FromImage(region, ts.ColorSpace()).Convert(ts.Format(), ts.AlphaMode())
			if err != nil {
				return nil, err
			}
			if err := ts.Append(t); err != nil {
				return nil, err
			}
		}
	}
	return ts, nil
}
