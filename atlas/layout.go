package atlas

import (
	"fmt"
	"image"
	"math"

	"github.com/google/hilbert"
)

// Layout places n tiles on a grid of equal cells.
type Layout interface {
	// Cells returns the cell of each tile and the grid size, both in cells.
	Cells(n int) ([]image.Point, image.Point, error)
}

// Grid places tiles in row-major order. Zero Columns picks a near square grid.
type Grid struct {
	Columns int
}

func (g Grid) Cells(n int) ([]image.Point, image.Point, error) {
	columns := g.Columns
	if columns < 0 {
		return nil, image.Point{}, fmt.Errorf("atlas: negative column count %d", columns)
	}
	if columns == 0 {
		columns = max(1, int(math.Ceil(math.Sqrt(float64(n)))))
	}
	rows := (n + columns - 1) / columns

	cells := make([]image.Point, n)
	for i := range cells {
		cells[i] = image.Pt(i%columns, i/columns)
	}
	return cells, image.Pt(columns, rows), nil
}

// Hilbert places tiles along a Hilbert curve over the smallest power of two
// square that holds them, so neighbours in the tileset stay neighbours on
// the sheet.
type Hilbert struct{}

func (Hilbert) Cells(n int) ([]image.Point, image.Point, error) {
	if n == 0 {
		return nil, image.Point{}, nil
	}
	side := 1
	for side*side < n {
		side <<= 1
	}

	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("atlas: %w", err)
	}
	cells := make([]image.Point, n)
	for i := range cells {
		x, y, err := h.Map(i)
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("atlas: %w", err)
		}
		cells[i] = image.Pt(x, y)
	}

	// Short curves may leave whole rows or columns of the square empty.
	var size image.Point
	for _, c := range cells {
		size.X = max(size.X, c.X+1)
		size.Y = max(size.Y, c.Y+1)
	}
	return cells, size, nil
}
