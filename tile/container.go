package tile

// Writer defines an interface for writing tiles to a tile container.
type Writer interface {
	// WriteTile writes a single tile at the given index.
	WriteTile(index int, t *Tile) error

	// Finalize completes the writing process: flushes buffers, writes headers and indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadTile reads a single tile from the container.
	// If the tile does not exist, it returns nil with no error.
	ReadTile(index int) (*Tile, error)
}

type Visitor interface {
	// VisitTiles visits all tiles in the container, calling the visitor for each.
	// It returns an error if visiting fails.
	// Order of tiles is implementation-defined unless documented otherwise.
	VisitTiles(visitor func(int, *Tile) error) error
}

// Location represents the absolute location of encoded tile data inside a file.
type Location struct {
	Offset uint64
	Length uint64
}

type LocationVisitor interface {
	VisitLocations(visitor func(int, Location) error) error
}
