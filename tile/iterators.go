package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all tiles of the container.
// Iteration panics on unrecoverable errors.
func IterTiles(r Visitor) iter.Seq2[int, *Tile] {
	return func(yield func(int, *Tile) bool) {
		err := r.VisitTiles(func(index int, t *Tile) error {
			if !yield(index, t) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

func IterLocations(r LocationVisitor) iter.Seq2[int, Location] {
	return func(yield func(int, Location) bool) {
		err := r.VisitLocations(func(index int, location Location) error {
			if !yield(index, location) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
