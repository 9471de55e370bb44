// Package tsdb stores tilesets in SQLite databases: a metadata table with
// the tileset layout and a tiles table with one encoded image per tile.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package tsdb

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-tileedit/tile"
)

// Reader implements tile.Reader interface for tileset databases.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given database file path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE tile_index = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadLayout reads and parses the tileset layout from the metadata table.
func (r *Reader) ReadLayout() (Layout, error) {
	metadata, err := r.ReadMetadata()
	if err != nil {
		return Layout{}, err
	}
	return ParseLayout(metadata)
}

// ReadTile decodes the tile at index. A missing tile yields nil and no error.
func (r *Reader) ReadTile(index int) (*tile.Tile, error) {
	var tileData []byte
	if err := r.stmt.QueryRow(index).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	t, err := tile.Decode(bytes.NewReader(tileData))
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", index, err)
	}
	return t, nil
}

// VisitTiles decodes all tiles in ascending index order.
func (r *Reader) VisitTiles(visitor func(int, *tile.Tile) error) error {
	rows, err := r.db.Query("SELECT tile_index, tile_data FROM tiles ORDER BY tile_index")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var index int
		var tileData []byte

		if err := rows.Scan(&index, &tileData); err != nil {
			return err
		}

		t, err := tile.Decode(bytes.NewReader(tileData))
		if err != nil {
			return fmt.Errorf("tile %d: %w", index, err)
		}

		if err := visitor(index, t); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
