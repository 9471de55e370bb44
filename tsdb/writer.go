package tsdb

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
)

// Writer implements tile.Writer interface for tileset databases.
type Writer struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
	image  []imgcodec.Option
	layout Layout
}

type writerConfig struct {
	Metadata map[string]string
	Image    []imgcodec.Option
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata adds free-form metadata entries. Reserved layout names are
// always written from the Layout.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

// WithImageOptions sets how tiles are encoded. The image format given to
// NewWriter through the Layout takes precedence.
func WithImageOptions(opts ...imgcodec.Option) WriterOption {
	return func(c *writerConfig) { c.Image = append(c.Image, opts...) }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new tileset database at filePath.
// It applies given options and initializes database for writing tiles.
func NewWriter(filePath string, layout Layout, opts ...WriterOption) (w *Writer, err error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	image := append(slices.Clip(config.Image), imgcodec.WithFormat(layout.ImageFormat))
	if err := imgcodec.NewOptions(image...).Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE tiles (
			tile_index INTEGER,
			tile_data BLOB
		);
	`)
	if err != nil {
		return nil, err
	}

	metadata := maps.Clone(config.Metadata)
	if metadata == nil {
		metadata = make(map[string]string)
	}
	maps.Copy(metadata, layout.metadata())
	for k, v := range metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	stmt, err := db.Prepare("INSERT INTO tiles (tile_index, tile_data) VALUES (?, ?)")
	if err != nil {
		return nil, err
	}

	return &Writer{db: db, stmt: stmt, logger: config.Logger, image: image, layout: layout}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func (w *Writer) WriteTile(index int, t *tile.Tile) error {
	if index < 0 {
		return fmt.Errorf("tileedit: negative tile index %d", index)
	}
	if m, ok := w.layout.Mode.(tileset.Fixed); ok && (t.Width() != m.Width || t.Height() != m.Height) {
		return fmt.Errorf("%w: %v tile in %v tileset", tile.ErrInvalidDimension, t.Size(), m)
	}
	var buffer bytes.Buffer
	if err := t.Encode(&buffer, w.image...); err != nil {
		return fmt.Errorf("tile %d: %w", index, err)
	}
	_, err := w.stmt.Exec(index, buffer.Bytes())
	return err
}

func (w *Writer) Finalize() error {
	w.logger.Debug("tileedit: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX tile_index ON tiles (tile_index)")

	w.logger.Debug("tileedit: done!")
	return err
}
