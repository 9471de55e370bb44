// Package tsf reads and writes tileset files: a versioned header followed by
// one encoded image per tile (see package spec for the byte layout).
package tsf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/eak1mov/go-tileedit/tsf/spec"
)

func newHeader(mode tileset.Mode, format pixel.Format, alpha pixel.AlphaMode, tileCount int) (spec.Header, error) {
	header := spec.Header{
		MajorVersion:  spec.MajorVersion,
		MinorVersion:  spec.MinorVersion,
		DimensionMode: mode.Kind(),
		PixelFormat:   format,
		AlphaMode:     alpha,
		TileCount:     int32(tileCount),
	}
	if m, ok := mode.(tileset.Fixed); ok {
		if m.Width > math.MaxInt32 || m.Height > math.MaxInt32 {
			return spec.Header{}, fmt.Errorf("%w: tile size %v", spec.ErrInvalidHeader, m)
		}
		header.TileWidth, header.TileHeight = int32(m.Width), int32(m.Height)
	}
	if tileCount > math.MaxInt32 {
		return spec.Header{}, fmt.Errorf("%w: tile count %d", spec.ErrInvalidHeader, tileCount)
	}
	return header, header.Validate()
}

// Save writes ts to w: the header, then every tile in order.
func Save(w io.Writer, ts *tileset.Tileset, opts ...Option) error {
	o := newOptions(opts)
	if err := imgcodec.NewOptions(o.image...).Validate(); err != nil {
		return err
	}

	header, err := newHeader(ts.Mode(), ts.Format(), ts.AlphaMode(), ts.Len())
	if err != nil {
		return err
	}

	o.logger.Debug("tileedit: write header", slog.Any("mode", ts.Mode()), slog.Int("tiles", ts.Len()))
	if _, err := w.Write(spec.SerializeHeader(&header)); err != nil {
		return err
	}

	return ts.VisitTiles(func(i int, t *tile.Tile) error {
		if err := t.Encode(w, o.image...); err != nil {
			return fmt.Errorf("tile %d: %w", i, err)
		}
		return nil
	})
}

// SaveFile writes ts to filePath. The file is written under a temporary
// name in the same directory and renamed once complete, so a failed save
// leaves any existing file untouched.
func SaveFile(filePath string, ts *tileset.Tileset, opts ...Option) (err error) {
	o := newOptions(opts)

	file, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := file.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = errors.Join(err, file.Close())
		}
		err = errors.Join(err, os.Remove(tempPath))
	}()

	if err := file.Chmod(0o644); err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	if err := Save(writer, ts, opts...); err != nil {
		return err
	}

	o.logger.Debug("tileedit: flush")
	if err := writer.Flush(); err != nil {
		return err
	}
	closed = true
	if err := file.Close(); err != nil {
		return err
	}

	o.logger.Debug("tileedit: rename", slog.String("path", filePath))
	return os.Rename(tempPath, filePath)
}

// Writer streams tiles into a new tileset file without holding them in
// memory. The header is written by Finalize, once the tile count is known.
type Writer struct {
	logger *slog.Logger
	image  []imgcodec.Option
	file   *os.File
	header spec.Header
	mode   tileset.Mode

	tileWriter *bufio.Writer
	tileCount  int
}

func NewWriter(filePath string, mode tileset.Mode, format pixel.Format, alpha pixel.AlphaMode, opts ...Option) (w *Writer, err error) {
	o := newOptions(opts)
	if err := imgcodec.NewOptions(o.image...).Validate(); err != nil {
		return nil, err
	}

	header, err := newHeader(mode, format, alpha, 0)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			file.Close()
		}
	}()

	if _, err := file.Seek(spec.HeaderLength, io.SeekStart); err != nil {
		return nil, err
	}

	return &Writer{
		logger:     o.logger,
		image:      o.image,
		file:       file,
		header:     header,
		mode:       mode,
		tileWriter: bufio.NewWriter(file),
	}, nil
}

// WriteTile appends t. Tiles must be written in index order.
func (w *Writer) WriteTile(index int, t *tile.Tile) error {
	if w.tileWriter == nil {
		return errors.New("tileedit: write after finalize")
	}
	if index != w.tileCount {
		return fmt.Errorf("%w: tile %d written after %d tiles", tileset.ErrIndexOutOfRange, index, w.tileCount)
	}
	if m, ok := w.mode.(tileset.Fixed); ok && (t.Width() != m.Width || t.Height() != m.Height) {
		return fmt.Errorf("%w: %v tile in %v tileset", tile.ErrInvalidDimension, t.Size(), m)
	}
	if err := t.Encode(w.tileWriter, w.image...); err != nil {
		return fmt.Errorf("tile %d: %w", index, err)
	}
	w.tileCount++
	return nil
}

func (w *Writer) Finalize() error {
	if w.tileWriter == nil {
		panic("tileedit: finalize called twice")
	}

	w.logger.Debug("tileedit: flush")
	if err := w.tileWriter.Flush(); err != nil {
		return err
	}
	w.tileWriter = nil

	w.logger.Debug("tileedit: write header", slog.Int("tiles", w.tileCount))
	w.header.TileCount = int32(w.tileCount)
	if _, err := w.file.WriteAt(spec.SerializeHeader(&w.header), 0); err != nil {
		return err
	}

	err := w.file.Close()
	if err != nil {
		return err
	}
	w.file = nil

	w.logger.Debug("tileedit: done!")
	return nil
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
