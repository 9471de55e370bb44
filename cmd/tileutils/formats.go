package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/eak1mov/go-tileedit/dir"
	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/eak1mov/go-tileedit/tsdb"
	"github.com/eak1mov/go-tileedit/tsf"
)

const formatsHelp = "tsf, sqlite, dir"

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch {
	case strings.Contains(filePath, "{i}"):
		return "dir"
	case strings.HasSuffix(filePath, ".db"), strings.HasSuffix(filePath, ".sqlite"):
		return "sqlite"
	default:
		return "tsf"
	}
}

// imageFlags are the encoding flags shared by commands writing tiles.
type imageFlags struct {
	imageFormat string
	quality     int
}

func (f *imageFlags) options() ([]imgcodec.Option, error) {
	format, err := imgcodec.ParseFormat(f.imageFormat)
	if err != nil {
		return nil, err
	}
	opts := []imgcodec.Option{imgcodec.WithFormat(format), imgcodec.WithQuality(f.quality)}
	return opts, imgcodec.NewOptions(opts...).Validate()
}

// layoutFlags describe a tileset when the input does not.
type layoutFlags struct {
	mode        string
	tileWidth   int
	tileHeight  int
	pixelFormat string
	alphaMode   string
}

func (f *layoutFlags) parse() (tileset.Mode, pixel.Format, pixel.AlphaMode, error) {
	format, err := pixel.ParseFormat(f.pixelFormat)
	if err != nil {
		return nil, 0, 0, err
	}
	alpha, err := pixel.ParseAlphaMode(f.alphaMode)
	if err != nil {
		return nil, 0, 0, err
	}
	switch f.mode {
	case "fixed":
		return tileset.Fixed{Width: f.tileWidth, Height: f.tileHeight}, format, alpha, nil
	case "variable":
		return tileset.Variable{}, format, alpha, nil
	default:
		return nil, 0, 0, fmt.Errorf("invalid dimension mode: %q", f.mode)
	}
}

func loadTileset(format, filePath string, layout *layoutFlags) (*tileset.Tileset, error) {
	switch format {
	case "tsf":
		return tsf.LoadFile(filePath, tsf.WithLogger(slog.Default()))
	case "sqlite":
		return tsdb.Load(filePath)
	case "dir":
		mode, pixelFormat, alpha, err := layout.parse()
		if err != nil {
			return nil, err
		}
		if _, fixed := mode.(tileset.Fixed); fixed {
			return dir.ImportFixed(filePath, pixelFormat, tileset.WithAlphaMode(alpha))
		}
		return dir.Import(filePath, pixelFormat, tileset.WithAlphaMode(alpha))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

func saveTileset(format, filePath string, ts *tileset.Tileset, image []imgcodec.Option) error {
	o := imgcodec.NewOptions(image...)
	switch format {
	case "tsf":
		return tsf.SaveFile(filePath, ts,
			tsf.WithImageFormat(o.Format),
			tsf.WithQuality(o.Quality),
			tsf.WithLogger(slog.Default()))
	case "sqlite":
		return tsdb.Save(filePath, ts, o.Format,
			tsdb.WithImageOptions(image...),
			tsdb.WithLogger(slog.Default()))
	case "dir":
		return dir.Export(ts, filePath, imgcodec.WithQuality(o.Quality))
	default:
		return fmt.Errorf("invalid format: %q", format)
	}
}

// tileReader is an open input container along with the layout of its
// tileset, when the container records one.
type tileReader struct {
	tile.Visitor
	io.Closer
	layout *tsdb.Layout
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openReader(format, filePath string) (*tileReader, error) {
	switch format {
	case "tsf":
		reader, err := tsf.NewFileReader(filePath)
		if err != nil {
			return nil, err
		}
		header := reader.Header()
		layout := tsdb.Layout{
			Mode:      header.Mode(),
			Format:    header.PixelFormat,
			AlphaMode: header.AlphaMode,
		}
		return &tileReader{Visitor: reader, Closer: reader, layout: &layout}, nil
	case "sqlite":
		reader, err := tsdb.NewReader(filePath)
		if err != nil {
			return nil, err
		}
		layout, err := reader.ReadLayout()
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &tileReader{Visitor: reader, Closer: reader, layout: &layout}, nil
	case "dir":
		reader, err := dir.NewReader(filePath)
		if err != nil {
			return nil, err
		}
		return &tileReader{Visitor: reader, Closer: nopCloser{}}, nil
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

func openWriter(format, filePath string, layout tsdb.Layout, image []imgcodec.Option) (tile.Writer, error) {
	o := imgcodec.NewOptions(image...)
	var writer tile.Writer
	var err error
	switch format {
	case "tsf":
		writer, err = tsf.NewWriter(filePath, layout.Mode, layout.Format, layout.AlphaMode,
			tsf.WithImageFormat(o.Format),
			tsf.WithQuality(o.Quality),
			tsf.WithLogger(slog.Default()))
	case "sqlite":
		layout.ImageFormat = o.Format
		writer, err = tsdb.NewWriter(filePath, layout,
			tsdb.WithImageOptions(image...),
			tsdb.WithLogger(slog.Default()))
	case "dir":
		writer, err = dir.NewWriter(filePath, imgcodec.WithQuality(o.Quality))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	return writer, nil
}
