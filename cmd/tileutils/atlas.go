package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eak1mov/go-tileedit/atlas"
	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/google/subcommands"
)

type atlasCmd struct {
	inputFormat string
	inputPath   string
	outputPath  string
	layoutName  string
	columns     int
	quality     int
	layout      layoutFlags
}

func (c *atlasCmd) Name() string     { return "atlas" }
func (c *atlasCmd) Synopsis() string { return "compose tileset into a single sheet image" }
func (c *atlasCmd) Usage() string {
	return "tileutils atlas -i <path> -o <image> [-layout grid|hilbert] [-columns <n>]\n"
}
func (c *atlasCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format ("+formatsHelp+")")
	f.StringVar(&c.outputPath, "o", "", "Output image path, its extension selects the image format")
	f.StringVar(&c.layoutName, "layout", "grid", "Cell layout (grid, hilbert)")
	f.IntVar(&c.columns, "columns", 0, "Grid columns, 0 for a square grid")
	f.IntVar(&c.quality, "quality", 100, "Image quality (0-100)")
	f.StringVar(&c.layout.mode, "mode", "variable", "Dimension mode of a directory input (fixed, variable)")
	f.StringVar(&c.layout.pixelFormat, "pixel-format", "rgba8", "Pixel format of a directory input")
	f.StringVar(&c.layout.alphaMode, "alpha", "premultiplied", "Alpha mode of a directory input")
}

func (c *atlasCmd) cellLayout() (atlas.Layout, error) {
	switch c.layoutName {
	case "grid":
		return atlas.Grid{Columns: c.columns}, nil
	case "hilbert":
		return atlas.Hilbert{}, nil
	default:
		return nil, fmt.Errorf("invalid layout: %q", c.layoutName)
	}
}

func (c *atlasCmd) run() (err error) {
	layout, err := c.cellLayout()
	if err != nil {
		return err
	}
	imageFormat, err := imgcodec.FormatFromPath(c.outputPath)
	if err != nil {
		return err
	}

	ts, err := loadTileset(deduceFormat(c.inputFormat, c.inputPath), c.inputPath, &c.layout)
	if err != nil {
		return err
	}
	sheet, _, err := atlas.Compose(ts, layout)
	if err != nil {
		return err
	}

	file, err := os.Create(c.outputPath)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	w := bufio.NewWriter(file)
	err = imgcodec.Encode(w, sheet, ts.ColorSpace(),
		imgcodec.WithFormat(imageFormat),
		imgcodec.WithQuality(c.quality))
	if err != nil {
		return err
	}
	return w.Flush()
}

func (c *atlasCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type sliceCmd struct {
	inputPath    string
	outputFormat string
	outputPath   string
	image        imageFlags
	layout       layoutFlags
}

func (c *sliceCmd) Name() string     { return "slice" }
func (c *sliceCmd) Synopsis() string { return "cut a sheet image into a fixed tileset" }
func (c *sliceCmd) Usage() string {
	return "tileutils slice -i <image> -o <path> -w <width> -h <height> [-of <format>]\n"
}
func (c *sliceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input image path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format ("+formatsHelp+")")
	f.StringVar(&c.image.imageFormat, "image-format", "png", "Tile image format")
	f.IntVar(&c.image.quality, "quality", 100, "Tile image quality (0-100)")
	f.IntVar(&c.layout.tileWidth, "w", 16, "Tile width")
	f.IntVar(&c.layout.tileHeight, "h", 16, "Tile height")
	f.StringVar(&c.layout.pixelFormat, "pixel-format", "rgba8", "Pixel format")
	f.StringVar(&c.layout.alphaMode, "alpha", "premultiplied", "Alpha mode")
}

func (c *sliceCmd) run() error {
	image, err := c.image.options()
	if err != nil {
		return err
	}
	format, err := pixel.ParseFormat(c.layout.pixelFormat)
	if err != nil {
		return err
	}
	alpha, err := pixel.ParseAlphaMode(c.layout.alphaMode)
	if err != nil {
		return err
	}

	file, err := os.Open(c.inputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoded, err := imgcodec.Decode(bufio.NewReader(file))
	if err != nil {
		return err
	}

	ts, err := atlas.Slice(decoded.Image, c.layout.tileWidth, c.layout.tileHeight, format,
		tileset.WithAlphaMode(alpha),
		tileset.WithColorSpace(decoded.ColorSpace))
	if err != nil {
		return err
	}

	return saveTileset(deduceFormat(c.outputFormat, c.outputPath), c.outputPath, ts, image)
}

func (c *sliceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
