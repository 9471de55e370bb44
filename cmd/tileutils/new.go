package main

import (
	"context"
	"flag"
	"log"

	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/google/subcommands"
)

type newCmd struct {
	outputFormat string
	outputPath   string
	count        int
	image        imageFlags
	layout       layoutFlags
}

func (c *newCmd) Name() string     { return "new" }
func (c *newCmd) Synopsis() string { return "create tileset of blank tiles" }
func (c *newCmd) Usage() string {
	return "tileutils new -o <path> [-mode fixed -w <width> -h <height>] [-n <count>]\n"
}
func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format ("+formatsHelp+")")
	f.IntVar(&c.count, "n", 0, "Number of blank tiles")
	f.StringVar(&c.image.imageFormat, "image-format", "png", "Tile image format")
	f.IntVar(&c.image.quality, "quality", 100, "Tile image quality (0-100)")
	f.StringVar(&c.layout.mode, "mode", "fixed", "Dimension mode (fixed, variable)")
	f.IntVar(&c.layout.tileWidth, "w", 16, "Tile width")
	f.IntVar(&c.layout.tileHeight, "h", 16, "Tile height")
	f.StringVar(&c.layout.pixelFormat, "pixel-format", "rgba8", "Pixel format")
	f.StringVar(&c.layout.alphaMode, "alpha", "premultiplied", "Alpha mode")
}

func (c *newCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	image, err := c.image.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	mode, format, alpha, err := c.layout.parse()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	ts := tileset.NewWithMode(mode, format, tileset.WithAlphaMode(alpha))
	for range c.count {
		if _, fixed := mode.(tileset.Fixed); fixed {
			_, err = ts.AddTile()
		} else {
			_, err = ts.AddSizedTile(c.layout.tileWidth, c.layout.tileHeight)
		}
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	if err := saveTileset(deduceFormat(c.outputFormat, c.outputPath), c.outputPath, ts, image); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
