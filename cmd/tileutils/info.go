package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"slices"

	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tsdb"
	"github.com/eak1mov/go-tileedit/tsf"
	"github.com/google/subcommands"
)

type infoCmd struct {
	inputFormat string
	inputPath   string
	tiles       bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print tileset header and tile list" }
func (c *infoCmd) Usage() string {
	return "tileutils info -i <path> [-if <format>] [-tiles]\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (tsf, sqlite)")
	f.BoolVar(&c.tiles, "tiles", false, "List every tile")
}

func (c *infoCmd) printFile() error {
	reader, err := tsf.NewFileReader(c.inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	header := reader.Header()
	fmt.Printf("version: %d.%d\n", header.MajorVersion, header.MinorVersion)
	fmt.Printf("mode: %v\n", header.Mode())
	fmt.Printf("pixel format: %v\n", header.PixelFormat)
	fmt.Printf("alpha mode: %v\n", header.AlphaMode)
	fmt.Printf("tiles: %d\n", header.TileCount)

	if c.tiles {
		for _, item := range reader.Items() {
			fmt.Printf("%d: %dx%d %v, %d bytes at %d\n",
				item.Index, item.Width, item.Height, item.ImageFormat(), item.Length, item.Offset)
		}
	}
	return nil
}

func (c *infoCmd) printDatabase() error {
	reader, err := tsdb.NewReader(c.inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	metadata, err := reader.ReadMetadata()
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(metadata)) {
		fmt.Printf("%s: %s\n", name, metadata[name])
	}

	count := 0
	err = reader.VisitTiles(func(tileIndex int, t *tile.Tile) error {
		if c.tiles {
			fmt.Printf("%d: %dx%d\n", tileIndex, t.Width(), t.Height())
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("tiles: %d\n", count)
	return nil
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var err error
	switch format := deduceFormat(c.inputFormat, c.inputPath); format {
	case "tsf":
		err = c.printFile()
	case "sqlite":
		err = c.printDatabase()
	default:
		err = fmt.Errorf("invalid input format: %q", format)
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
