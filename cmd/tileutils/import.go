package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/eak1mov/go-tileedit/index"
	"github.com/eak1mov/go-tileedit/tsdb"
	"github.com/eak1mov/go-tileedit/tsf"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type importCmd struct {
	inputIndexPath string
	inputTilesPath string
	outputFormat   string
	outputPath     string
	image          imageFlags
	layout         layoutFlags
}

func (c *importCmd) Name() string     { return "import_index" }
func (c *importCmd) Synopsis() string { return "create tileset from exported tile index and data" }
func (c *importCmd) Usage() string {
	return "tileutils import_index -i <path> -t <path> -o <path> [-of <format>]\n"
}
func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputIndexPath, "i", "", "Input index file path")
	f.StringVar(&c.inputTilesPath, "t", "", "Input tiles file path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format ("+formatsHelp+")")
	f.StringVar(&c.image.imageFormat, "image-format", "png", "Tile image format")
	f.IntVar(&c.image.quality, "quality", 100, "Tile image quality (0-100)")
	f.StringVar(&c.layout.mode, "mode", "variable", "Dimension mode (fixed, variable)")
	f.IntVar(&c.layout.tileWidth, "w", 0, "Tile width in fixed mode")
	f.IntVar(&c.layout.tileHeight, "h", 0, "Tile height in fixed mode")
	f.StringVar(&c.layout.pixelFormat, "pixel-format", "rgba8", "Pixel format")
	f.StringVar(&c.layout.alphaMode, "alpha", "premultiplied", "Alpha mode")
}

func (c *importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	image, err := c.image.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	mode, pixelFormat, alpha, err := c.layout.parse()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	indexData, err := os.ReadFile(c.inputIndexPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	indexItems, err := index.ReadAll(indexData)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	tilesFile, err := os.Open(c.inputTilesPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer tilesFile.Close()

	layout := tsdb.Layout{Mode: mode, Format: pixelFormat, AlphaMode: alpha}
	writer, err := openWriter(deduceFormat(c.outputFormat, c.outputPath), c.outputPath, layout, image)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	slices.SortFunc(indexItems, func(a, b index.Item) int {
		return cmp.Compare(a.Index, b.Index)
	})

	bar := progressbar.New(len(indexItems))

	for i, item := range indexItems {
		t, err := tsf.ReadTileAt(tilesFile, item.TileLocation())
		if err != nil {
			log.Printf("tile %d: %v", item.Index, err)
			return subcommands.ExitFailure
		}
		if !t.Retag(pixelFormat, alpha) {
			if t, err = t.Convert(pixelFormat, alpha); err != nil {
				log.Println(err)
				return subcommands.ExitFailure
			}
		}
		if err := writer.WriteTile(i, t); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		bar.Add(1)
	}

	bar.Finish()
	fmt.Println()

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
