package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tsdb"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type convertCmd struct {
	inputFormat  string
	inputPath    string
	outputFormat string
	outputPath   string
	image        imageFlags
	layout       layoutFlags
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert between tileset storage formats" }
func (c *convertCmd) Usage() string {
	return "tileutils convert -i <path> -o <path> [-if <format> | -of <format>]\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format ("+formatsHelp+")")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format ("+formatsHelp+")")
	f.StringVar(&c.image.imageFormat, "image-format", "png", "Tile image format")
	f.IntVar(&c.image.quality, "quality", 100, "Tile image quality (0-100)")
	f.StringVar(&c.layout.mode, "mode", "variable", "Dimension mode of a directory input (fixed, variable)")
	f.IntVar(&c.layout.tileWidth, "w", 0, "Tile width of a fixed directory input")
	f.IntVar(&c.layout.tileHeight, "h", 0, "Tile height of a fixed directory input")
	f.StringVar(&c.layout.pixelFormat, "pixel-format", "rgba8", "Pixel format of a directory input")
	f.StringVar(&c.layout.alphaMode, "alpha", "premultiplied", "Alpha mode of a directory input")
}

func (c *convertCmd) inputLayout(reader *tileReader) (tsdb.Layout, error) {
	if reader.layout != nil {
		return *reader.layout, nil
	}
	mode, format, alpha, err := c.layout.parse()
	if err != nil {
		return tsdb.Layout{}, err
	}
	return tsdb.Layout{Mode: mode, Format: format, AlphaMode: alpha}, nil
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputFormat := deduceFormat(c.inputFormat, c.inputPath)
	outputFormat := deduceFormat(c.outputFormat, c.outputPath)

	image, err := c.image.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	reader, err := openReader(inputFormat, c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer reader.Close()

	layout, err := c.inputLayout(reader)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	writer, err := openWriter(outputFormat, c.outputPath, layout, image)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	written := 0
	err = reader.VisitTiles(func(tileIndex int, t *tile.Tile) error {
		if outputFormat == "tsf" {
			tileIndex = written // tileset files have no gaps
		}
		err := writer.WriteTile(tileIndex, t)
		written++
		bar.Add(1)
		return err
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
