package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/index"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tsf"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportCmd struct {
	inputFormat     string
	inputPath       string
	outputIndexPath string
	outputTilesPath string
	image           imageFlags
}

func (c *exportCmd) Name() string     { return "export_index" }
func (c *exportCmd) Synopsis() string { return "export tile index and data from tileset" }
func (c *exportCmd) Usage() string {
	return "tileutils export_index -i <path> -o <path> [-t <path> -if <format>]\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format ("+formatsHelp+")")
	f.StringVar(&c.outputIndexPath, "o", "", "Output index file path")
	f.StringVar(&c.outputTilesPath, "t", "", "Output tiles file path, unused for tsf input")
	f.StringVar(&c.image.imageFormat, "image-format", "png", "Tile image format")
	f.IntVar(&c.image.quality, "quality", 100, "Tile image quality (0-100)")
}

func (c *exportCmd) exportTiles(reader tile.Visitor) error {
	image, err := c.image.options()
	if err != nil {
		return err
	}
	format := imgcodec.NewOptions(image...).Format

	indexFile, err := os.Create(c.outputIndexPath)
	if err != nil {
		return err
	}
	defer indexFile.Close()
	indexWriter := bufio.NewWriter(indexFile)

	tilesFile, err := os.Create(c.outputTilesPath)
	if err != nil {
		return err
	}
	defer tilesFile.Close()
	tilesWriter := bufio.NewWriter(tilesFile)
	tilesOffset := uint64(0)

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())

	var buffer bytes.Buffer
	err = reader.VisitTiles(func(tileIndex int, t *tile.Tile) error {
		buffer.Reset()
		if err := t.Encode(&buffer, image...); err != nil {
			return fmt.Errorf("tile %d: %w", tileIndex, err)
		}

		indexItem := index.Item{
			Index:  uint32(tileIndex),
			Format: uint32(format),
			Width:  uint32(t.Width()),
			Height: uint32(t.Height()),
			Length: uint32(buffer.Len()),
			Offset: tilesOffset,
		}

		if err := binary.Write(indexWriter, binary.LittleEndian, indexItem); err != nil {
			return err
		}

		if _, err := tilesWriter.Write(buffer.Bytes()); err != nil {
			return err
		}

		tilesOffset += uint64(buffer.Len())

		bar.Add(1)

		return nil
	})

	bar.Finish()
	fmt.Println()

	if err != nil {
		return err
	}

	if err := tilesWriter.Flush(); err != nil {
		return err
	}
	if err := indexWriter.Flush(); err != nil {
		return err
	}

	return nil
}

// exportLocations indexes the images in place, so the tileset file itself
// serves as the tiles file.
func (c *exportCmd) exportLocations(reader *tsf.FileReader) error {
	file, err := os.Create(c.outputIndexPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return index.WriteAll(reader.Items(), file)
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := openReader(deduceFormat(c.inputFormat, c.inputPath), c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer reader.Close()

	if fileReader, ok := reader.Visitor.(*tsf.FileReader); ok {
		err = c.exportLocations(fileReader)
	} else if c.outputTilesPath == "" {
		err = fmt.Errorf("tiles file path is required for %s input", deduceFormat(c.inputFormat, c.inputPath))
	} else {
		err = c.exportTiles(reader)
	}

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
