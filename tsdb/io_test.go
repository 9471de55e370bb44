package tsdb_test

import (
	"errors"
	"maps"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/internal"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/eak1mov/go-tileedit/tsdb"
	"github.com/eak1mov/go-tileedit/tsf/spec"
	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
)

func TestSaveLoad(t *testing.T) {
	for name, ts := range internal.TilesetCases(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			filePath := filepath.Join(t.TempDir(), "tiles.db")
			if err := tsdb.Save(filePath, ts, imgcodec.FormatPNG); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := tsdb.Load(filePath)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			internal.RequireEqual(t, ts, loaded)
		})
	}
}

func TestWriterReader(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.db")
	ts := tileset.NewVariable(pixel.FormatRgba8, tileset.WithColorSpace(pixel.ColorSpaceLinearSRGB))
	for i, size := range [][2]int{{1, 2}, {3, 4}, {5, 6}} {
		tl, err := ts.AddSizedTile(size[0], size[1])
		if err != nil {
			t.Fatalf("AddSizedTile failed: %v", err)
		}
		internal.Paint(tl, i, false)
	}

	writerMetadata := map[string]string{"name": "sprites", tsdb.KeyPixelFormat: "bogus"}
	writer, err := tsdb.NewWriter(filePath, tsdb.LayoutOf(ts, imgcodec.FormatBMP),
		tsdb.WithMetadata(writerMetadata))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	// Out of order on purpose: the reader sorts by index.
	for _, i := range []int{2, 0, 1} {
		tl, _ := ts.Tile(i)
		if err := writer.WriteTile(i, tl); err != nil {
			t.Fatalf("WriteTile(%d) failed: %v", i, err)
		}
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	reader, err := tsdb.NewReader(filePath)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	metadata, err := reader.ReadMetadata()
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	want := map[string]string{
		"name":                "sprites",
		tsdb.KeyVersion:       "1.0",
		tsdb.KeyDimensionMode: "variable",
		tsdb.KeyPixelFormat:   "rgba8",
		tsdb.KeyAlphaMode:     "premultiplied",
		tsdb.KeyColorSpace:    "linear-srgb",
		tsdb.KeyImageFormat:   "bmp",
	}
	if diff := cmp.Diff(want, metadata); diff != "" {
		t.Errorf("ReadMetadata mismatch (-want +got):\n%s", diff)
	}

	var order []int
	if err := reader.VisitTiles(func(i int, tl *tile.Tile) error {
		order = append(order, i)
		want, _ := ts.Tile(i)
		if tl.Size() != want.Size() {
			t.Errorf("tile %d: Size() = %v, want = %v", i, tl.Size(), want.Size())
		}
		return nil
	}); err != nil {
		t.Fatalf("VisitTiles failed: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, order); diff != "" {
		t.Errorf("VisitTiles order mismatch (-want +got):\n%s", diff)
	}

	if got := maps.Collect(tile.IterTiles(reader)); len(got) != 3 {
		t.Errorf("IterTiles yielded %d tiles", len(got))
	}

	tl, err := reader.ReadTile(1)
	if err != nil {
		t.Fatalf("ReadTile failed: %v", err)
	}
	if got, want := tl.Width(), 3; got != want {
		t.Errorf("ReadTile(1).Width() = %v, want = %v", got, want)
	}

	missing, err := reader.ReadTile(9)
	if err != nil {
		t.Errorf("ReadTile(missing tile) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("ReadTile(missing tile) expected nil")
	}
}

func TestFixedSizeMismatch(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.db")
	ts := tileset.NewFixed(4, 4, pixel.FormatRgba8)

	writer, err := tsdb.NewWriter(filePath, tsdb.LayoutOf(ts, imgcodec.FormatPNG))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	tl, err := tile.New(2, 4, pixel.FormatRgba8, pixel.AlphaPremultiplied, pixel.ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("tile.New failed: %v", err)
	}
	if err := writer.WriteTile(0, tl); !errors.Is(err, tile.ErrInvalidDimension) {
		t.Errorf("WriteTile error = %v, want = %v", err, tile.ErrInvalidDimension)
	}
}

func TestParseLayout(t *testing.T) {
	layout := tsdb.Layout{
		Mode:        tileset.Fixed{Width: 16, Height: 32},
		Format:      pixel.FormatIndexed6,
		AlphaMode:   pixel.AlphaOpaque,
		ColorSpace:  pixel.ColorSpaceSRGB,
		ImageFormat: imgcodec.FormatGIF,
	}
	metadata := map[string]string{
		tsdb.KeyVersion:       "1.0",
		tsdb.KeyDimensionMode: "fixed",
		tsdb.KeyTileWidth:     "16",
		tsdb.KeyTileHeight:    "32",
		tsdb.KeyPixelFormat:   "indexed6",
		tsdb.KeyAlphaMode:     "opaque",
		tsdb.KeyColorSpace:    "srgb",
		tsdb.KeyImageFormat:   "gif",
	}
	got, err := tsdb.ParseLayout(metadata)
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}
	if got != layout {
		t.Errorf("ParseLayout() = %+v, want = %+v", got, layout)
	}

	for key, value := range map[string]string{
		tsdb.KeyVersion:       "1.1",
		tsdb.KeyDimensionMode: "sometimes",
		tsdb.KeyTileWidth:     "-1",
		tsdb.KeyPixelFormat:   "rgb565",
		tsdb.KeyImageFormat:   "tga",
	} {
		broken := maps.Clone(metadata)
		broken[key] = value
		_, err := tsdb.ParseLayout(broken)
		if key == tsdb.KeyVersion {
			if !errors.Is(err, spec.ErrUnsupportedVersion) {
				t.Errorf("ParseLayout(%s=%s) error = %v", key, value, err)
			}
			continue
		}
		if !errors.Is(err, tsdb.ErrInvalidMetadata) {
			t.Errorf("ParseLayout(%s=%s) error = %v", key, value, err)
		}
	}
}
