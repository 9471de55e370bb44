package dir_test

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tileedit/dir"
	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/internal"
	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tile"
	"github.com/eak1mov/go-tileedit/tileset"
	"github.com/google/go-cmp/cmp"
)

func TestWriterReader(t *testing.T) {
	rootDir := t.TempDir()
	pattern := filepath.Join(rootDir, "set (1)", "tile-{i}.png")

	ts := tileset.NewVariable(pixel.FormatRgba8)
	for i, size := range [][2]int{{2, 2}, {4, 1}, {1, 5}} {
		tl, err := ts.AddSizedTile(size[0], size[1])
		if err != nil {
			t.Fatalf("AddSizedTile failed: %v", err)
		}
		internal.Paint(tl, i, false)
	}

	writer, err := dir.NewWriter(pattern)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	for _, i := range []int{0, 1, 2} {
		tl, _ := ts.Tile(i)
		if err := writer.WriteTile(i*5, tl); err != nil {
			t.Errorf("WriteTile(%v) failed: %v", i*5, err)
		}
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(rootDir, "set (1)", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := dir.NewReader(pattern)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var order []int
	if err := reader.VisitTiles(func(i int, tl *tile.Tile) error {
		order = append(order, i)
		return nil
	}); err != nil {
		t.Fatalf("VisitTiles failed: %v", err)
	}
	if diff := cmp.Diff([]int{0, 5, 10}, order); diff != "" {
		t.Errorf("VisitTiles order mismatch (-want +got):\n%s", diff)
	}

	tiles := maps.Collect(tile.IterTiles(reader))
	for i, want := range ts.Tiles() {
		got := tiles[i*5]
		if got == nil || !cmp.Equal(internal.Pixels(got.Image()), internal.Pixels(want.Image())) {
			t.Errorf("VisitTiles data mismatch for %v", i*5)
		}
	}

	tl, err := reader.ReadTile(5)
	if err != nil {
		t.Fatalf("ReadTile failed: %v", err)
	}
	if got, want := tl.Width(), 4; got != want {
		t.Errorf("ReadTile(5).Width() = %v, want = %v", got, want)
	}

	missing, err := reader.ReadTile(9)
	if err != nil {
		t.Errorf("ReadTile(missing tile) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("ReadTile(missing tile) expected nil")
	}
}

func TestExportImport(t *testing.T) {
	for name, ts := range internal.TilesetCases(t) {
		t.Run(name, func(t *testing.T) {
			pattern := filepath.Join(t.TempDir(), "{i}.png")
			if err := dir.Export(ts, pattern); err != nil {
				t.Fatalf("Export failed: %v", err)
			}

			var imported *tileset.Tileset
			var err error
			if _, fixed := ts.Mode().(tileset.Fixed); fixed {
				imported, err = dir.ImportFixed(pattern, ts.Format(), tileset.WithAlphaMode(ts.AlphaMode()))
			} else {
				imported, err = dir.Import(pattern, ts.Format(), tileset.WithAlphaMode(ts.AlphaMode()))
			}
			if ts.Len() == 0 {
				if !errors.Is(err, dir.ErrNoTiles) {
					t.Errorf("Import(empty) error = %v, want = %v", err, dir.ErrNoTiles)
				}
				return
			}
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			internal.RequireEqual(t, ts, imported)
		})
	}
}

func TestImportFixedSizeMismatch(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "{i}.bmp")
	ts := tileset.NewVariable(pixel.FormatRgba8)
	for _, size := range [][2]int{{2, 2}, {2, 3}} {
		if _, err := ts.AddSizedTile(size[0], size[1]); err != nil {
			t.Fatalf("AddSizedTile failed: %v", err)
		}
	}
	if err := dir.Export(ts, pattern); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	_, err := dir.ImportFixed(pattern, pixel.FormatRgba8)
	if !errors.Is(err, tile.ErrInvalidDimension) {
		t.Errorf("ImportFixed error = %v, want = %v", err, tile.ErrInvalidDimension)
	}

	imported, err := dir.Import(pattern, pixel.FormatRgba8)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got, want := imported.Len(), 2; got != want {
		t.Errorf("Len() = %v, want = %v", got, want)
	}
}

func TestInvalidPattern(t *testing.T) {
	for _, pattern := range []string{"/tmp/tiles/0.png", "/tmp/tiles/{i}", "/tmp/tiles/{i}.tga"} {
		if _, err := dir.NewWriter(pattern); !errors.Is(err, dir.ErrInvalidPattern) {
			t.Errorf("NewWriter(%q) error = %v, want = %v", pattern, err, dir.ErrInvalidPattern)
		}
		if _, err := dir.NewReader(pattern); !errors.Is(err, dir.ErrInvalidPattern) {
			t.Errorf("NewReader(%q) error = %v, want = %v", pattern, err, dir.ErrInvalidPattern)
		}
	}

	_, err := dir.NewWriter("/tmp/tiles/{i}.webp")
	if !errors.Is(err, imgcodec.ErrUnsupportedFormat) {
		t.Errorf("NewWriter(webp) error = %v, want = %v", err, imgcodec.ErrUnsupportedFormat)
	}
}
