package dir

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/eak1mov/go-tileedit/tile"
)

// Reader implements tile.Reader interface for tile image files.
type Reader struct {
	filePattern string
	rootDir     string
	pathRegexp  *regexp.Regexp
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/tiles/{i}.png").
func NewReader(filePattern string) (*Reader, error) {
	if _, err := validatePattern(filePattern); err != nil {
		return nil, err
	}

	pathRegexp, err := patternRegexp(filePattern)
	if err != nil {
		return nil, err
	}

	path0 := formatPattern(filePattern, 0)
	path1 := formatPattern(filePattern, 1)
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}
	rootDir := path0

	return &Reader{filePattern, rootDir, pathRegexp}, nil
}

func readTile(filePath string) (*tile.Tile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return tile.Decode(file)
}

// ReadTile decodes the tile at index. A missing file yields nil and no error.
func (r *Reader) ReadTile(index int) (*tile.Tile, error) {
	t, err := readTile(formatPattern(r.filePattern, index))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", index, err)
	}
	return t, nil
}

type entry struct {
	index    int
	filePath string
}

// entries lists the tile files under the root directory in index order.
func (r *Reader) entries() ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(r.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matches := r.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			return nil
		}

		index, err := strconv.Atoi(matches[r.pathRegexp.SubexpIndex("i")])
		if err != nil {
			return nil // out of int range, not one of ours
		}
		entries = append(entries, entry{index, filePath})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.index, b.index)
	})
	return entries, nil
}

// VisitTiles decodes all tiles in ascending index order.
func (r *Reader) VisitTiles(visitor func(int, *tile.Tile) error) error {
	entries, err := r.entries()
	if err != nil {
		return err
	}

	for _, e := range entries {
		t, err := readTile(e.filePath)
		if err != nil {
			return fmt.Errorf("tile %d: %w", e.index, err)
		}
		if err := visitor(e.index, t); err != nil {
			return err
		}
	}
	return nil
}
