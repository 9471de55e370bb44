package dir

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eak1mov/go-tileedit/imgcodec"
	"github.com/eak1mov/go-tileedit/tile"
)

// Writer implements tile.Writer interface for tile image files.
type Writer struct {
	filePattern string
	image       []imgcodec.Option
}

// NewWriter creates a new Writer for the given file pattern (e.g.
// "/home/user/tiles/{i}.png"). Tiles are encoded in the format named by the
// extension; opts may set the quality.
func NewWriter(filePattern string, opts ...imgcodec.Option) (*Writer, error) {
	format, err := validatePattern(filePattern)
	if err != nil {
		return nil, err
	}
	image := append(slices.Clip(opts), imgcodec.WithFormat(format))
	if err := imgcodec.NewOptions(image...).Validate(); err != nil {
		return nil, err
	}
	return &Writer{filePattern: filePattern, image: image}, nil
}

func (w *Writer) WriteTile(index int, t *tile.Tile) error {
	if index < 0 {
		return fmt.Errorf("tileedit: negative tile index %d", index)
	}
	filePath := formatPattern(w.filePattern, index)

	dirPath := filepath.Dir(filePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	var buffer bytes.Buffer
	if err := t.Encode(&buffer, w.image...); err != nil {
		return fmt.Errorf("tile %d: %w", index, err)
	}
	return os.WriteFile(filePath, buffer.Bytes(), 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
