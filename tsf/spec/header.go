// Package spec implements the byte layout of tileset files.
//
// A file is a 32 byte header of eight little-endian int32 fields followed by
// TileCount self-delimiting encoded images.
package spec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/eak1mov/go-tileedit/pixel"
	"github.com/eak1mov/go-tileedit/tileset"
)

const (
	// Version written by this package. Files with a greater major version,
	// or the same major and a greater minor version, are rejected.
	MajorVersion int32 = 1
	MinorVersion int32 = 0

	HeaderLength = 32
)

type Header struct {
	MajorVersion  int32
	MinorVersion  int32
	DimensionMode tileset.ModeKind
	TileWidth     int32
	TileHeight    int32
	PixelFormat   pixel.Format
	AlphaMode     pixel.AlphaMode
	TileCount     int32
}

var ErrInvalidHeader = errors.New("tileedit: invalid file header")
var ErrUnsupportedVersion = errors.New("tileedit: unsupported file version")

// CheckVersion reports ErrUnsupportedVersion for versions newer than the
// one written by this package.
func CheckVersion(major, minor int32) error {
	if major > MajorVersion || (major == MajorVersion && minor > MinorVersion) {
		return fmt.Errorf("%w: %d.%d, newest supported is %d.%d",
			ErrUnsupportedVersion, major, minor, MajorVersion, MinorVersion)
	}
	return nil
}

// Validate checks the fields following the version.
func (h *Header) Validate() error {
	switch {
	case !h.DimensionMode.Valid():
		return fmt.Errorf("%w: dimension mode %d", ErrInvalidHeader, h.DimensionMode)
	case h.TileWidth < 0 || h.TileHeight < 0:
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidHeader, h.TileWidth, h.TileHeight)
	case !h.PixelFormat.Valid():
		return fmt.Errorf("%w: pixel format %d", ErrInvalidHeader, h.PixelFormat)
	case !h.AlphaMode.Valid():
		return fmt.Errorf("%w: alpha mode %d", ErrInvalidHeader, h.AlphaMode)
	case h.TileCount < 0:
		return fmt.Errorf("%w: tile count %d", ErrInvalidHeader, h.TileCount)
	}
	return nil
}

// Mode returns the dimension mode described by the header.
func (h *Header) Mode() tileset.Mode {
	if h.DimensionMode == tileset.ModeVariable {
		return tileset.Variable{}
	}
	return tileset.Fixed{Width: int(h.TileWidth), Height: int(h.TileHeight)}
}

func SerializeHeader(header *Header) []byte {
	buffer := make([]byte, 0, HeaderLength)
	buffer, _ = binary.Append(buffer, binary.LittleEndian, header)
	return buffer
}

func DeserializeHeader(buffer []byte) (*Header, error) {
	return ReadHeader(bytes.NewReader(buffer))
}

// ReadHeader reads exactly HeaderLength bytes from r. The version is read
// and checked before the rest of the header.
func ReadHeader(r io.Reader) (*Header, error) {
	var version struct {
		Major, Minor int32
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, unexpected(err))
	}
	if err := CheckVersion(version.Major, version.Minor); err != nil {
		return nil, err
	}

	var rest struct {
		DimensionMode tileset.ModeKind
		TileWidth     int32
		TileHeight    int32
		PixelFormat   pixel.Format
		AlphaMode     pixel.AlphaMode
		TileCount     int32
	}
	if err := binary.Read(r, binary.LittleEndian, &rest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, unexpected(err))
	}

	header := Header{
		MajorVersion:  version.Major,
		MinorVersion:  version.Minor,
		DimensionMode: rest.DimensionMode,
		TileWidth:     rest.TileWidth,
		TileHeight:    rest.TileHeight,
		PixelFormat:   rest.PixelFormat,
		AlphaMode:     rest.AlphaMode,
		TileCount:     rest.TileCount,
	}
	if err := header.Validate(); err != nil {
		return nil, err
	}
	return &header, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
