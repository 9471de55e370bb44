package imgcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/eak1mov/go-tileedit/pixel"
)

const (
	pngSignature = "\x89PNG\r\n\x1a\n"

	// gAMA value of a linear transfer function (gamma 1.0, scaled by 100000).
	pngLinearGamma = 100000

	maxFrameLength = 1 << 30
)

// Frame is one encoded image as read from a stream.
type Frame struct {
	Format     Format
	Data       []byte
	ColorSpace pixel.ColorSpace // ColorSpaceUnknown unless the data declares one
}

type frameReader struct {
	r   io.Reader
	br  io.ByteReader
	buf bytes.Buffer
}

func unexpected(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// read consumes exactly n bytes and returns them. The result is only valid
// until the next read.
func (fr *frameReader) read(n int) ([]byte, error) {
	if n < 0 || fr.buf.Len()+n > maxFrameLength {
		return nil, fmt.Errorf("%w: frame too large", ErrFormat)
	}
	start := fr.buf.Len()
	if _, err := io.CopyN(&fr.buf, fr.r, int64(n)); err != nil {
		return nil, unexpected(err)
	}
	return fr.buf.Bytes()[start:], nil
}

func (fr *frameReader) readByte() (byte, error) {
	if fr.br == nil {
		b, err := fr.read(1)
		if err != nil {
			return 0, err
		}
		return b[0], nil
	}
	b, err := fr.br.ReadByte()
	if err != nil {
		return 0, unexpected(err)
	}
	fr.buf.WriteByte(b)
	return b, nil
}

// ReadFrame reads exactly one encoded image from r without decoding it.
// Truncated input yields an error wrapping io.ErrUnexpectedEOF, unrecognized
// or malformed structure an error wrapping ErrFormat.
func ReadFrame(r io.Reader) (*Frame, error) {
	fr := frameReader{r: r}
	fr.br, _ = r.(io.ByteReader)

	magic, err := fr.read(2)
	if err != nil {
		return nil, err
	}

	frame := Frame{}
	switch string(magic) {
	case pngSignature[:2]:
		frame.Format = FormatPNG
		frame.ColorSpace, err = framePNG(&fr)
	case "\xff\xd8":
		frame.Format = FormatJPEG
		err = frameJPEG(&fr)
	case "GI":
		frame.Format = FormatGIF
		err = frameGIF(&fr)
	case "BM":
		frame.Format = FormatBMP
		err = frameBMP(&fr)
	case "RI":
		frame.Format = FormatWEBP
		err = frameWEBP(&fr)
	default:
		return nil, fmt.Errorf("%w: unknown signature %x", ErrFormat, magic)
	}
	if err != nil {
		return nil, err
	}

	frame.Data = fr.buf.Bytes()
	return &frame, nil
}

func framePNG(fr *frameReader) (pixel.ColorSpace, error) {
	sig, err := fr.read(len(pngSignature) - 2)
	if err != nil {
		return 0, err
	}
	if string(sig) != pngSignature[2:] {
		return 0, fmt.Errorf("%w: bad png signature", ErrFormat)
	}

	colorSpace := pixel.ColorSpaceUnknown
	for {
		header, err := fr.read(8)
		if err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(header[:4])
		chunkType := string(header[4:8])
		if length > 0x7fffffff {
			return 0, fmt.Errorf("%w: png chunk %q too large", ErrFormat, chunkType)
		}

		body, err := fr.read(int(length) + 4) // data and crc
		if err != nil {
			return 0, err
		}

		switch chunkType {
		case "sRGB":
			colorSpace = pixel.ColorSpaceSRGB
		case "gAMA":
			if length == 4 && binary.BigEndian.Uint32(body[:4]) == pngLinearGamma && colorSpace == pixel.ColorSpaceUnknown {
				colorSpace = pixel.ColorSpaceLinearSRGB
			}
		case "IEND":
			return colorSpace, nil
		}
	}
}

func (fr *frameReader) nextMarker() (byte, error) {
	b, err := fr.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xff {
		return 0, fmt.Errorf("%w: missing jpeg marker", ErrFormat)
	}
	return fr.skipFill()
}

// skipFill returns the first marker byte after any 0xff fill bytes.
func (fr *frameReader) skipFill() (byte, error) {
	for {
		m, err := fr.readByte()
		if err != nil || m != 0xff {
			return m, err
		}
	}
}

// scanEntropy skips entropy-coded data up to the next real marker.
func (fr *frameReader) scanEntropy() (byte, error) {
	for {
		b, err := fr.readByte()
		if err != nil {
			return 0, err
		}
		if b != 0xff {
			continue
		}
		m, err := fr.skipFill()
		if err != nil {
			return 0, err
		}
		if m == 0x00 || (m >= 0xd0 && m <= 0xd7) {
			continue // stuffed byte or restart marker
		}
		return m, nil
	}
}

func frameJPEG(fr *frameReader) error {
	marker, err := fr.nextMarker()
	for err == nil {
		switch {
		case marker == 0xd9: // EOI
			return nil
		case marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7):
			marker, err = fr.nextMarker()
		default:
			var segment []byte
			segment, err = fr.read(2)
			if err != nil {
				return err
			}
			n := int(binary.BigEndian.Uint16(segment))
			if n < 2 {
				return fmt.Errorf("%w: bad jpeg segment length", ErrFormat)
			}
			if _, err = fr.read(n - 2); err != nil {
				return err
			}
			if marker == 0xda { // SOS
				marker, err = fr.scanEntropy()
			} else {
				marker, err = fr.nextMarker()
			}
		}
	}
	return err
}

func colorTableSize(flags byte) int {
	if flags&0x80 == 0 {
		return 0
	}
	return 3 * (1 << ((flags & 0x07) + 1))
}

func (fr *frameReader) skipSubBlocks() error {
	for {
		n, err := fr.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := fr.read(int(n)); err != nil {
			return err
		}
	}
}

func frameGIF(fr *frameReader) error {
	version, err := fr.read(4)
	if err != nil {
		return err
	}
	if string(version) != "F87a" && string(version) != "F89a" {
		return fmt.Errorf("%w: bad gif version", ErrFormat)
	}

	screen, err := fr.read(7)
	if err != nil {
		return err
	}
	if _, err := fr.read(colorTableSize(screen[4])); err != nil {
		return err
	}

	for {
		b, err := fr.readByte()
		if err != nil {
			return err
		}
		switch b {
		case 0x21: // extension
			if _, err := fr.readByte(); err != nil {
				return err
			}
			if err := fr.skipSubBlocks(); err != nil {
				return err
			}
		case 0x2c: // image descriptor
			desc, err := fr.read(9)
			if err != nil {
				return err
			}
			if _, err := fr.read(colorTableSize(desc[8]) + 1); err != nil { // local table and LZW code size
				return err
			}
			if err := fr.skipSubBlocks(); err != nil {
				return err
			}
		case 0x3b: // trailer
			return nil
		default:
			return fmt.Errorf("%w: unknown gif block 0x%02x", ErrFormat, b)
		}
	}
}

func frameBMP(fr *frameReader) error {
	size, err := fr.read(4)
	if err != nil {
		return err
	}
	fileSize := int(binary.LittleEndian.Uint32(size))
	if fileSize < 26 || fileSize > maxFrameLength {
		return fmt.Errorf("%w: bad bmp file size %d", ErrFormat, fileSize)
	}
	_, err = fr.read(fileSize - 6)
	return err
}

func frameWEBP(fr *frameReader) error {
	header, err := fr.read(10)
	if err != nil {
		return err
	}
	if string(header[:2]) != "FF" || string(header[6:10]) != "WEBP" {
		return fmt.Errorf("%w: bad riff header", ErrFormat)
	}
	riffSize := int(binary.LittleEndian.Uint32(header[2:6]))
	if riffSize < 4 || riffSize > maxFrameLength {
		return fmt.Errorf("%w: bad riff size %d", ErrFormat, riffSize)
	}
	_, err = fr.read(riffSize - 4 + riffSize&1)
	return err
}
