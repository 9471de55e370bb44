package pixel

import "fmt"

// AlphaMode describes how the alpha channel relates to the color channels.
// Ordinals are persisted in tileset files.
type AlphaMode int32

const (
	AlphaUnknown AlphaMode = iota
	AlphaOpaque
	AlphaPremultiplied
	AlphaUnpremultiplied
)

func (a AlphaMode) Valid() bool {
	return a >= AlphaUnknown && a <= AlphaUnpremultiplied
}

func (a AlphaMode) String() string {
	switch a {
	case AlphaUnknown:
		return "unknown"
	case AlphaOpaque:
		return "opaque"
	case AlphaPremultiplied:
		return "premultiplied"
	case AlphaUnpremultiplied:
		return "unpremultiplied"
	default:
		return fmt.Sprintf("AlphaMode(%d)", int32(a))
	}
}

// ColorSpace tags the color space of pixel values. It is not part of the
// tileset header; files recover it from the first decoded tile.
type ColorSpace int32

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceSRGB
	ColorSpaceLinearSRGB
)

func (c ColorSpace) Valid() bool {
	return c >= ColorSpaceUnknown && c <= ColorSpaceLinearSRGB
}

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceUnknown:
		return "unknown"
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinearSRGB:
		return "linear-srgb"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int32(c))
	}
}

// ParseAlphaMode parses a name as returned by AlphaMode.String.
func ParseAlphaMode(s string) (AlphaMode, error) {
	for a := AlphaUnknown; a <= AlphaUnpremultiplied; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("pixel: unknown alpha mode %q", s)
}

// ParseColorSpace parses a name as returned by ColorSpace.String.
func ParseColorSpace(s string) (ColorSpace, error) {
	for c := ColorSpaceUnknown; c <= ColorSpaceLinearSRGB; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("pixel: unknown color space %q", s)
}
