package pixel

import "image"

// premultiply8 matches the conversion image.RGBA applies when a straight
// alpha color is stored in it.
func premultiply8(s, a uint8) uint8 {
	return uint8((uint32(s) * 0x101 * (uint32(a) * 0x101) / 0xffff) >> 8)
}

func premultiply16(s, a uint16) uint16 {
	return uint16(uint32(s) * uint32(a) / 0xffff)
}

// unpremultiply8 returns the straight value that premultiply8 maps back to c.
// Every c <= a has one.
func unpremultiply8(c, a uint8) uint8 {
	switch a {
	case 0:
		return 0
	case 0xff:
		return c
	}
	s := min(0xff, (uint32(c)*0xff+uint32(a)/2)/uint32(a))
	for s < 0xff && premultiply8(uint8(s), a) < c {
		s++
	}
	for s > 0 && premultiply8(uint8(s), a) > c {
		s--
	}
	return uint8(s)
}

func unpremultiply16(c, a uint16) uint16 {
	switch a {
	case 0:
		return 0
	case 0xffff:
		return c
	}
	s := min(0xffff, (uint32(c)*0xffff+uint32(a)/2)/uint32(a))
	for s < 0xffff && premultiply16(uint16(s), a) < c {
		s++
	}
	for s > 0 && premultiply16(uint16(s), a) > c {
		s--
	}
	return uint16(s)
}

func get16(pix []byte) uint16 { return uint16(pix[0])<<8 | uint16(pix[1]) }

func put16(pix []byte, v uint16) { pix[0], pix[1] = uint8(v>>8), uint8(v) }

// Unpremultiply returns a straight alpha copy of an *image.RGBA or
// *image.RGBA64 buffer. Premultiply restores the original bytes exactly.
// ok is false for any other image.
func Unpremultiply(img image.Image) (_ image.Image, ok bool) {
	switch m := img.(type) {
	case *image.RGBA:
		dst := image.NewNRGBA(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			src := m.Pix[m.PixOffset(m.Rect.Min.X, y):][:4*m.Rect.Dx()]
			out := dst.Pix[dst.PixOffset(m.Rect.Min.X, y):][:4*m.Rect.Dx()]
			for i := 0; i < len(src); i += 4 {
				a := src[i+3]
				out[i+0] = unpremultiply8(src[i+0], a)
				out[i+1] = unpremultiply8(src[i+1], a)
				out[i+2] = unpremultiply8(src[i+2], a)
				out[i+3] = a
			}
		}
		return dst, true
	case *image.RGBA64:
		dst := image.NewNRGBA64(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			src := m.Pix[m.PixOffset(m.Rect.Min.X, y):][:8*m.Rect.Dx()]
			out := dst.Pix[dst.PixOffset(m.Rect.Min.X, y):][:8*m.Rect.Dx()]
			for i := 0; i < len(src); i += 8 {
				a := get16(src[i+6:])
				for c := 0; c < 6; c += 2 {
					put16(out[i+c:], unpremultiply16(get16(src[i+c:]), a))
				}
				put16(out[i+6:], a)
			}
		}
		return dst, true
	default:
		return img, false
	}
}

// Premultiply returns a premultiplied copy of an *image.NRGBA or
// *image.NRGBA64 buffer. ok is false for any other image.
func Premultiply(img image.Image) (_ DrawImage, ok bool) {
	switch m := img.(type) {
	case *image.NRGBA:
		dst := image.NewRGBA(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			src := m.Pix[m.PixOffset(m.Rect.Min.X, y):][:4*m.Rect.Dx()]
			out := dst.Pix[dst.PixOffset(m.Rect.Min.X, y):][:4*m.Rect.Dx()]
			for i := 0; i < len(src); i += 4 {
				a := src[i+3]
				out[i+0] = premultiply8(src[i+0], a)
				out[i+1] = premultiply8(src[i+1], a)
				out[i+2] = premultiply8(src[i+2], a)
				out[i+3] = a
			}
		}
		return dst, true
	case *image.NRGBA64:
		dst := image.NewRGBA64(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			src := m.Pix[m.PixOffset(m.Rect.Min.X, y):][:8*m.Rect.Dx()]
			out := dst.Pix[dst.PixOffset(m.Rect.Min.X, y):][:8*m.Rect.Dx()]
			for i := 0; i < len(src); i += 8 {
				a := get16(src[i+6:])
				for c := 0; c < 6; c += 2 {
					put16(out[i+c:], premultiply16(get16(src[i+c:]), a))
				}
				put16(out[i+6:], a)
			}
		}
		return dst, true
	default:
		return nil, false
	}
}
