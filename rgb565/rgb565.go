/*
Package rgb565 implements the 16-bit pixel format used by the watch.

A pixel packs five bits of red, six bits of green and five bits of blue into a
uint16 with red in the most significant bits. Face files store each pixel
most significant byte first, so loading the two bytes as a little-endian
uint16 yields the byte-swapped value; ToRGB888 accepts that stored form
directly.
*/
package rgb565

import (
	"image/color"
	"math/bits"
)

// Color is an RGB565 value with red in the top five bits.
type Color uint16

// RGB888 expands c to eight bits per channel, replicating the top bits of
// each field into the low bits.
func (c Color) RGB888() (r, g, b uint8) {
	r = uint8(c>>11&0x1f) << 3
	r |= r >> 5
	g = uint8(c>>5&0x3f) << 2
	g |= g >> 6
	b = uint8(c&0x1f) << 3
	b |= b >> 5
	return
}

// RGBA implements color.Color. RGB565 has no alpha so the result is opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB888()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xffff
}

// Swap converts between the stored and the native byte order.
func Swap(v uint16) Color {
	return Color(bits.ReverseBytes16(v))
}

// ToRGB888 expands a pixel in stored order, as read with a little-endian
// load of the two bytes in the face file.
func ToRGB888(stored uint16) (r, g, b uint8) {
	return Swap(stored).RGB888()
}

// FromRGB888 truncates each channel to its field width. There is no
// dithering.
func FromRGB888(r, g, b uint8) Color {
	return Color(r>>3)<<11 | Color(g>>2)<<5 | Color(b>>3)
}

// FromARGB8888 is FromRGB888 with the alpha channel discarded.
func FromARGB8888(a, r, g, b uint8) Color {
	return FromRGB888(r, g, b)
}

// Blend composites the foreground colour over bg using
// ((255-a)*bg + a*fg) / 255 on each channel.
func Blend(bg Color, r, g, b, a uint8) Color {
	br, bgG, bb := bg.RGB888()
	return FromRGB888(mix(br, r, a), mix(bgG, g, a), mix(bb, b, a))
}

func mix(bg, fg, a uint8) uint8 {
	return uint8((uint32(255-a)*uint32(bg) + uint32(a)*uint32(fg)) / 255)
}

// Load reads a pixel from two bytes in face file order.
func Load(b []byte) Color {
	return Color(b[0])<<8 | Color(b[1])
}

// Store writes c to two bytes in face file order.
func (c Color) Store(b []byte) {
	b[0] = byte(c >> 8)
	b[1] = byte(c)
}

// Model converts any colour to RGB565, ignoring alpha.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return FromARGB8888(n.A, n.R, n.G, n.B)
}
