/*
Package bmp implements the interchange bitmap format used when dumping and
creating watch faces.

Files start with the 14 byte file header:

	0  "BM"
	2  file size
	6  two reserved uint16 fields, both zero
	10 offset of the pixel data

followed by a 40 (BITMAPINFOHEADER), 108 (BITMAPV4HEADER) or 124
(BITMAPV5HEADER) byte information header. All fields are little-endian.
When the compression field is BI_BITFIELDS the red, green and blue masks are
found at offset 54 regardless of the information header size.

Only 16, 24 and 32 bits per pixel are supported. 16 bit files must declare
RGB565 masks. Rows are padded to a multiple of four bytes and are stored
bottom-up unless the height is negative.

Pixels decode to and encode from watch-native RGB565.
*/
package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	v4HeaderLen   = 108
	v5HeaderLen   = 124

	masksOffset     = fileHeaderLen + infoHeaderLen
	alphaMaskOffset = masksOffset + 12

	biRGB       = 0
	biBitfields = 3

	// 72 dpi
	pelsPerMetre = 2835

	// MaxRowBytes is the largest padded row that can be written.
	MaxRowBytes = 8192
)

// ErrTooWide is returned when a row of the image does not fit in the row
// buffer.
var ErrTooWide = errors.New("bmp: image too wide")

// A FormatError reports that the input is not a bitmap this package can
// read.
type FormatError string

func (e FormatError) Error() string {
	return "bmp: invalid format: " + string(e)
}

// Options are the encoding and decoding parameters.
type Options struct {
	// BitsPerPixel is 16 or 24 when encoding. Zero means 16.
	BitsPerPixel int
	// Background, if set, is composited under 32 bit pixels when
	// decoding, using their alpha channel. Pixel (x, y) of the bitmap
	// sits over (x, y) + Offset of the background.
	Background image.Image
	Offset     image.Point
}

func rowSize(width, bpp int) int {
	return (width*bpp/8 + 3) &^ 3
}

// CheckWidth returns ErrTooWide if a width pixel row at bpp bits per pixel
// is larger than MaxRowBytes.
func CheckWidth(width, bpp int) error {
	if rowSize(width, bpp) > MaxRowBytes {
		return fmt.Errorf("%w: %d pixels at %d bpp", ErrTooWide, width, bpp)
	}
	return nil
}

type header struct {
	fileSize    uint32
	reserved1   uint16
	reserved2   uint16
	offset      uint32
	dibSize     uint32
	width       int32
	height      int32
	planes      uint16
	bpp         uint16
	compression uint32
	imageSize   uint32
	hres, vres  uint32
	masks       [3]uint32
}

func (h *header) unmarshal(b []byte) {
	h.fileSize = binary.LittleEndian.Uint32(b[2:])
	h.reserved1 = binary.LittleEndian.Uint16(b[6:])
	h.reserved2 = binary.LittleEndian.Uint16(b[8:])
	h.offset = binary.LittleEndian.Uint32(b[10:])
	h.dibSize = binary.LittleEndian.Uint32(b[14:])
	h.width = int32(binary.LittleEndian.Uint32(b[18:]))
	h.height = int32(binary.LittleEndian.Uint32(b[22:]))
	h.planes = binary.LittleEndian.Uint16(b[26:])
	h.bpp = binary.LittleEndian.Uint16(b[28:])
	h.compression = binary.LittleEndian.Uint32(b[30:])
	h.imageSize = binary.LittleEndian.Uint32(b[34:])
	h.hres = binary.LittleEndian.Uint32(b[38:])
	h.vres = binary.LittleEndian.Uint32(b[42:])
	if len(b) >= masksOffset+12 {
		for i := range h.masks {
			h.masks[i] = binary.LittleEndian.Uint32(b[masksOffset+4*i:])
		}
	}
}

func (h *header) marshal(b []byte) {
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:], h.fileSize)
	binary.LittleEndian.PutUint16(b[6:], h.reserved1)
	binary.LittleEndian.PutUint16(b[8:], h.reserved2)
	binary.LittleEndian.PutUint32(b[10:], h.offset)
	binary.LittleEndian.PutUint32(b[14:], h.dibSize)
	binary.LittleEndian.PutUint32(b[18:], uint32(h.width))
	binary.LittleEndian.PutUint32(b[22:], uint32(h.height))
	binary.LittleEndian.PutUint16(b[26:], h.planes)
	binary.LittleEndian.PutUint16(b[28:], h.bpp)
	binary.LittleEndian.PutUint32(b[30:], h.compression)
	binary.LittleEndian.PutUint32(b[34:], h.imageSize)
	binary.LittleEndian.PutUint32(b[38:], h.hres)
	binary.LittleEndian.PutUint32(b[42:], h.vres)
	if h.compression == biBitfields {
		for i, m := range h.masks {
			binary.LittleEndian.PutUint32(b[masksOffset+4*i:], m)
		}
	}
}
