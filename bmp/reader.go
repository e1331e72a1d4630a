package bmp

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/bodgit/watchface/rgb565"
)

var (
	rgb565Masks = [3]uint32{0xf800, 0x07e0, 0x001f}
	rgb888Masks = [3]uint32{0x00ff0000, 0x0000ff00, 0x000000ff}
)

type decoder struct {
	b []byte
	h header

	width, height int
	topDown       bool
	stride        int

	image *rgb565.Image
}

func (d *decoder) readHeader() error {
	if len(d.b) < fileHeaderLen+infoHeaderLen {
		return FormatError("file too short")
	}
	if d.b[0] != 'B' || d.b[1] != 'M' {
		return FormatError("missing BM signature")
	}
	d.h.unmarshal(d.b)

	switch d.h.dibSize {
	case infoHeaderLen, v4HeaderLen, v5HeaderLen:
	default:
		return FormatError(fmt.Sprintf("unsupported information header size %d", d.h.dibSize))
	}
	if len(d.b) < fileHeaderLen+int(d.h.dibSize) {
		return FormatError("file too short for information header")
	}

	if d.h.planes != 1 {
		return FormatError(fmt.Sprintf("%d colour planes", d.h.planes))
	}

	if d.h.reserved1 != 0 || d.h.reserved2 != 0 {
		return FormatError("reserved fields are not zero")
	}

	if d.h.compression == biBitfields && len(d.b) < masksOffset+len(d.h.masks)*4 {
		return FormatError("file too short for bitfields")
	}

	switch d.h.bpp {
	case 16:
		if d.h.compression != biBitfields {
			return FormatError("16 bpp without bitfields")
		}
		if d.h.masks != rgb565Masks {
			return FormatError(fmt.Sprintf("bitfields %#x are not RGB565", d.h.masks))
		}
	case 24, 32:
		switch d.h.compression {
		case biRGB:
		case biBitfields:
			if d.h.masks != rgb888Masks {
				return FormatError(fmt.Sprintf("bitfields %#x are not RGB888", d.h.masks))
			}
			if d.h.bpp == 32 && d.h.dibSize >= v4HeaderLen {
				if a := binary.LittleEndian.Uint32(d.b[alphaMaskOffset:]); a != 0 && a != 0xff000000 {
					return FormatError(fmt.Sprintf("alpha bitfield %#x is not ARGB8888", a))
				}
			}
		default:
			return FormatError(fmt.Sprintf("%d bpp with compression %d", d.h.bpp, d.h.compression))
		}
	default:
		return FormatError(fmt.Sprintf("unsupported %d bits per pixel", d.h.bpp))
	}

	// Masks following a 40 byte header sit between it and the pixels
	minOffset := int64(fileHeaderLen) + int64(d.h.dibSize)
	if d.h.dibSize == infoHeaderLen && d.h.compression == biBitfields {
		minOffset += int64(len(d.h.masks) * 4)
	}
	if int64(d.h.offset) < minOffset {
		return FormatError(fmt.Sprintf("pixel data offset %d overlaps the headers", d.h.offset))
	}
	if int64(d.h.offset) > int64(len(d.b)) {
		return FormatError("file too short for pixel data")
	}

	width, height := int64(d.h.width), int64(d.h.height)
	if height < 0 {
		height, d.topDown = -height, true
	}
	if width < 1 || height < 1 {
		return FormatError(fmt.Sprintf("invalid dimensions %dx%d", width, height))
	}

	// The image size field is frequently zero so only the bytes actually
	// present are trusted
	avail := int64(len(d.b)) - int64(d.h.offset)
	if width*int64(d.h.bpp) > avail*8 {
		return FormatError("file too short for pixel data")
	}
	stride := int64(rowSize(int(width), int(d.h.bpp)))
	if height > avail/stride {
		return FormatError("file too short for pixel data")
	}

	d.width, d.height, d.stride = int(width), int(height), int(stride)

	return nil
}

func (d *decoder) background(o *Options, x, y int) rgb565.Color {
	p := o.Background.Bounds().Min.Add(o.Offset).Add(image.Pt(x, y))
	return rgb565.Model.Convert(o.Background.At(p.X, p.Y)).(rgb565.Color)
}

func (d *decoder) readPixels(o *Options) {
	d.image = rgb565.NewImage(image.Rect(0, 0, d.width, d.height))

	blend := o != nil && o.Background != nil

	for i := 0; i < d.height; i++ {
		y := d.height - 1 - i
		if d.topDown {
			y = i
		}
		p := d.b[int(d.h.offset)+i*d.stride:]

		for x := 0; x < d.width; x++ {
			var c rgb565.Color
			switch d.h.bpp {
			case 16:
				c = rgb565.Color(binary.LittleEndian.Uint16(p[2*x:]))
			case 24:
				c = rgb565.FromRGB888(p[3*x+2], p[3*x+1], p[3*x])
			case 32:
				b, g, r, a := p[4*x], p[4*x+1], p[4*x+2], p[4*x+3]
				if blend {
					c = rgb565.Blend(d.background(o, x, y), r, g, b, a)
				} else {
					c = rgb565.FromARGB8888(a, r, g, b)
				}
			}
			d.image.SetColor(x, y, c)
		}
	}
}

func (d *decoder) decode(r io.Reader, o *Options, configOnly bool) error {
	var err error
	if d.b, err = ioutil.ReadAll(r); err != nil {
		return err
	}

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	d.readPixels(o)

	return nil
}

// Decode reads a bitmap from r and returns it as an RGB565 image. o may be
// nil.
func Decode(r io.Reader, o *Options) (*rgb565.Image, error) {
	var d decoder
	if err := d.decode(r, o, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the dimensions of a bitmap after validating its
// header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, nil, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: rgb565.Model,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// BitsPerPixel returns the pixel depth declared by a valid bitmap.
func BitsPerPixel(r io.Reader) (int, error) {
	var d decoder
	if err := d.decode(r, nil, true); err != nil {
		return 0, err
	}
	return int(d.h.bpp), nil
}
