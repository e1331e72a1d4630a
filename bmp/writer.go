package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/bodgit/watchface/rgb565"
)

type encoder struct {
	w   io.Writer
	bpp int

	// Enough for one padded row
	buf [MaxRowBytes]byte
}

func (e *encoder) writeHeader(width, height int) error {
	h := header{
		width:  int32(width),
		height: -int32(height),
		planes: 1,
		bpp:    uint16(e.bpp),
		hres:   pelsPerMetre,
		vres:   pelsPerMetre,
	}

	// 16 bpp needs the masks so use the V4 header
	if e.bpp == 16 {
		h.dibSize = v4HeaderLen
		h.compression = biBitfields
		h.masks = rgb565Masks
	} else {
		h.dibSize = infoHeaderLen
		h.compression = biRGB
	}
	h.offset = fileHeaderLen + h.dibSize
	h.imageSize = uint32(rowSize(width, e.bpp) * height)
	h.fileSize = h.offset + h.imageSize

	var b [fileHeaderLen + v5HeaderLen]byte
	h.marshal(b[:])

	_, err := e.w.Write(b[:h.offset])
	return err
}

func colorAt(m image.Image, x, y int) rgb565.Color {
	if p, ok := m.(*rgb565.Image); ok {
		return p.ColorAt(x, y)
	}
	return rgb565.Model.Convert(m.At(x, y)).(rgb565.Color)
}

func (e *encoder) encode(m image.Image) error {
	b := m.Bounds()
	if err := e.writeHeader(b.Dx(), b.Dy()); err != nil {
		return err
	}

	row := e.buf[:rowSize(b.Dx(), e.bpp)]
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			i := x - b.Min.X
			c := colorAt(m, x, y)
			if e.bpp == 16 {
				binary.LittleEndian.PutUint16(row[2*i:], uint16(c))
				continue
			}
			cr, cg, cb := c.RGB888()
			row[3*i], row[3*i+1], row[3*i+2] = cb, cg, cr
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes m to w as a top-down bitmap. The pixels are converted to
// RGB565 first. o may be nil.
func Encode(w io.Writer, m image.Image, o *Options) error {
	bpp := 16
	if o != nil && o.BitsPerPixel != 0 {
		bpp = o.BitsPerPixel
	}
	if bpp != 16 && bpp != 24 {
		return fmt.Errorf("bmp: cannot encode %d bits per pixel", bpp)
	}

	if m.Bounds().Empty() {
		return errors.New("bmp: empty image")
	}

	if err := CheckWidth(m.Bounds().Dx(), bpp); err != nil {
		return err
	}

	e := encoder{w: w, bpp: bpp}

	return e.encode(m)
}
