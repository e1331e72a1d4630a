package rle

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/watchface/rgb565"
)

// Image is the pixel data of one blob together with its dimensions and the
// way it is stored.
type Image struct {
	Width, Height int
	Compression   Compression
	Data          []byte
}

// NewImage returns an uncompressed Image holding a copy of the pixels of m.
func NewImage(m *rgb565.Image) *Image {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	i := &Image{
		Width:  w,
		Height: h,
		Data:   make([]byte, 2*w*h),
	}
	for y := 0; y < h; y++ {
		o := m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y)
		copy(i.Data[y*2*w:(y+1)*2*w], m.Pix[o:o+2*w])
	}
	return i
}

// Compress replaces the pixel data with its run-length encoding using the
// given scheme if that is smaller. It reports whether the data was
// replaced. Compressing an already compressed image returns ErrCompressed.
func (i *Image) Compress(c Compression) (bool, error) {
	if i.Compression != None {
		return false, ErrCompressed
	}

	m := &rgb565.Image{
		Pix:    i.Data,
		Stride: 2 * i.Width,
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}

	var b []byte
	var err error
	switch c {
	case None:
		return false, nil
	case RowIndexed:
		b, err = EncodeRowIndexed(m)
	case Streaming:
		b, err = EncodeStreaming(m)
	default:
		return false, fmt.Errorf("rle: cannot compress with %s", c)
	}
	if err != nil {
		if errors.Is(err, ErrOverflow) || errors.Is(err, ErrNotSmaller) {
			return false, nil
		}
		return false, err
	}

	i.Data, i.Compression = b, c

	return true, nil
}

// Decode returns the uncompressed pixels.
func (i *Image) Decode() (*rgb565.Image, error) {
	return decode(i.Data, i.Width, i.Height, i.Compression)
}
