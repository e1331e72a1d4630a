package rle

import (
	"encoding/binary"
	"image"

	"github.com/bodgit/watchface/rgb565"
)

type decoder struct {
	width, height int
	image         *rgb565.Image
}

// checkSize rejects a blob that cannot hold width by height pixels so that
// nothing is allocated for corrupt geometry.
func checkSize(b []byte, width, height int, c Compression) error {
	pixels := int64(width) * int64(height)

	switch c {
	case None:
		if int64(len(b)) < 2*pixels {
			return ErrInsufficientData
		}
	case RowIndexed:
		start := 2 + 2*int64(height)
		if int64(len(b)) < start {
			return ErrInsufficientData
		}
		if int(binary.LittleEndian.Uint16(b[start-2:])) > len(b) {
			return ErrInsufficientData
		}
		if maxRun*((int64(len(b))-start)/3) < pixels {
			return ErrInsufficientData
		}
	case Streaming:
		if maxRun*((int64(len(b))-2)/3) < pixels {
			return ErrInsufficientData
		}
	}

	return nil
}

func (d *decoder) init(width, height int) {
	d.width, d.height = width, height
	d.image = rgb565.NewImage(image.Rect(0, 0, width, height))
}

func (d *decoder) row(y int) []byte {
	return d.image.Pix[y*d.image.Stride : (y+1)*d.image.Stride]
}

func (d *decoder) decodeRaw(b []byte) error {
	if len(b) < len(d.image.Pix) {
		return ErrInsufficientData
	}
	copy(d.image.Pix, b)
	return nil
}

func (d *decoder) decodeRowIndexed(b []byte) error {
	start := 2 + 2*d.height
	if len(b) < start {
		return ErrInsufficientData
	}
	if int(binary.LittleEndian.Uint16(b[start-2:])) > len(b) {
		return ErrInsufficientData
	}

	i := start
	for y := 0; y < d.height; y++ {
		end := int(binary.LittleEndian.Uint16(b[2+2*y:]))
		row := d.row(y)
		x := 0
		for i < end {
			if i+3 > len(b) {
				return ErrInsufficientData
			}
			hi, lo, n := b[i], b[i+1], int(b[i+2])
			for ; n > 0 && x < d.width; n-- {
				row[2*x], row[2*x+1] = hi, lo
				x++
			}
			i += 3
		}
	}

	return nil
}

func (d *decoder) decodeStreaming(b []byte) error {
	i := 2

	var hi, lo byte
	var n int

	for y := 0; y < d.height; y++ {
		row := d.row(y)
		for x := 0; x < d.width; {
			if n == 0 {
				if i+3 > len(b) {
					return ErrInsufficientData
				}
				hi, lo, n = b[i], b[i+1], int(b[i+2])
				i += 3
				continue
			}
			row[2*x], row[2*x+1] = hi, lo
			x++
			n--
		}
	}

	return nil
}
