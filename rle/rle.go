/*
Package rle implements the run-length encodings used for bitmaps stored in a
watch face file.

Both schemes start with the two byte identifier 0x08 0x21 and encode each run
as three bytes: the RGB565 pixel, most significant byte first, followed by a
repeat count. A count never exceeds 255.

The row-indexed scheme follows the identifier with one little-endian uint16
per row giving the offset, from the start of the blob, at which that row's
runs end. The run data follows the table.

The older streaming scheme has no table and its runs ignore row boundaries;
a run that passes the end of a row continues at the start of the next one.

The two schemes cannot be told apart from the data, the caller has to know
which kind of face file the blob came from. Data without the identifier is
plain RGB565.
*/
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/bodgit/watchface/rgb565"
)

const (
	magic0 = 0x08
	magic1 = 0x21

	maxRun    = 255
	maxOffset = 0xffff
)

var (
	// ErrInsufficientData is returned when a blob is too short for the
	// dimensions it is decoded with.
	ErrInsufficientData = errors.New("rle: insufficient data")
	// ErrCompressed is returned when compressing an image that is already
	// compressed.
	ErrCompressed = errors.New("rle: image is already compressed")
	// ErrOverflow is returned when a row end offset does not fit in the
	// 16-bit row table.
	ErrOverflow = errors.New("rle: row offset overflows 16 bits")
	// ErrNotSmaller is returned when the encoding is not smaller than the
	// raw pixel data.
	ErrNotSmaller = errors.New("rle: encoding is not smaller than raw data")

	errDimensions = errors.New("rle: invalid dimensions")
)

// Compression identifies how the pixel data of a blob is stored.
type Compression int

// Compression kinds. Try only has meaning when creating a face, where it
// selects whichever run-length scheme suits the face kind if that turns out
// smaller.
const (
	None Compression = iota
	RowIndexed
	Streaming
	Try
)

var compressionNames = [...]string{
	None:       "NONE",
	RowIndexed: "RLE_LINE",
	Streaming:  "RLE_BASIC",
	Try:        "TRY_RLE",
}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return fmt.Sprintf("Compression(%d)", int(c))
	}
	return compressionNames[c]
}

// ParseCompression returns the Compression with the given name, as used in
// the manifest.
func ParseCompression(s string) (Compression, error) {
	for i, name := range compressionNames {
		if strings.EqualFold(s, name) {
			return Compression(i), nil
		}
	}
	return None, fmt.Errorf("rle: unknown compression %q", s)
}

// IsCompressed reports whether b starts with the run-length identifier.
func IsCompressed(b []byte) bool {
	return len(b) >= 2 && b[0] == magic0 && b[1] == magic1
}

// Decode decodes a blob of width by height pixels. If b does not start with
// the run-length identifier it is treated as plain RGB565. streaming selects
// the older scheme without a row table.
//
// Runs that would write past the end of a row in the row-indexed scheme are
// dropped.
func Decode(b []byte, width, height int, streaming bool) (*rgb565.Image, error) {
	return decode(b, width, height, Detect(b, streaming))
}

func decode(b []byte, width, height int, c Compression) (*rgb565.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errDimensions
	}
	if err := checkSize(b, width, height, c); err != nil {
		return nil, err
	}

	var d decoder
	d.init(width, height)

	var err error
	switch c {
	case None:
		err = d.decodeRaw(b)
	case RowIndexed:
		err = d.decodeRowIndexed(b)
	case Streaming:
		err = d.decodeStreaming(b)
	default:
		err = fmt.Errorf("rle: cannot decode %s", c)
	}
	if err != nil {
		return nil, err
	}

	return d.image, nil
}

// Detect returns the compression of a blob taken from a face whose
// run-length blobs use the streaming scheme if streaming is set.
func Detect(b []byte, streaming bool) Compression {
	switch {
	case !IsCompressed(b):
		return None
	case streaming:
		return Streaming
	default:
		return RowIndexed
	}
}

// EncodeRowIndexed encodes m using the row-indexed scheme. It returns
// ErrOverflow if the row table cannot address the data and ErrNotSmaller if
// the result would not be smaller than the raw pixels.
func EncodeRowIndexed(m *rgb565.Image) ([]byte, error) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, errDimensions
	}

	e := encoder{out: make([]byte, 2+2*h, 2+2*h+3*w)}
	e.out[0], e.out[1] = magic0, magic1

	for y := 0; y < h; y++ {
		e.writeRow(m, y)
		e.flush()
		if len(e.out) > maxOffset {
			return nil, ErrOverflow
		}
		binary.LittleEndian.PutUint16(e.out[2+2*y:], uint16(len(e.out)))
	}

	if len(e.out) >= 2*w*h {
		return nil, ErrNotSmaller
	}

	return e.out, nil
}

// EncodeStreaming encodes m using the streaming scheme. Runs continue across
// row boundaries. It returns ErrNotSmaller if the result would not be
// smaller than the raw pixels.
func EncodeStreaming(m *rgb565.Image) ([]byte, error) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, errDimensions
	}

	e := encoder{out: []byte{magic0, magic1}}
	for y := 0; y < h; y++ {
		e.writeRow(m, y)
	}
	e.flush()

	if len(e.out) >= 2*w*h {
		return nil, ErrNotSmaller
	}

	return e.out, nil
}
