package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/watchface/rgb565"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"
)

func testImage(w, h int) *rgb565.Image {
	m := rgb565.NewImage(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetColor(x, y, rgb565.Color(y*w*997+x*31+y))
		}
	}
	return m
}

func encode(t *testing.T, m image.Image, bpp int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, m, &Options{BitsPerPixel: bpp}))
	return buf.Bytes()
}

func TestEncode16Header(t *testing.T) {
	b := encode(t, testImage(3, 2), 16)

	assert.Equal(t, []byte("BM"), b[:2])
	assert.Equal(t, uint32(len(b)), binary.LittleEndian.Uint32(b[2:]))
	assert.Equal(t, uint32(122), binary.LittleEndian.Uint32(b[10:]))
	assert.Equal(t, uint32(108), binary.LittleEndian.Uint32(b[14:]))
	assert.Equal(t, int32(3), int32(binary.LittleEndian.Uint32(b[18:])))
	assert.Equal(t, int32(-2), int32(binary.LittleEndian.Uint32(b[22:])))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(b[28:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(b[30:]))
	// 3 pixels is 6 bytes, padded to 8
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(b[34:]))
	assert.Equal(t, uint32(2835), binary.LittleEndian.Uint32(b[38:]))
	assert.Equal(t, uint32(0xf800), binary.LittleEndian.Uint32(b[54:]))
	assert.Equal(t, uint32(0x07e0), binary.LittleEndian.Uint32(b[58:]))
	assert.Equal(t, uint32(0x001f), binary.LittleEndian.Uint32(b[62:]))
	assert.Len(t, b, 122+16)
}

func TestEncode24Header(t *testing.T) {
	b := encode(t, testImage(3, 2), 24)

	assert.Equal(t, uint32(54), binary.LittleEndian.Uint32(b[10:]))
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(b[14:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[30:]))
	// 3 pixels is 9 bytes, padded to 12
	assert.Len(t, b, 54+24)
}

func TestRoundTrip16(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {3, 2}, {4, 4}, {240, 3}} {
		m := testImage(size.X, size.Y)
		d, err := Decode(bytes.NewReader(encode(t, m, 16)), nil)
		require.NoError(t, err)
		assert.Equal(t, m.Rect, d.Rect)
		assert.Equal(t, m.Pix, d.Pix)
	}
}

func TestRoundTrip24(t *testing.T) {
	m := testImage(5, 3)
	d, err := Decode(bytes.NewReader(encode(t, m, 24)), nil)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, d.Pix)
}

func TestEncode24ReadableByXImage(t *testing.T) {
	m := testImage(5, 3)

	x, err := xbmp.Decode(bytes.NewReader(encode(t, m, 24)))
	require.NoError(t, err)
	require.Equal(t, m.Bounds(), x.Bounds())

	for y := 0; y < 3; y++ {
		for i := 0; i < 5; i++ {
			r, g, b := m.ColorAt(i, y).RGB888()
			assert.Equal(t, color.RGBA{r, g, b, 0xff}, color.RGBAModel.Convert(x.At(i, y)))
		}
	}
}

func TestDecodeBottomUp24(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 100), uint8(y * 100), 0x40, 0xff})
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, xbmp.Encode(buf, src))

	d, err := Decode(buf, nil)
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, rgb565.FromRGB888(uint8(x*100), uint8(y*100), 0x40), d.ColorAt(x, y))
		}
	}
}

func decode32(t *testing.T, o *Options) *rgb565.Image {
	t.Helper()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0xff, 0x00, 0x00, 0x00})
	src.SetNRGBA(1, 0, color.NRGBA{0xff, 0x00, 0x00, 0xff})

	buf := new(bytes.Buffer)
	require.NoError(t, xbmp.Encode(buf, src))
	require.Equal(t, uint16(32), binary.LittleEndian.Uint16(buf.Bytes()[28:]))

	d, err := Decode(buf, o)
	require.NoError(t, err)
	return d
}

func TestDecode32IgnoresAlpha(t *testing.T) {
	d := decode32(t, nil)
	assert.Equal(t, rgb565.Color(0xf800), d.ColorAt(0, 0))
	assert.Equal(t, rgb565.Color(0xf800), d.ColorAt(1, 0))
}

func TestDecode32Blend(t *testing.T) {
	bg := rgb565.NewImage(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bg.SetColor(x, y, 0x07e0)
		}
	}
	bg.SetColor(5, 5, 0x001f)

	d := decode32(t, &Options{Background: bg, Offset: image.Pt(5, 5)})
	assert.Equal(t, rgb565.Color(0x001f), d.ColorAt(0, 0))
	assert.Equal(t, rgb565.Color(0xf800), d.ColorAt(1, 0))
}

func TestDecodeRecomputesImageSize(t *testing.T) {
	m := testImage(3, 2)
	b := encode(t, m, 16)
	binary.LittleEndian.PutUint32(b[34:], 0)

	d, err := Decode(bytes.NewReader(b), nil)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, d.Pix)
}

func TestDecodeFormatErrors(t *testing.T) {
	valid := encode(t, testImage(3, 2), 16)

	tables := []struct {
		name   string
		modify func([]byte) []byte
	}{
		{"short", func(b []byte) []byte { return b[:20] }},
		{"signature", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"header size", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[14:], 12); return b }},
		{"header size 120", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[14:], 120); return b }},
		{"planes", func(b []byte) []byte { binary.LittleEndian.PutUint16(b[26:], 2); return b }},
		{"reserved", func(b []byte) []byte { b[6] = 1; return b }},
		{"bpp", func(b []byte) []byte { binary.LittleEndian.PutUint16(b[28:], 8); return b }},
		{"16 bpp without bitfields", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[30:], 0); return b }},
		{"masks", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[54:], 0x7c00); return b }},
		{"width", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[18:], 0); return b }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-1] }},
		{"offset", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[10:], 20); return b }},
		{"offset past end", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[10:], 0xffffffff); return b }},
		{"short header", func(b []byte) []byte { return b[:100] }},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b := table.modify(append([]byte(nil), valid...))
			_, err := Decode(bytes.NewReader(b), nil)
			var fe FormatError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}

// rawBitmap returns a file of size bytes with a 40 byte information header
// describing a w by h image and no bitfields.
func rawBitmap(w, h int32, bpp uint16, size int) []byte {
	b := make([]byte, size)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:], uint32(size))
	binary.LittleEndian.PutUint32(b[10:], 54)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint32(b[18:], uint32(w))
	binary.LittleEndian.PutUint32(b[22:], uint32(h))
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], bpp)
	return b
}

func TestDecodeOversized(t *testing.T) {
	tables := []struct {
		name string
		w, h int32
		bpp  uint16
	}{
		{"overflowing", 0x7fffffff, -0x80000000, 32},
		{"wide", 0x7fffffff, 1, 24},
		{"tall", 1, 0x7fffffff, 16},
		{"most negative height", 1, -0x80000000, 24},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b := rawBitmap(table.w, table.h, table.bpp, 200)
			if table.bpp == 16 {
				binary.LittleEndian.PutUint32(b[30:], biBitfields)
				for i, m := range rgb565Masks {
					binary.LittleEndian.PutUint32(b[54+4*i:], m)
				}
				binary.LittleEndian.PutUint32(b[10:], 66)
			}

			_, err := DecodeConfig(bytes.NewReader(b))
			assert.IsType(t, FormatError(""), err)

			_, err = Decode(bytes.NewReader(b), nil)
			assert.IsType(t, FormatError(""), err)
		})
	}

	// The same header with enough pixel data is fine
	b := rawBitmap(2, -3, 32, 54+2*3*4)
	config, err := DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 2, config.Width)
	assert.Equal(t, 3, config.Height)
}

func TestDecode32AlphaMask(t *testing.T) {
	// V4 header, 1x1 32 bpp with bitfields
	b := make([]byte, 14+108+4)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:], uint32(len(b)))
	binary.LittleEndian.PutUint32(b[10:], 14+108)
	binary.LittleEndian.PutUint32(b[14:], 108)
	binary.LittleEndian.PutUint32(b[18:], 1)
	binary.LittleEndian.PutUint32(b[22:], 1)
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], 32)
	binary.LittleEndian.PutUint32(b[30:], biBitfields)
	for i, m := range rgb888Masks {
		binary.LittleEndian.PutUint32(b[54+4*i:], m)
	}
	copy(b[122:], []byte{0x00, 0x00, 0xff, 0xff})

	for _, mask := range []uint32{0, 0xff000000} {
		binary.LittleEndian.PutUint32(b[66:], mask)
		m, err := Decode(bytes.NewReader(b), nil)
		require.NoError(t, err, "alpha mask %#x", mask)
		assert.Equal(t, rgb565.Color(0xf800), m.ColorAt(0, 0))
	}

	binary.LittleEndian.PutUint32(b[66:], 0x000000ff)
	_, err := Decode(bytes.NewReader(b), nil)
	assert.IsType(t, FormatError(""), err)
}

func TestDecode24Compression(t *testing.T) {
	b := encode(t, testImage(3, 2), 24)

	binary.LittleEndian.PutUint32(b[30:], 1)
	_, err := Decode(bytes.NewReader(b), nil)
	assert.IsType(t, FormatError(""), err)
}

func TestDecode24Bitfields(t *testing.T) {
	m := testImage(3, 2)
	b := encode(t, m, 24)

	// Insert RGB888 masks after the information header
	masks := make([]byte, 12)
	binary.LittleEndian.PutUint32(masks[0:], 0x00ff0000)
	binary.LittleEndian.PutUint32(masks[4:], 0x0000ff00)
	binary.LittleEndian.PutUint32(masks[8:], 0x000000ff)
	b = append(b[:54:54], append(masks, b[54:]...)...)
	binary.LittleEndian.PutUint32(b[10:], 66)
	binary.LittleEndian.PutUint32(b[30:], 3)

	d, err := Decode(bytes.NewReader(b), nil)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, d.Pix)

	binary.LittleEndian.PutUint32(b[54:], 0x000000ff)
	_, err = Decode(bytes.NewReader(b), nil)
	assert.IsType(t, FormatError(""), err)
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(bytes.NewReader(encode(t, testImage(7, 5), 16)))
	require.NoError(t, err)
	assert.Equal(t, 7, c.Width)
	assert.Equal(t, 5, c.Height)
	assert.Equal(t, rgb565.Model, c.ColorModel)

	bpp, err := BitsPerPixel(bytes.NewReader(encode(t, testImage(7, 5), 24)))
	require.NoError(t, err)
	assert.Equal(t, 24, bpp)
}

func TestCheckWidth(t *testing.T) {
	assert.NoError(t, CheckWidth(4096, 16))
	assert.True(t, errors.Is(CheckWidth(4097, 16), ErrTooWide))
	assert.NoError(t, CheckWidth(2730, 24))
	assert.True(t, errors.Is(CheckWidth(2731, 24), ErrTooWide))
}

func TestEncodeTooWide(t *testing.T) {
	buf := new(bytes.Buffer)
	err := Encode(buf, rgb565.NewImage(image.Rect(0, 0, 5000, 1)), nil)
	assert.True(t, errors.Is(err, ErrTooWide))
	assert.Zero(t, buf.Len())
}

func TestEncodeUnsupportedDepth(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), testImage(1, 1), &Options{BitsPerPixel: 32}))
}

func TestEncodeOffsetBounds(t *testing.T) {
	m := testImage(6, 6)
	sub := m.SubImage(image.Rect(2, 1, 5, 4))

	d, err := Decode(bytes.NewReader(encode(t, sub, 16)), nil)
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, m.ColorAt(x+2, y+1), d.ColorAt(x, y))
		}
	}
}
