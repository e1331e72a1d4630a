package rgb565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRGB888(t *testing.T) {
	tables := []struct {
		name    string
		stored  uint16
		r, g, b uint8
	}{
		{"black", 0x0000, 0x00, 0x00, 0x00},
		{"white", 0xffff, 0xff, 0xff, 0xff},
		// 0xf800 is pure red, stored as 00 f8
		{"red", 0x00f8, 0xff, 0x00, 0x00},
		{"green", 0xe007, 0x00, 0xff, 0x00},
		{"blue", 0x1f00, 0x00, 0x00, 0xff},
		// red field 0b10000 -> 0b10000100
		{"half red", 0x0080, 0x84, 0x00, 0x00},
		// green field 0b100000 -> 0b10000010
		{"half green", 0x0004, 0x00, 0x82, 0x00},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			r, g, b := ToRGB888(table.stored)
			assert.Equal(t, table.r, r, "red")
			assert.Equal(t, table.g, g, "green")
			assert.Equal(t, table.b, b, "blue")
		})
	}
}

func TestReplicatedLowBits(t *testing.T) {
	for v := 0; v <= 0xffff; v++ {
		r, g, b := Color(v).RGB888()
		assert.Equal(t, r>>5, r&0x07)
		assert.Equal(t, g>>6, g&0x03)
		assert.Equal(t, b>>5, b&0x07)
	}
}

func TestFromRGB888(t *testing.T) {
	assert.Equal(t, Color(0xf800), FromRGB888(0xff, 0x00, 0x00))
	assert.Equal(t, Color(0x07e0), FromRGB888(0x00, 0xff, 0x00))
	assert.Equal(t, Color(0x001f), FromRGB888(0x00, 0x00, 0xff))
	// Low bits are truncated, not rounded
	assert.Equal(t, Color(0x0000), FromRGB888(0x07, 0x03, 0x07))
	assert.Equal(t, Color(0x0821), FromRGB888(0x08, 0x04, 0x08))
}

func TestFromARGB8888IgnoresAlpha(t *testing.T) {
	for _, a := range []uint8{0x00, 0x7f, 0xff} {
		assert.Equal(t, FromRGB888(0x12, 0x34, 0x56), FromARGB8888(a, 0x12, 0x34, 0x56))
	}
}

func TestRoundTripFields(t *testing.T) {
	// Expanding then truncating recovers the original fields
	for v := 0; v <= 0xffff; v += 7 {
		r, g, b := Color(v).RGB888()
		assert.Equal(t, Color(v), FromRGB888(r, g, b))
	}
}

func TestBlend(t *testing.T) {
	bg := Color(0x1234)

	t.Run("transparent", func(t *testing.T) {
		assert.Equal(t, bg, Blend(bg, 0xff, 0xff, 0xff, 0x00))
	})

	t.Run("opaque", func(t *testing.T) {
		assert.Equal(t, FromRGB888(0xab, 0xcd, 0xef), Blend(bg, 0xab, 0xcd, 0xef, 0xff))
	})

	t.Run("half", func(t *testing.T) {
		// (128*0 + 127*255) / 255 = 127
		assert.Equal(t, FromRGB888(127, 127, 127), Blend(0, 0xff, 0xff, 0xff, 127))
	})
}

func TestLoadStore(t *testing.T) {
	b := []byte{0xf8, 0x00}
	c := Load(b)
	assert.Equal(t, Color(0xf800), c)

	var out [2]byte
	c.Store(out[:])
	assert.Equal(t, b, out[:])

	assert.Equal(t, Color(0xf800), Swap(0x00f8))
}

func TestImage(t *testing.T) {
	m := NewImage(image.Rect(0, 0, 3, 2))
	assert.Len(t, m.Pix, 12)

	m.Set(1, 1, color.RGBA{0xff, 0x00, 0x00, 0xff})
	assert.Equal(t, Color(0xf800), m.ColorAt(1, 1))
	assert.Equal(t, []byte{0xf8, 0x00}, m.Pix[m.PixOffset(1, 1):m.PixOffset(1, 1)+2])

	// Out of bounds is ignored and reads back black
	m.SetColor(5, 5, 0xffff)
	assert.Equal(t, Color(0), m.ColorAt(5, 5))

	dst := image.NewRGBA(m.Bounds())
	draw.Draw(dst, dst.Bounds(), m, image.Point{}, draw.Src)
	assert.Equal(t, color.RGBA{0xff, 0x00, 0x00, 0xff}, dst.RGBAAt(1, 1))
}

func TestModel(t *testing.T) {
	c := Model.Convert(color.NRGBA{0xff, 0xff, 0xff, 0x00})
	assert.Equal(t, Color(0xffff), c)
	assert.Equal(t, Color(0x1234), Model.Convert(Color(0x1234)))
}
