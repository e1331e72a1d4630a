package preview

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/watchface/rgb565"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(r image.Rectangle, c rgb565.Color) *rgb565.Image {
	m := rgb565.NewImage(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetColor(x, y, c)
		}
	}
	return m
}

func TestGIFRoundTrip(t *testing.T) {
	colors := []rgb565.Color{0xf800, 0x07e0, 0x001f}

	var frames []image.Image
	for _, c := range colors {
		frames = append(frames, solid(image.Rect(0, 0, 8, 6), c))
	}

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeGIF(buf, frames, 10))

	got, err := DecodeGIF(buf)
	require.NoError(t, err)
	require.Len(t, got, len(colors))

	for i, m := range got {
		assert.Equal(t, image.Rect(0, 0, 8, 6), m.Bounds())
		assert.Equal(t, colors[i], rgb565.Model.Convert(m.At(3, 3)), "frame %d", i)
	}
}

func TestGIFOffsetFrame(t *testing.T) {
	m := solid(image.Rect(10, 10, 14, 14), 0xffff)

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeGIF(buf, []image.Image{m}, 0))

	got, err := DecodeGIF(buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, image.Rect(0, 0, 4, 4), got[0].Bounds())
}

func TestGIFPaletted(t *testing.T) {
	p := color.Palette{color.Black, color.White}
	m := image.NewPaletted(image.Rect(0, 0, 2, 1), p)
	m.SetColorIndex(1, 0, 1)

	pm := paletted(m)
	assert.Equal(t, m, pm)

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeGIF(buf, []image.Image{m}, 0))
}

func TestGIFNoFrames(t *testing.T) {
	assert.Error(t, EncodeGIF(new(bytes.Buffer), nil, 0))
}

func TestThumbnail(t *testing.T) {
	src := solid(image.Rect(0, 0, 280, 240), 0x001f)

	m := Thumbnail(src, ThumbnailWidth, ThumbnailHeight)
	assert.Equal(t, image.Rect(0, 0, ThumbnailWidth, ThumbnailHeight), m.Bounds())
	assert.Equal(t, rgb565.Color(0x001f), m.ColorAt(70, 80))

	m = Thumbnail(src, 140, 0)
	assert.Equal(t, image.Rect(0, 0, 140, 120), m.Bounds())
}
