package rgb565

import (
	"image"
	"image/color"
)

// Image is an in-memory RGB565 image with pixels in face file byte order.
// It implements draw.Image.
type Image struct {
	// Pix holds two bytes per pixel, most significant byte first.
	Pix []uint8
	// Stride is the Pix stride in bytes between vertically adjacent pixels.
	Stride int
	Rect   image.Rectangle
}

// NewImage returns a new black Image with the given bounds.
func NewImage(r image.Rectangle) *Image {
	return &Image{
		Pix:    make([]uint8, 2*r.Dx()*r.Dy()),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

func (p *Image) ColorModel() color.Model {
	return Model
}

func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Image) At(x, y int) color.Color {
	return p.ColorAt(x, y)
}

// ColorAt returns the pixel at (x, y), or black outside the bounds.
func (p *Image) ColorAt(x, y int) Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return Load(p.Pix[i : i+2])
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetColor(x, y, model(c).(Color))
}

// SetColor sets the pixel at (x, y). Points outside the bounds are ignored.
func (p *Image) SetColor(x, y int, c Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	c.Store(p.Pix[i : i+2])
}

// Opaque always returns true.
func (p *Image) Opaque() bool {
	return true
}

// SubImage returns an image representing the portion of p visible through
// r. The returned image shares pixels with p.
func (p *Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &Image{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &Image{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}
