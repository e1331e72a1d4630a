package preview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

func paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= maxColors {
			pm = image.NewPaletted(b, cp)
			draw.Draw(pm, b, m, b.Min, draw.Src)
		}
	}

	if pm == nil {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}

// EncodeGIF writes the frames to w as an endlessly looping animated GIF
// showing each frame for delay hundredths of a second.
func EncodeGIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return errors.New("preview: no frames")
	}

	g := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, m := range frames {
		g.Image = append(g.Image, paletted(m))
		g.Delay = append(g.Delay, delay)
	}

	return gif.EncodeAll(w, g)
}

// DecodeGIF reads every frame of a GIF from r. Each frame is drawn over the
// ones before it so the result holds complete images.
func DecodeGIF(r io.Reader) ([]image.Image, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	canvas := image.NewNRGBA(bounds)

	frames := make([]image.Image, 0, len(g.Image))
	for _, pm := range g.Image {
		draw.Draw(canvas, pm.Bounds(), pm, pm.Bounds().Min, draw.Over)
		frame := image.NewNRGBA(bounds)
		copy(frame.Pix, canvas.Pix)
		frames = append(frames, frame)
	}

	return frames, nil
}
