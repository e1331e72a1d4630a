package watchface

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bodgit/watchface/bmp"
	"github.com/bodgit/watchface/preview"
	"github.com/bodgit/watchface/rgb565"
)

// toRGB565 converts m to a watch bitmap with its top-left corner at the
// origin. If a background is given, m is drawn over it.
func toRGB565(m image.Image, o *bmp.Options) *rgb565.Image {
	if p, ok := m.(*rgb565.Image); ok && p.Rect.Min == (image.Point{}) {
		return p
	}

	b := m.Bounds()
	dst := rgb565.NewImage(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o != nil && o.Background != nil {
		draw.Draw(dst, dst.Rect, o.Background, o.Background.Bounds().Min.Add(o.Offset), draw.Src)
		draw.Draw(dst, dst.Rect, m, b.Min, draw.Over)
		return dst
	}

	draw.Draw(dst, dst.Rect, m, b.Min, draw.Src)

	return dst
}

// loadImages reads the bitmap file name. Interchange bitmaps are read with
// the strict reader, GIF files return every frame and anything else the
// image package can decode is converted. Pixels with alpha are drawn over
// the background in o, if any.
func loadImages(name string, o *bmp.Options) ([]*rgb565.Image, error) {
	b, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(b, []byte("BM")) {
		m, err := bmp.Decode(bytes.NewReader(b), o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return []*rgb565.Image{m}, nil
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var images []image.Image
	switch format {
	case "gif":
		if images, err = preview.DecodeGIF(bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		m, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		images = append(images, m)
	}

	out := make([]*rgb565.Image, 0, len(images))
	for _, m := range images {
		out = append(out, toRGB565(m, o))
	}

	return out, nil
}

func isGIF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gif")
}
