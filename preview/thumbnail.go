package preview

import (
	"image"

	"github.com/bodgit/watchface/rgb565"
	"github.com/disintegration/gift"
)

// Thumbnail resizes m to width by height pixels.
func Thumbnail(m image.Image, width, height int) *rgb565.Image {
	g := gift.New(gift.Resize(width, height, gift.LanczosResampling))

	dst := rgb565.NewImage(g.Bounds(m.Bounds()))
	g.Draw(dst, m)

	return dst
}
