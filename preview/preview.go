/*
Package preview builds images for looking at a face outside the watch.

Multi-frame slots, such as animations and progress bars, can be written as
an animated GIF with a palette quantized per frame, and read back from one.
Thumbnail scales a background down to the preview shown when choosing a
face on the watch, which is 140 by 163 pixels.
*/
package preview

const (
	// ThumbnailWidth is the width of the face selection preview.
	ThumbnailWidth = 140
	// ThumbnailHeight is the height of the face selection preview.
	ThumbnailHeight = 163

	maxColors = 256
)
