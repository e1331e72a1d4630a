package watchface

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/watchface/bmp"
	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/manifest"
	"github.com/bodgit/watchface/preview"
	"github.com/bodgit/watchface/rgb565"
	"github.com/bodgit/watchface/rle"
)

// CreateOptions controls how a face file is created.
type CreateOptions struct {
	// Folder holding the manifest and bitmaps
	Folder string
	// Output is the face file to write, the folder name with a .bin
	// extension if empty
	Output string
	// Kind overrides the file type in the manifest if non-zero
	Kind face.Kind
	// Format of the manifest
	Format manifest.Format
	// Thumbnail generates a missing face selection preview from the
	// background
	Thumbnail bool
}

// creator holds the state of one Create call.
type creator struct {
	*Tool
	folder   string
	kind     face.Kind
	manifest *manifest.Manifest

	background     image.Image
	backgroundSlot *manifest.FaceData

	// Decoded GIF files, by name
	gifs map[string][]*rgb565.Image
}

// Create builds a face file from a folder previously written by Dump.
func (t *Tool) Create(o CreateOptions) error {
	m, err := readManifest(o.Folder, o.Format)
	if err != nil {
		return err
	}

	c := &creator{
		Tool:     t,
		folder:   o.Folder,
		kind:     m.FileType,
		manifest: m,
		gifs:     make(map[string][]*rgb565.Image),
	}
	if o.Kind != 0 {
		c.kind = o.Kind
	}

	b, err := c.build(o.Thumbnail)
	if err != nil {
		return err
	}

	output := o.Output
	if output == "" {
		output = filepath.Clean(o.Folder) + ".bin"
	}
	t.debugf("Writing %d bytes to file %s\n", len(b), output)

	return writeFile(output, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

func readManifest(folder string, format manifest.Format) (*manifest.Manifest, error) {
	f, err := os.Open(filepath.Join(folder, format.Filename()))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := manifest.ReadFormat(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}

	return m, nil
}

func (c *creator) build(thumbnail bool) ([]byte, error) {
	if c.kind == face.Kind2 {
		return nil, fmt.Errorf("%w: cannot create type %s", face.ErrUnsupportedKind, c.kind)
	}

	builder := face.NewBuilder(c.kind)
	builder.FileID = c.manifest.FileID
	builder.FaceNumber = c.manifest.FaceNumber
	builder.AnimationFrames = uint16(c.manifest.AnimationFrames)

	for _, fd := range c.manifest.FaceData {
		if err := builder.AddSlot(fd.Slot); err != nil {
			return nil, err
		}
	}

	if len(c.manifest.FaceData) != c.manifest.DataCount {
		c.warn(&face.CountMismatchError{Field: "dataCount", Declared: c.manifest.DataCount, Counted: len(c.manifest.FaceData)})
	}

	if err := c.loadBackground(); err != nil {
		return nil, err
	}

	n := c.blobCount()
	for i := 0; i < n; i++ {
		p, err := c.blob(i, thumbnail && i == n-1)
		if err != nil {
			return nil, fmt.Errorf("blob %04d: %w", i, err)
		}
		if _, err := builder.AddBlob(p); err != nil {
			return nil, err
		}
	}

	return builder.Bytes()
}

// blobCount returns the number of blobs declared in the manifest, raised
// to cover every frame of every slot.
func (c *creator) blobCount() int {
	n := c.manifest.BlobCount
	for _, fd := range c.manifest.FaceData {
		if end := int(fd.Index) + fd.Frames(c.manifest.AnimationFrames); end > n {
			c.warn(&face.CountMismatchError{Field: "blobCount", Declared: n, Counted: end})
			n = end
		}
	}
	return n
}

// owner returns the first slot whose frames include blob i and which frame
// of that slot it is.
func (c *creator) owner(i int) (*manifest.FaceData, int) {
	for j := range c.manifest.FaceData {
		fd := &c.manifest.FaceData[j]
		if k := i - int(fd.Index); k >= 0 && k < fd.Frames(c.manifest.AnimationFrames) {
			return fd, k
		}
	}
	return nil, 0
}

func slotFilename(fd *manifest.FaceData) string {
	if fd.Filename != "" {
		return fd.Filename
	}
	return manifest.BlobFilename(int(fd.Index))
}

// loadBackground loads the first frame of the background slot, used to
// blend images with transparency and for the face selection preview.
func (c *creator) loadBackground() error {
	for _, t := range []uint8{face.TypeBackground, face.TypeBackgrounds} {
		for j := range c.manifest.FaceData {
			fd := &c.manifest.FaceData[j]
			if fd.Type != t {
				continue
			}
			images, err := c.images(slotFilename(fd), nil)
			if errors.Is(err, os.ErrNotExist) {
				c.warn(err)
				return nil
			}
			if err != nil {
				return err
			}
			c.background, c.backgroundSlot = images[0], fd
			return nil
		}
	}
	c.warn(face.ErrNoBackground)
	return nil
}

// options returns the background to blend the images of fd against.
func (c *creator) options(fd *manifest.FaceData) *bmp.Options {
	if c.background == nil || fd == c.backgroundSlot {
		return nil
	}
	return &bmp.Options{
		Background: c.background,
		Offset:     image.Pt(int(fd.X)-int(c.backgroundSlot.X), int(fd.Y)-int(c.backgroundSlot.Y)),
	}
}

func (c *creator) images(name string, o *bmp.Options) ([]*rgb565.Image, error) {
	if images, ok := c.gifs[name]; ok {
		return images, nil
	}

	images, err := loadImages(filepath.Join(c.folder, name), o)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%s: no images", name)
	}

	if isGIF(name) {
		c.gifs[name] = images
	}

	return images, nil
}

// blob returns the stored bytes of blob i. The bitmap is looked up via the
// slot that owns it, falling back to the raw blob written by Dump. If
// thumb is set and the blob has no bitmap, a thumbnail of the background
// is used.
func (c *creator) blob(i int, thumb bool) ([]byte, error) {
	fd, k := c.owner(i)

	var name string
	var o *bmp.Options
	switch {
	case fd == nil:
		name = manifest.BlobFilename(i)
	case isGIF(slotFilename(fd)):
		name = slotFilename(fd)
		o = c.options(fd)
	default:
		var err error
		if name, err = frameFilename(slotFilename(fd), k); err != nil {
			return nil, err
		}
		o = c.options(fd)
		k = 0
	}

	m, err := c.frame(name, k, o)
	if errors.Is(err, os.ErrNotExist) {
		return c.fallback(i, thumb, err)
	}
	if err != nil {
		return nil, err
	}

	if fd != nil && (m.Rect.Dx() != int(fd.W) || m.Rect.Dy() != int(fd.H)) {
		c.warn(fmt.Errorf("%s is %dx%d, slot 0x%02x is %dx%d", name, m.Rect.Dx(), m.Rect.Dy(), fd.Type, fd.W, fd.H))
	}

	return c.encode(i, m)
}

func (c *creator) frame(name string, k int, o *bmp.Options) (*rgb565.Image, error) {
	images, err := c.images(name, o)
	if err != nil {
		return nil, err
	}
	if k >= len(images) {
		return nil, fmt.Errorf("%s has %d frames, need frame %d", name, len(images), k)
	}
	return images[k], nil
}

func (c *creator) fallback(i int, thumb bool, err error) ([]byte, error) {
	raw := filepath.Join(c.folder, fmt.Sprintf("%04d.raw", i))
	if b, rerr := ioutil.ReadFile(raw); rerr == nil {
		c.debugf("Using RAW file %s\n", raw)
		return b, nil
	}

	if thumb && c.background != nil {
		c.debugf("Generating %dx%d preview for blob %04d\n", preview.ThumbnailWidth, preview.ThumbnailHeight, i)
		return c.encode(i, preview.Thumbnail(c.background, preview.ThumbnailWidth, preview.ThumbnailHeight))
	}

	return nil, err
}

// encode stores m using the compression the manifest asks for.
func (c *creator) encode(i int, m *rgb565.Image) ([]byte, error) {
	img := rle.NewImage(m)

	compression := c.manifest.CompressionFor(i)
	if compression == rle.Try {
		compression = rle.RowIndexed
		if c.kind.Streaming() {
			compression = rle.Streaming
		}
	}

	ok, err := img.Compress(compression)
	if err != nil {
		return nil, err
	}
	if compression != rle.None && !ok {
		c.debugf("Blob %04d left uncompressed\n", i)
	}

	return img.Data, nil
}
