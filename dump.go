package watchface

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/watchface/bmp"
	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/manifest"
	"github.com/bodgit/watchface/preview"
	"github.com/bodgit/watchface/rle"
)

const (
	stripWidth  = 240
	stripHeight = 24

	gifDelay = 10
)

// DumpOptions controls how a face file is dumped.
type DumpOptions struct {
	// Folder to dump into, the face number is used if empty
	Folder string
	// Kind of the face file, detected if zero
	Kind face.Kind
	// Raw also writes every blob as it is stored in the file
	Raw bool
	// BitsPerPixel of the bitmaps, 16 or 24
	BitsPerPixel int
	// Format of the manifest
	Format manifest.Format
	// GIF also writes every multi-frame slot as an animated GIF
	GIF bool
}

// dumpBlob is a blob that is written out as a bitmap.
type dumpBlob struct {
	index int
	slot  int
	w, h  int
}

// plan works out which blobs become bitmaps and what size they are. Blobs
// that don't belong to any slot are returned separately, except for the last
// one which is the preview shown when choosing a face.
func (t *Tool) plan(f *face.Face) ([]dumpBlob, []int) {
	var blobs []dumpBlob
	var unowned []int
	for i := 0; i < int(f.BlobCount); i++ {
		j, ok := f.SlotForBlob(i)
		switch {
		case ok:
			s := f.Slots[j]
			w, h := int(s.W), int(s.H)
			if f.Kind == face.Kind1 && s.Type == face.TypeBackgrounds && (w != stripWidth || h != stripHeight) {
				t.warn(fmt.Errorf("overriding %dx%d with %dx%d for blob %04d of type 0x%02x", w, h, stripWidth, stripHeight, i, s.Type))
				w, h = stripWidth, stripHeight
			}
			blobs = append(blobs, dumpBlob{index: i, slot: j, w: w, h: h})
		case i == int(f.BlobCount)-1:
			blobs = append(blobs, dumpBlob{index: i, slot: -1, w: preview.ThumbnailWidth, h: preview.ThumbnailHeight})
		default:
			unowned = append(unowned, i)
		}
	}
	return blobs, unowned
}

// Dump writes every blob of the face file as a bitmap into a folder along
// with a manifest that Create can use to build the face file again. A blob
// that cannot be decoded is logged and skipped.
func (t *Tool) Dump(file string, o DumpOptions) error {
	b, f, err := t.load(file, o.Kind)
	if err != nil {
		return err
	}

	if f.Kind == face.Kind2 {
		return fmt.Errorf("%w: type %s blobs are compressed", face.ErrUnsupportedKind, f.Kind)
	}

	bpp := o.BitsPerPixel
	if bpp == 0 {
		bpp = 16
	}

	blobs, unowned := t.plan(f)
	for _, d := range blobs {
		if err := bmp.CheckWidth(d.w, bpp); err != nil {
			return fmt.Errorf("blob %04d: %w", d.index, err)
		}
	}

	for _, err := range f.Validate() {
		t.warn(err)
	}

	folder := o.Folder
	if folder == "" {
		folder = fmt.Sprint(f.FaceNumber)
	}
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}

	m := manifest.New(f)

	if o.Raw {
		t.dumpRaw(folder, b, f)
	} else {
		// Without a size these can only be carried over as stored
		for _, i := range unowned {
			t.warn(fmt.Errorf("blob %04d belongs to no slot, dumping it as stored", i))
			t.dumpRawBlob(folder, b, f, i)
		}
	}

	frames := make(map[int]image.Image)
	for _, d := range blobs {
		data, err := f.BlobData(b, d.index)
		if err != nil {
			t.warn(fmt.Errorf("blob %04d: %w", d.index, err))
			continue
		}

		if c := rle.Detect(data, f.Kind.Streaming()); c != rle.None {
			m.Compression[d.index] = c
		}

		img, err := rle.Decode(data, d.w, d.h, f.Kind.Streaming())
		if err != nil {
			t.warn(fmt.Errorf("blob %04d: %w", d.index, err))
			continue
		}
		frames[d.index] = img

		name := filepath.Join(folder, manifest.BlobFilename(d.index))
		t.debugf("Dumping BMP %dx%d to file %s\n", d.w, d.h, name)
		if err := writeBitmap(name, img, bpp); err != nil {
			return err
		}
	}

	if o.GIF {
		if err := t.dumpGIFs(folder, f, frames); err != nil {
			return err
		}
	}

	name := filepath.Join(folder, o.Format.Filename())
	t.debugf("Writing manifest to file %s\n", name)

	return writeFile(name, func(w io.Writer) error {
		return manifest.WriteFormat(w, m, o.Format)
	})
}

// dumpRaw writes each blob exactly as stored.
func (t *Tool) dumpRaw(folder string, b []byte, f *face.Face) {
	for i := 0; i < int(f.BlobCount); i++ {
		t.dumpRawBlob(folder, b, f, i)
	}
}

func (t *Tool) dumpRawBlob(folder string, b []byte, f *face.Face, i int) {
	data, err := f.Blob(b, i)
	var sme *face.SizeMismatchError
	switch {
	case errors.As(err, &sme):
		t.warn(err)
	case err != nil:
		t.warn(fmt.Errorf("not dumping raw blob %04d: %w", i, err))
		return
	}

	name := filepath.Join(folder, fmt.Sprintf("%04d.raw", i))
	t.debugf("Dumping RAW length %6d to file %s\n", len(data), name)
	if err := writeFile(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		t.warn(fmt.Errorf("failed to write %s: %w", name, err))
	}
}

// dumpGIFs writes the frames of each slot with more than one frame as an
// animated GIF named after its first blob.
func (t *Tool) dumpGIFs(folder string, f *face.Face, frames map[int]image.Image) error {
	for _, j := range f.Populated() {
		s := f.Slots[j]
		n := f.Frames(s)
		if n < 2 {
			continue
		}

		var images []image.Image
		for k := 0; k < n; k++ {
			if m, ok := frames[int(s.Index)+k]; ok {
				images = append(images, m)
			}
		}
		if len(images) == 0 {
			continue
		}

		name := filepath.Join(folder, fmt.Sprintf("%04d.gif", s.Index))
		t.debugf("Dumping GIF of %d frames to file %s\n", len(images), name)
		if err := writeFile(name, func(w io.Writer) error {
			return preview.EncodeGIF(w, images, gifDelay)
		}); err != nil {
			return err
		}
	}
	return nil
}
