package face

import (
	"fmt"

	"github.com/bodgit/watchface/rle"
)

func (f *Face) start(b []byte, i int) (int, error) {
	if i < 0 || i >= MaxBlobs {
		return 0, fmt.Errorf("face: blob index %d out of range", i)
	}
	start := f.HeaderSize() + int(f.Offsets[i])
	if start > len(b) {
		return 0, &OffsetRangeError{Blob: i, Offset: f.Offsets[i], FileSize: len(b)}
	}
	return start, nil
}

// BlobData returns the bytes of the face file b from the start of blob i to
// the end of the file. Bitmap decoders stop at the end of the bitmap.
func (f *Face) BlobData(b []byte, i int) ([]byte, error) {
	start, err := f.start(b, i)
	if err != nil {
		return nil, err
	}
	return b[start:], nil
}

// storedSize returns the size table entry for blob i unless the entry holds
// the animation frame count.
func (f *Face) storedSize(i int) int {
	if i == f.Kind.AnimationSlot() && f.hasAnimation() {
		return 0
	}
	return int(f.Sizes[i])
}

// estimatedSize returns the size of an uncompressed bitmap for the slot
// that owns blob i, or zero.
func (f *Face) estimatedSize(i int) int {
	j, ok := f.SlotForBlob(i)
	if !ok {
		return 0
	}
	s := f.Slots[j]
	return int(s.W) * int(s.H) * 2
}

// BlobLength returns the length of blob i within the face file b. The size
// table is used if it has an entry, otherwise the distance to the next
// blob or the end of the file, and finally the size of an uncompressed
// bitmap for the owning slot.
//
// When the size table entry for an uncompressed blob disagrees with the
// slot, the length is returned together with a *SizeMismatchError.
func (f *Face) BlobLength(b []byte, i int) (int, error) {
	start, err := f.start(b, i)
	if err != nil {
		return 0, err
	}

	estimated := f.estimatedSize(i)

	if n := f.storedSize(i); n > 0 {
		if !rle.IsCompressed(b[start:]) && estimated != 0 && n != estimated {
			return n, &SizeMismatchError{Blob: i, Stored: n, Estimated: estimated}
		}
		return n, nil
	}

	switch {
	case i+1 < int(f.BlobCount) && i+1 < MaxBlobs && f.Offsets[i+1] > f.Offsets[i]:
		return int(f.Offsets[i+1] - f.Offsets[i]), nil
	case i == int(f.BlobCount)-1 && len(b) > start:
		return len(b) - start, nil
	case estimated > 0:
		return estimated, nil
	}

	return 0, fmt.Errorf("%w: blob %d", ErrUnknownLength, i)
}

// Blob returns blob i of the face file b. A *SizeMismatchError from
// BlobLength is passed on with the blob.
func (f *Face) Blob(b []byte, i int) ([]byte, error) {
	n, err := f.BlobLength(b, i)
	if n == 0 {
		return nil, err
	}

	start, _ := f.start(b, i)
	if start+n > len(b) {
		return nil, fmt.Errorf("face: blob %d exceeds end of file (%d > %d)", i, start+n, len(b))
	}

	return b[start : start+n], err
}
