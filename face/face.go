/*
Package face implements the binary watch face file.

A face file is a fixed size header followed by the blob data. All integers
are little-endian. The header starts with:

	0 file ID, usually 0x04, 0x81 or 0x84
	1 number of slot descriptors in use
	2 number of blobs
	3 face number, uint16

followed by the slot descriptors. Type A files have 32 six byte descriptors
holding the type, x, y, width, height and first blob index as single bytes,
then 3 bytes of padding. Type B and C files have 39 ten byte descriptors
holding the type and first blob index as single bytes and the x, y, width
and height as uint16, then 5 bytes of padding.

The padding is followed by 250 uint32 blob offsets, relative to the end of
the header, and 250 uint16 blob sizes. The sizes are often zero or wrong.
If the face has an animated slot, entry 200 (type A) or 0 (types B and C) of
the size table holds the number of animation frames instead.

This makes the header 1700 bytes for type A and 1900 bytes otherwise.
*/
package face

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// MaxSlots is the largest number of slot descriptors a header holds.
	MaxSlots = 39
	// MaxBlobs is the number of entries in the offset and size tables.
	MaxBlobs = 250
	// MinHeaderSize is the size of the smallest header.
	MinHeaderSize = kind1HeaderSize

	kind1Slots      = 32
	kind1HeaderSize = 1700
	headerSize      = 1900
)

// Slot describes where one element of the face is drawn and which blobs
// hold its bitmaps.
type Slot struct {
	Type  uint8
	Index uint8
	X, Y  uint16
	W, H  uint16
}

// Frames returns the number of consecutive blobs used by the slot. Animated
// slots use the given animation frame count.
func (s Slot) Frames(animationFrames int) int {
	if IsAnimation(s.Type) {
		return animationFrames
	}
	if t, ok := LookupType(s.Type); ok {
		return t.Frames
	}
	return 1
}

// Face is a parsed face file header. It implements the
// encoding.BinaryMarshaler interface.
type Face struct {
	Kind       Kind
	FileID     uint8
	DataCount  uint8
	BlobCount  uint8
	FaceNumber uint16
	Slots      [MaxSlots]Slot
	Padding    [5]byte
	Offsets    [MaxBlobs]uint32
	Sizes      [MaxBlobs]uint16

	// Size of the file the header was parsed from
	fileSize int
}

// Parse decodes the header of the face file b, which must be of kind k. The
// returned Face keeps no reference to b.
func Parse(b []byte, k Kind) (*Face, error) {
	if !k.valid() {
		return nil, fmt.Errorf("face: invalid kind %d", int(k))
	}
	if len(b) < MinHeaderSize || len(b) < k.HeaderSize() {
		return nil, fmt.Errorf("%w: %d bytes is less than the %d byte header", ErrMalformedHeader, len(b), k.HeaderSize())
	}

	f := &Face{Kind: k, fileSize: len(b)}
	if err := f.unmarshal(bytes.NewReader(b[:k.HeaderSize()])); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	return f, nil
}

func (f *Face) unmarshal(r *bytes.Reader) error {
	var err error
	read := func(v interface{}) {
		if err == nil {
			err = binary.Read(r, binary.LittleEndian, v)
		}
	}

	read(&f.FileID)
	read(&f.DataCount)
	read(&f.BlobCount)
	read(&f.FaceNumber)

	for i := 0; i < f.Kind.Slots(); i++ {
		s := &f.Slots[i]
		if f.Kind == Kind1 {
			var x, y, w, h uint8
			read(&s.Type)
			read(&x)
			read(&y)
			read(&w)
			read(&h)
			read(&s.Index)
			s.X, s.Y, s.W, s.H = uint16(x), uint16(y), uint16(w), uint16(h)
			continue
		}
		read(&s.Type)
		read(&s.Index)
		read(&s.X)
		read(&s.Y)
		read(&s.W)
		read(&s.H)
	}

	read(f.Padding[:f.Kind.paddingSize()])
	read(&f.Offsets)
	read(&f.Sizes)

	return err
}

// MarshalBinary encodes the header into binary form and returns the result.
// Slot geometry must fit in a byte for type A.
func (f *Face) MarshalBinary() ([]byte, error) {
	if !f.Kind.valid() {
		return nil, fmt.Errorf("face: invalid kind %d", int(f.Kind))
	}

	b := new(bytes.Buffer)
	b.Grow(f.Kind.HeaderSize())

	var err error
	write := func(v interface{}) {
		if err == nil {
			err = binary.Write(b, binary.LittleEndian, v)
		}
	}

	write(f.FileID)
	write(f.DataCount)
	write(f.BlobCount)
	write(f.FaceNumber)

	for i := 0; i < f.Kind.Slots(); i++ {
		s := f.Slots[i]
		if f.Kind == Kind1 {
			if s.X > 0xff || s.Y > 0xff || s.W > 0xff || s.H > 0xff {
				return nil, fmt.Errorf("face: slot %d geometry %d,%d %dx%d does not fit type %s", i, s.X, s.Y, s.W, s.H, f.Kind)
			}
			write([]uint8{s.Type, uint8(s.X), uint8(s.Y), uint8(s.W), uint8(s.H), s.Index})
			continue
		}
		write(s.Type)
		write(s.Index)
		write([]uint16{s.X, s.Y, s.W, s.H})
	}

	write(f.Padding[:f.Kind.paddingSize()])
	write(f.Offsets[:])
	write(f.Sizes[:])

	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// HeaderSize is shorthand for f.Kind.HeaderSize().
func (f *Face) HeaderSize() int {
	return f.Kind.HeaderSize()
}

// PaddingBytes returns the padding that follows the slot descriptors.
func (f *Face) PaddingBytes() []byte {
	return f.Padding[:f.Kind.paddingSize()]
}

// Populated returns the indices of the slot descriptors in use. Slot 0 is
// always in use as some faces use type 0 there for the background.
func (f *Face) Populated() []int {
	var p []int
	for i := 0; i < f.Kind.Slots(); i++ {
		if f.Slots[i].Type != 0 || i == 0 {
			p = append(p, i)
		}
	}
	return p
}

// hasAnimation reports whether any slot in use is animated.
func (f *Face) hasAnimation() bool {
	for _, i := range f.Populated() {
		if IsAnimation(f.Slots[i].Type) {
			return true
		}
	}
	return false
}

// AnimationFrames returns the number of animation frames, or zero if no
// slot is animated.
func (f *Face) AnimationFrames() int {
	if !f.hasAnimation() {
		return 0
	}
	return int(f.Sizes[f.Kind.AnimationSlot()])
}

// Frames returns the number of consecutive blobs used by slot s.
func (f *Face) Frames(s Slot) int {
	return s.Frames(f.AnimationFrames())
}

// SlotForBlob returns the index of the first slot in use whose blobs
// include blob i.
func (f *Face) SlotForBlob(i int) (int, bool) {
	for _, j := range f.Populated() {
		s := f.Slots[j]
		if i >= int(s.Index) && i < int(s.Index)+f.Frames(s) {
			return j, true
		}
	}
	return -1, false
}

// Background returns the index of the first background slot.
func (f *Face) Background() (int, bool) {
	for _, t := range []uint8{TypeBackground, TypeBackgrounds} {
		for _, i := range f.Populated() {
			if f.Slots[i].Type == t {
				return i, true
			}
		}
	}
	return -1, false
}

// countOffsets returns the length of the run of non-zero offsets following
// the first offset, which is always zero.
func countOffsets(offsets []uint32) (n int, max uint32) {
	n = 1
	for _, o := range offsets[1:] {
		if o == 0 {
			break
		}
		n++
		if o > max {
			max = o
		}
	}
	return
}
