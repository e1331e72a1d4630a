package face

import (
	"bytes"
	"errors"
	"fmt"
)

// Builder assembles a face file from slot descriptors and blob payloads.
type Builder struct {
	Kind            Kind
	FileID          uint8
	FaceNumber      uint16
	AnimationFrames uint16

	slots []Slot
	blobs [][]byte
}

// NewBuilder returns an empty Builder for a face of kind k.
func NewBuilder(k Kind) *Builder {
	return &Builder{Kind: k}
}

// AddSlot appends a slot descriptor.
func (b *Builder) AddSlot(s Slot) error {
	if len(b.slots) >= b.Kind.Slots() {
		return fmt.Errorf("face: more than %d slots", b.Kind.Slots())
	}
	b.slots = append(b.slots, s)
	return nil
}

// AddBlob appends a blob and returns its index.
func (b *Builder) AddBlob(p []byte) (int, error) {
	if len(b.blobs) >= MaxBlobs {
		return 0, errors.New("face: too many blobs")
	}
	b.blobs = append(b.blobs, p)
	return len(b.blobs) - 1, nil
}

// Blobs returns the number of blobs added so far.
func (b *Builder) Blobs() int {
	return len(b.blobs)
}

// Face returns the header for the slots and blobs added so far. Offsets
// accumulate from zero and each size table entry is the blob length if it
// fits. If a slot is animated, the animation frame count replaces the size
// table entry reserved for it.
func (b *Builder) Face() (*Face, error) {
	switch b.Kind {
	case Kind1, Kind3:
	case Kind2:
		return nil, fmt.Errorf("%w: cannot create type %s", ErrUnsupportedKind, b.Kind)
	default:
		return nil, fmt.Errorf("face: invalid kind %d", int(b.Kind))
	}

	f := &Face{
		Kind:       b.Kind,
		FileID:     b.FileID,
		DataCount:  uint8(len(b.slots)),
		BlobCount:  uint8(len(b.blobs)),
		FaceNumber: b.FaceNumber,
	}
	copy(f.Slots[:], b.slots)

	var offset uint64
	for i, p := range b.blobs {
		if offset > 0xffffffff {
			return nil, fmt.Errorf("face: blob %d offset overflows", i)
		}
		f.Offsets[i] = uint32(offset)
		if len(p) <= 0xffff {
			f.Sizes[i] = uint16(len(p))
		}
		offset += uint64(len(p))
	}

	if f.hasAnimation() {
		f.Sizes[f.Kind.AnimationSlot()] = b.AnimationFrames
	}

	return f, nil
}

// Bytes returns the complete face file.
func (b *Builder) Bytes() ([]byte, error) {
	f, err := b.Face()
	if err != nil {
		return nil, err
	}

	h, err := f.MarshalBinary()
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(h)
	for _, p := range b.blobs {
		buf.Write(p)
	}

	return buf.Bytes(), nil
}
