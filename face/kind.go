package face

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three face file layouts. The manifest and the
// command line refer to them as file types A, B and C.
type Kind int

const (
	// Kind1 has 6 byte slot descriptors, the offset table at 200 and
	// streaming run-length bitmaps. It is always 240x240.
	Kind1 Kind = iota + 1
	// Kind2 has 10 byte slot descriptors and the offset table at 400. The
	// blob data is compressed and the offsets address the uncompressed
	// data.
	Kind2
	// Kind3 has the same header as Kind2 but uncompressed blob data and
	// row-indexed run-length bitmaps.
	Kind3
)

var kindNames = map[Kind]string{
	Kind1: "A",
	Kind2: "B",
	Kind3: "C",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind for the file type letter s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("face: unknown file type %q", s)
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// HeaderSize returns the size of the header in bytes. Blob offsets are
// relative to the end of the header.
func (k Kind) HeaderSize() int {
	if k == Kind1 {
		return kind1HeaderSize
	}
	return headerSize
}

// Slots returns the number of slot descriptors in the header.
func (k Kind) Slots() int {
	if k == Kind1 {
		return kind1Slots
	}
	return MaxSlots
}

func (k Kind) slotSize() int {
	if k == Kind1 {
		return 6
	}
	return 10
}

func (k Kind) paddingSize() int {
	if k == Kind1 {
		return 3
	}
	return 5
}

func (k Kind) offsetTable() int {
	if k == Kind1 {
		return 200
	}
	return 400
}

// AnimationSlot returns the index into the size table that holds the
// animation frame count.
func (k Kind) AnimationSlot() int {
	if k == Kind1 {
		return 200
	}
	return 0
}

// Streaming reports whether run-length bitmaps use the streaming scheme.
func (k Kind) Streaming() bool {
	return k == Kind1
}
