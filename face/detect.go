package face

import (
	"encoding/binary"
	"fmt"
)

func offsetTable(b []byte, k Kind) []uint32 {
	offsets := make([]uint32, MaxBlobs)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(b[k.offsetTable()+4*i:])
	}
	return offsets
}

// Detect works out the kind of the face file b by checking which candidate
// offset table has as many entries as the header declares blobs. If the
// type B/C table matches, offsets that reach past the end of the file mean
// type B.
//
// If neither table matches, Kind1 is returned along with
// ErrAmbiguousFormat.
func Detect(b []byte) (Kind, error) {
	if len(b) < MinHeaderSize {
		return 0, fmt.Errorf("%w: %d bytes is less than the %d byte header", ErrMalformedHeader, len(b), MinHeaderSize)
	}

	blobCount := int(b[2])

	if n, _ := countOffsets(offsetTable(b, Kind1)); n == blobCount {
		return Kind1, nil
	}

	if n, max := countOffsets(offsetTable(b, Kind3)); n == blobCount {
		if int64(max)+headerSize > int64(len(b)) {
			return Kind2, nil
		}
		return Kind3, nil
	}

	return Kind1, ErrAmbiguousFormat
}
