package face

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when a buffer cannot hold a header.
	ErrMalformedHeader = errors.New("face: malformed header")
	// ErrAmbiguousFormat is returned alongside a default kind when the
	// kind of a file cannot be detected.
	ErrAmbiguousFormat = errors.New("face: unable to detect file type")
	// ErrUnknownLength is returned when no length can be worked out for
	// a blob.
	ErrUnknownLength = errors.New("face: unable to determine blob length")
	// ErrNoBackground is reported by Validate when no slot is a
	// background.
	ErrNoBackground = errors.New("face: no background found")
	// ErrUnsupportedKind is returned when creating a type B face.
	ErrUnsupportedKind = errors.New("face: unsupported file type")
)

// A CountMismatchError reports that a count in the header does not match
// the header contents.
type CountMismatchError struct {
	Field    string
	Declared int
	Counted  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("face: %s is %d but counted %d", e.Field, e.Declared, e.Counted)
}

// A SizeMismatchError reports that the stored size of an uncompressed blob
// does not match the size of its slot.
type SizeMismatchError struct {
	Blob      int
	Stored    int
	Estimated int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("face: blob %d length mismatch (file: %d, estimated: %d)", e.Blob, e.Stored, e.Estimated)
}

// A PaddingError reports non-zero padding after the slot descriptors.
type PaddingError struct {
	Padding []byte
}

func (e *PaddingError) Error() string {
	return fmt.Sprintf("face: padding is not zero: %x", e.Padding)
}

// An OffsetRangeError reports a blob that starts beyond the end of the file.
type OffsetRangeError struct {
	Blob     int
	Offset   uint32
	FileSize int
}

func (e *OffsetRangeError) Error() string {
	return fmt.Sprintf("face: blob %d offset %d is beyond file size %d", e.Blob, e.Offset, e.FileSize)
}

// A FileIDError reports an unexpected file ID.
type FileIDError struct {
	FileID uint8
}

func (e *FileIDError) Error() string {
	return fmt.Sprintf("face: unknown file ID 0x%02x", e.FileID)
}

var knownFileIDs = map[uint8]struct{}{
	0x04: {},
	0x81: {},
	0x84: {},
}

// Validate checks the header for inconsistencies. None of them prevent the
// face from being used so they are returned as a list of warnings.
func (f *Face) Validate() []error {
	var errs []error

	if _, ok := knownFileIDs[f.FileID]; !ok {
		errs = append(errs, &FileIDError{FileID: f.FileID})
	}

	if n := len(f.Populated()); n != int(f.DataCount) {
		errs = append(errs, &CountMismatchError{Field: "dataCount", Declared: int(f.DataCount), Counted: n})
	}

	if n, _ := countOffsets(f.Offsets[:]); n != int(f.BlobCount) {
		errs = append(errs, &CountMismatchError{Field: "blobCount", Declared: int(f.BlobCount), Counted: n})
	}

	padding := f.PaddingBytes()
	for _, b := range padding {
		if b != 0 {
			errs = append(errs, &PaddingError{Padding: append([]byte(nil), padding...)})
			break
		}
	}

	// Type B offsets address the uncompressed data
	if f.Kind != Kind2 && f.fileSize > 0 {
		for i, o := range f.Offsets {
			if o != 0 && f.HeaderSize()+int(o) > f.fileSize {
				errs = append(errs, &OffsetRangeError{Blob: i, Offset: o, FileSize: f.fileSize})
			}
		}
	}

	if _, ok := f.Background(); !ok {
		errs = append(errs, ErrNoBackground)
	}

	return errs
}
