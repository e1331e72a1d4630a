/*
Package manifest reads and writes the description of a dumped watch face.

The text form has one record per line, a key followed by whitespace
separated values:

	fileType        C
	fileID          0x81
	dataCount       2
	blobCount       12
	faceNumber      7736
	animationFrames 0
	blobCompression 0000 RLE_LINE
	faceData        0x01  0000  BACKGROUND         0    0  240  280 0000.bmp

Numbers are decimal, leading zeros included, unless prefixed with 0x. A #
starts a comment. The filename of a faceData record is optional and
defaults to the first blob of the slot.

The same fields can also be written as YAML.
*/
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/rle"
)

// Format selects the manifest encoding.
type Format int

// Supported formats.
const (
	Text Format = iota
	YAML
)

var formats = map[Format]struct {
	name     string
	filename string
}{
	Text: {"text", "watchface.txt"},
	YAML: {"yaml", "watchface.yaml"},
}

func (f Format) String() string {
	if v, ok := formats[f]; ok {
		return v.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Filename returns the name the manifest is stored as in a dump folder.
func (f Format) Filename() string {
	return formats[f].filename
}

// ParseFormat returns the Format with the given name.
func ParseFormat(s string) (Format, error) {
	for f, v := range formats {
		if strings.EqualFold(s, v.name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("manifest: unknown format %q", s)
}

// FaceData is one slot of the face together with the bitmap that holds its
// first frame.
type FaceData struct {
	face.Slot
	Name     string
	Filename string
}

// Manifest describes everything needed to recreate a face file.
type Manifest struct {
	FileType        face.Kind
	FileID          uint8
	DataCount       int
	BlobCount       int
	FaceNumber      uint16
	AnimationFrames int
	// Compression of each blob, blobs without an entry are not
	// compressed.
	Compression map[int]rle.Compression
	FaceData    []FaceData
}

// New returns a manifest describing the header f.
func New(f *face.Face) *Manifest {
	m := &Manifest{
		FileType:        f.Kind,
		FileID:          f.FileID,
		DataCount:       int(f.DataCount),
		BlobCount:       int(f.BlobCount),
		FaceNumber:      f.FaceNumber,
		AnimationFrames: f.AnimationFrames(),
		Compression:     make(map[int]rle.Compression),
	}
	for _, i := range f.Populated() {
		s := f.Slots[i]
		m.FaceData = append(m.FaceData, FaceData{
			Slot:     s,
			Name:     face.TypeName(s.Type),
			Filename: BlobFilename(int(s.Index)),
		})
	}
	return m
}

// BlobFilename returns the name a blob's bitmap is dumped as.
func BlobFilename(i int) string {
	return fmt.Sprintf("%04d.bmp", i)
}

// CompressionFor returns the compression recorded for blob i.
func (m *Manifest) CompressionFor(i int) rle.Compression {
	if c, ok := m.Compression[i]; ok {
		return c
	}
	return rle.None
}

func (m *Manifest) sortedCompression() []int {
	keys := make([]int, 0, len(m.Compression))
	for k := range m.Compression {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
