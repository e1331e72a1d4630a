package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/rle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() *Manifest {
	return &Manifest{
		FileType:        face.Kind3,
		FileID:          0x81,
		DataCount:       2,
		BlobCount:       12,
		FaceNumber:      7736,
		AnimationFrames: 0,
		Compression: map[int]rle.Compression{
			0:  rle.RowIndexed,
			11: rle.Try,
		},
		FaceData: []FaceData{
			{Slot: face.Slot{Type: 0x01, W: 240, H: 280}, Name: "BACKGROUND", Filename: "0000.bmp"},
			{Slot: face.Slot{Type: 0x40, Index: 1, X: 20, Y: 100, W: 30, H: 40}, Name: "TIME_H1", Filename: "0001.bmp"},
		},
	}
}

func TestTextRoundTrip(t *testing.T) {
	m := testManifest()

	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, m))

	assert.Contains(t, buf.String(), "fileID          0x81\n")
	assert.Contains(t, buf.String(), "blobCompression 0000 RLE_LINE\n")
	assert.Contains(t, buf.String(), "faceData        0x40  0001  TIME_H1           20  100   30   40 0001.bmp\n")

	got, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	m := testManifest()

	buf := new(bytes.Buffer)
	require.NoError(t, WriteYAML(buf, m))

	got, err := ReadYAML(buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestReadFormat(t *testing.T) {
	for _, f := range []Format{Text, YAML} {
		buf := new(bytes.Buffer)
		require.NoError(t, WriteFormat(buf, testManifest(), f))

		got, err := ReadFormat(buf, f)
		require.NoError(t, err)
		assert.Equal(t, testManifest(), got)
	}
}

func TestReadNumbers(t *testing.T) {
	m, err := Read(strings.NewReader(`
# leading zeros are decimal
fileType C
fileID 0X84
faceNumber 0010
faceData 0x62 0011 STEPS 0x10 010 1 1
`))
	require.NoError(t, err)

	assert.Equal(t, uint8(0x84), m.FileID)
	assert.Equal(t, uint16(10), m.FaceNumber)
	require.Len(t, m.FaceData, 1)
	fd := m.FaceData[0]
	assert.Equal(t, uint8(0x62), fd.Type)
	assert.Equal(t, uint8(11), fd.Index)
	assert.Equal(t, uint16(16), fd.X)
	assert.Equal(t, uint16(10), fd.Y)
	assert.Equal(t, "0011.bmp", fd.Filename)
}

func TestReadOlderDump(t *testing.T) {
	m, err := Read(strings.NewReader(`fileType        A
fileID          0x04
dataCount       1
blobCount       10
faceNumber      163
padding         000000
faceData        0x00  0000  BACKGROUNDS        0    0  240   24
`))
	require.NoError(t, err)
	assert.Equal(t, face.Kind1, m.FileType)
	assert.Equal(t, "0000.bmp", m.FaceData[0].Filename)
	assert.Equal(t, rle.None, m.CompressionFor(3))
}

func TestReadErrors(t *testing.T) {
	tables := []string{
		"fileType D",
		"fileID 0x100",
		"fileID",
		"faceNumber abc",
		"blobCompression 0 LZO",
		"faceData 0x01 0 BACKGROUND 0 0 240",
		"colour red",
	}

	for _, table := range tables {
		_, err := Read(strings.NewReader(table))
		assert.Error(t, err, table)
	}
}

func TestYAMLTypeByName(t *testing.T) {
	m, err := ReadYAML(strings.NewReader(`fileType: C
fileID: "0x81"
dataCount: 1
blobCount: 1
faceNumber: 1
faceData:
- type: BACKGROUND
  index: 0
  x: 0
  y: 0
  w: 240
  h: 280
`))
	require.NoError(t, err)
	require.Len(t, m.FaceData, 1)
	assert.Equal(t, face.TypeBackground, m.FaceData[0].Type)
	assert.Equal(t, "BACKGROUND", m.FaceData[0].Name)
	assert.Equal(t, "0000.bmp", m.FaceData[0].Filename)

	_, err = ReadYAML(strings.NewReader("fileType: C\nfileID: 1\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	f := &face.Face{Kind: face.Kind3, FileID: 0x81, DataCount: 2, BlobCount: 16, FaceNumber: 42}
	f.Slots[0] = face.Slot{Type: face.TypeBackground, W: 240, H: 280}
	f.Slots[1] = face.Slot{Type: face.TypeAnimation, Index: 1, W: 10, H: 10}
	f.Sizes[0] = 15

	m := New(f)
	assert.Equal(t, face.Kind3, m.FileType)
	assert.Equal(t, 15, m.AnimationFrames)
	require.Len(t, m.FaceData, 2)
	assert.Equal(t, "ANIMATION", m.FaceData[1].Name)
	assert.Equal(t, "0001.bmp", m.FaceData[1].Filename)
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	assert.Equal(t, "watchface.yaml", f.Filename())
	assert.Equal(t, "watchface.txt", Text.Filename())

	_, err = ParseFormat("json")
	assert.Error(t, err)
}
