package manifest

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/rle"
	"gopkg.in/yaml.v2"
)

type yamlFaceData struct {
	Type     string `yaml:"type"`
	Index    uint8  `yaml:"index"`
	Name     string `yaml:"name,omitempty"`
	X        uint16 `yaml:"x"`
	Y        uint16 `yaml:"y"`
	W        uint16 `yaml:"w"`
	H        uint16 `yaml:"h"`
	Filename string `yaml:"filename,omitempty"`
}

type yamlManifest struct {
	FileType        string         `yaml:"fileType"`
	FileID          string         `yaml:"fileID"`
	DataCount       int            `yaml:"dataCount"`
	BlobCount       int            `yaml:"blobCount"`
	FaceNumber      uint16         `yaml:"faceNumber"`
	AnimationFrames int            `yaml:"animationFrames,omitempty"`
	BlobCompression map[int]string `yaml:"blobCompression,omitempty"`
	FaceData        []yamlFaceData `yaml:"faceData"`
}

// ReadYAML parses a manifest in the YAML format.
func ReadYAML(r io.Reader) (*Manifest, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var y yamlManifest
	if err := yaml.UnmarshalStrict(b, &y); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	m := &Manifest{
		DataCount:       y.DataCount,
		BlobCount:       y.BlobCount,
		FaceNumber:      y.FaceNumber,
		AnimationFrames: y.AnimationFrames,
		Compression:     make(map[int]rle.Compression),
	}

	if m.FileType, err = face.ParseKind(y.FileType); err != nil {
		return nil, err
	}

	id, err := parseUint(y.FileID, 8)
	if err != nil {
		return nil, fmt.Errorf("manifest: fileID: %w", err)
	}
	m.FileID = uint8(id)

	for i, s := range y.BlobCompression {
		if m.Compression[i], err = rle.ParseCompression(s); err != nil {
			return nil, err
		}
	}

	for _, yfd := range y.FaceData {
		t, err := parseUint(yfd.Type, 8)
		if err != nil {
			code, ok := face.TypeCode(yfd.Type)
			if !ok {
				return nil, fmt.Errorf("manifest: unknown type %q", yfd.Type)
			}
			t = uint64(code)
		}
		fd := FaceData{
			Slot: face.Slot{
				Type:  uint8(t),
				Index: yfd.Index,
				X:     yfd.X,
				Y:     yfd.Y,
				W:     yfd.W,
				H:     yfd.H,
			},
			Name:     yfd.Name,
			Filename: yfd.Filename,
		}
		if fd.Name == "" {
			fd.Name = face.TypeName(fd.Type)
		}
		if fd.Filename == "" {
			fd.Filename = BlobFilename(int(fd.Index))
		}
		m.FaceData = append(m.FaceData, fd)
	}

	return m, nil
}

// WriteYAML writes m in the YAML format.
func WriteYAML(w io.Writer, m *Manifest) error {
	y := yamlManifest{
		FileType:        m.FileType.String(),
		FileID:          fmt.Sprintf("0x%02x", m.FileID),
		DataCount:       m.DataCount,
		BlobCount:       m.BlobCount,
		FaceNumber:      m.FaceNumber,
		AnimationFrames: m.AnimationFrames,
	}

	if len(m.Compression) > 0 {
		y.BlobCompression = make(map[int]string, len(m.Compression))
		for i, c := range m.Compression {
			y.BlobCompression[i] = c.String()
		}
	}

	for _, fd := range m.FaceData {
		y.FaceData = append(y.FaceData, yamlFaceData{
			Type:     fmt.Sprintf("0x%02x", fd.Type),
			Index:    fd.Index,
			Name:     fd.Name,
			X:        fd.X,
			Y:        fd.Y,
			W:        fd.W,
			H:        fd.H,
			Filename: fd.Filename,
		})
	}

	b, err := yaml.Marshal(&y)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// ReadFormat parses a manifest in format f.
func ReadFormat(r io.Reader, f Format) (*Manifest, error) {
	if f == YAML {
		return ReadYAML(r)
	}
	return Read(r)
}

// WriteFormat writes m in format f.
func WriteFormat(w io.Writer, m *Manifest, f Format) error {
	if f == YAML {
		return WriteYAML(w, m)
	}
	return Write(w, m)
}
