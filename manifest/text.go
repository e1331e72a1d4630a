package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/rle"
)

// parseUint parses decimal or 0x prefixed hexadecimal. A leading zero does
// not mean octal.
func parseUint(s string, bits int) (uint64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return strconv.ParseUint(s[2:], 16, bits)
	}
	return strconv.ParseUint(s, 10, bits)
}

type lineParser struct {
	line   int
	fields []string
	err    error
}

func (p *lineParser) uint(i, bits int) uint64 {
	if p.err != nil {
		return 0
	}
	v, err := parseUint(p.fields[i], bits)
	if err != nil {
		p.err = fmt.Errorf("manifest: line %d: %s: %w", p.line, p.fields[0], err)
	}
	return v
}

func (p *lineParser) want(n ...int) bool {
	for _, v := range n {
		if len(p.fields) == v {
			return true
		}
	}
	p.err = fmt.Errorf("manifest: line %d: %s needs %d values", p.line, p.fields[0], n[0]-1)
	return false
}

// Read parses a manifest in the text format.
func Read(r io.Reader) (*Manifest, error) {
	m := &Manifest{
		FileType:    face.Kind1,
		Compression: make(map[int]rle.Compression),
	}

	s := bufio.NewScanner(r)
	p := new(lineParser)
	for s.Scan() {
		p.line++

		line := s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if p.fields = strings.Fields(line); len(p.fields) == 0 {
			continue
		}

		switch p.fields[0] {
		case "fileType":
			if p.want(2) {
				m.FileType, p.err = face.ParseKind(p.fields[1])
			}
		case "fileID":
			if p.want(2) {
				m.FileID = uint8(p.uint(1, 8))
			}
		case "dataCount":
			if p.want(2) {
				m.DataCount = int(p.uint(1, 8))
			}
		case "blobCount":
			if p.want(2) {
				m.BlobCount = int(p.uint(1, 8))
			}
		case "faceNumber":
			if p.want(2) {
				m.FaceNumber = uint16(p.uint(1, 16))
			}
		case "animationFrames":
			if p.want(2) {
				m.AnimationFrames = int(p.uint(1, 16))
			}
		case "blobCompression":
			if p.want(3) {
				i := int(p.uint(1, 8))
				if p.err == nil {
					m.Compression[i], p.err = rle.ParseCompression(p.fields[2])
				}
			}
		case "faceData":
			if p.want(9, 8) {
				fd := FaceData{Name: p.fields[3]}
				fd.Type = uint8(p.uint(1, 8))
				fd.Index = uint8(p.uint(2, 8))
				fd.X = uint16(p.uint(4, 16))
				fd.Y = uint16(p.uint(5, 16))
				fd.W = uint16(p.uint(6, 16))
				fd.H = uint16(p.uint(7, 16))
				if len(p.fields) == 9 {
					fd.Filename = p.fields[8]
				} else {
					fd.Filename = BlobFilename(int(fd.Index))
				}
				m.FaceData = append(m.FaceData, fd)
			}
		case "padding", "myDataCount", "myBlobCount":
			// Written by older tools, recomputed on create
		default:
			p.err = fmt.Errorf("manifest: line %d: unknown key %q", p.line, p.fields[0])
		}

		if p.err != nil {
			return nil, p.err
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// Write writes m in the text format.
func Write(w io.Writer, m *Manifest) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "fileType        %s\n", m.FileType)
	fmt.Fprintf(bw, "fileID          0x%02x\n", m.FileID)
	fmt.Fprintf(bw, "dataCount       %d\n", m.DataCount)
	fmt.Fprintf(bw, "blobCount       %d\n", m.BlobCount)
	fmt.Fprintf(bw, "faceNumber      %d\n", m.FaceNumber)
	if m.AnimationFrames != 0 {
		fmt.Fprintf(bw, "animationFrames %d\n", m.AnimationFrames)
	}
	for _, i := range m.sortedCompression() {
		fmt.Fprintf(bw, "blobCompression %04d %s\n", i, m.Compression[i])
	}
	for _, fd := range m.FaceData {
		fmt.Fprintf(bw, "faceData        0x%02x  %04d  %-15s %4d %4d %4d %4d %s\n", fd.Type, fd.Index, fd.Name, fd.X, fd.Y, fd.W, fd.H, fd.Filename)
	}

	return bw.Flush()
}
