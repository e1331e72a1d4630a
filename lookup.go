package watchface

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Lookup prints the catalog entries matching query, which is either a face
// number or the SHA1 checksum of a face file. If dir is not empty the
// thumbnail of each entry is written there, named after its checksum.
func (t *Tool) Lookup(query, dir string) error {
	if t.db == nil {
		return errors.New("no catalog")
	}

	var entries []*Entry
	if n, err := strconv.ParseUint(query, 10, 16); err == nil {
		if entries, err = t.db.FindByFaceNumber(uint16(n)); err != nil {
			return err
		}
	} else if b, err := hex.DecodeString(query); err == nil && len(b) == 20 {
		e, err := t.db.FindByChecksum(fmt.Sprintf("%X", b))
		if err != nil {
			return err
		}
		if e != nil {
			entries = append(entries, e)
		}
	} else {
		return fmt.Errorf("%q is neither a face number nor a SHA1 checksum", query)
	}

	if len(entries) == 0 {
		t.logger.Printf("No match for \"%s\"\n", query)
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(t.out, "%s %5d %s 0x%02x %2d %3d %7d\n", e.Checksum, e.FaceNumber, e.Kind, e.FileID, e.Slots, e.Blobs, e.Size)
		for _, p := range e.Paths {
			fmt.Fprintf(t.out, "\t%s\n", p)
		}

		if dir == "" || len(e.Thumbnail) == 0 {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		thumbnail := e.Thumbnail
		if err := writeFile(filepath.Join(dir, e.Checksum+".bmp"), func(w io.Writer) error {
			_, err := w.Write(thumbnail)
			return err
		}); err != nil {
			return err
		}
	}

	return nil
}
