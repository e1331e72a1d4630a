package watchface

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/manifest"
)

// Info prints the header of the face file. If k is zero the kind is
// detected. Problems with the header are logged as warnings.
func (t *Tool) Info(file string, k face.Kind) error {
	_, f, err := t.load(file, k)
	if err != nil {
		return err
	}

	m := manifest.New(f)
	for i := range m.FaceData {
		m.FaceData[i].Filename = ""
	}

	w := bufio.NewWriter(t.out)
	if err := manifest.Write(w, m); err != nil {
		return err
	}
	fmt.Fprintf(w, "padding         %x\n", f.PaddingBytes())

	warnings := f.Validate()
	for _, err := range warnings {
		var cme *face.CountMismatchError
		if errors.As(err, &cme) {
			field := "my" + strings.ToUpper(cme.Field[:1]) + cme.Field[1:]
			fmt.Fprintf(w, "%-16s%d\n", field, cme.Counted)
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	for _, err := range warnings {
		t.warn(err)
	}

	return nil
}
