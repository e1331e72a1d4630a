/*
Package watchface is a library for unpacking and repacking the binary watch
face files used by MO YOUNG and DA FIT smartwatches.

A face file can be dumped to a folder of bitmaps together with a manifest
describing the header, edited, and then created again from that folder.
*/
package watchface

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/bodgit/watchface/face"
)

// Tool runs the face file operations. Reports are written to the output
// writer, warnings and progress go to the logger.
type Tool struct {
	db      *FaceDB
	out     io.Writer
	logger  *log.Logger
	verbose bool
}

// New returns a Tool that reports to out and logs to logger. The catalog
// db is only needed for Scan and Lookup and may be nil otherwise.
func New(db *FaceDB, out io.Writer, logger *log.Logger) *Tool {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Tool{
		db:     db,
		out:    out,
		logger: logger,
	}
}

// SetVerbose enables per-blob progress messages.
func (t *Tool) SetVerbose(v bool) {
	t.verbose = v
}

func (t *Tool) warn(err error) {
	t.logger.Printf("WARNING: %v\n", err)
}

func (t *Tool) debugf(format string, v ...interface{}) {
	if t.verbose {
		t.logger.Printf(format, v...)
	}
}

// load reads the face file and parses its header. If k is zero the kind is
// detected, an ambiguous result is logged and type A is assumed.
func (t *Tool) load(file string, k face.Kind) ([]byte, *face.Face, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	if k == 0 {
		k, err = face.Detect(b)
		switch {
		case errors.Is(err, face.ErrAmbiguousFormat):
			t.warn(fmt.Errorf("%v, assuming type %s", err, k))
		case err != nil:
			return nil, nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	f, err := face.Parse(b, k)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}

	return b, f, nil
}
