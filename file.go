package watchface

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/watchface/bmp"
)

// writeFile creates the named file and passes a buffered writer for it to
// fn. The file is removed if anything fails so no truncated output is left
// behind.
func writeFile(name string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(name)
		}
	}()

	w := bufio.NewWriter(f)
	if err = fn(w); err != nil {
		return err
	}

	return w.Flush()
}

func writeBitmap(name string, m image.Image, bpp int) error {
	return writeFile(name, func(w io.Writer) error {
		return bmp.Encode(w, m, &bmp.Options{BitsPerPixel: bpp})
	})
}

// frameFilename returns the filename holding frame k of a slot whose first
// frame is in name. A trailing number in the base name is incremented, so
// 0012.bmp is followed by 0013.bmp.
func frameFilename(name string, k int) (string, error) {
	if k == 0 {
		return name, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	digits := base[i:]
	if digits == "" {
		return "", fmt.Errorf("cannot number frame %d of %s", k, name)
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%0*d%s", base[:i], len(digits), n+k, ext), nil
}
