package watchface

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/watchface/face"
)

const (
	scanWorkers = 10

	// Largest file considered, the biggest faces seen are a few hundred KB
	maxFaceSize = 4 << (10 * 2)
)

func (t *Tool) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(file), ".bin") {
				return nil
			}

			if info.Size() < face.MinHeaderSize || info.Size() > maxFaceSize {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (t *Tool) faceWorker(ctx context.Context, in <-chan string, out chan<- *Entry, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			b, err := ioutil.ReadFile(file)
			if err != nil {
				errc <- err
				return
			}

			k, err := face.Detect(b)
			if err != nil {
				t.logger.Printf("Skipping \"%s\": %v\n", file, err)
				continue
			}

			f, err := face.Parse(b, k)
			if err != nil {
				t.logger.Printf("Skipping \"%s\": %v\n", file, err)
				continue
			}

			e := newEntry(file, b, f)
			if e.Thumbnail, err = backgroundThumbnail(b, f); err != nil {
				t.logger.Printf("No thumbnail for \"%s\": %v\n", file, err)
			}

			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func (t *Tool) catalogWriter(ctx context.Context, in <-chan *Entry) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for e := range in {
			t.debugf("Found face %d type %s in \"%s\"\n", e.FaceNumber, e.Kind, e.Paths[0])
			if err := t.db.Add(e); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path looking for face files and records each one found in
// the catalog.
func (t *Tool) Scan(path string) error {
	if t.db == nil {
		return errors.New("no catalog")
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := t.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var wg sync.WaitGroup
	entries := make(chan *Entry)
	wg.Add(scanWorkers)
	for i := 0; i < scanWorkers; i++ {
		errc, err := t.faceWorker(ctx, files, entries, &wg)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	go func() {
		wg.Wait()
		close(entries)
	}()

	errc, err = t.catalogWriter(ctx, entries)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
