package rle

import "github.com/bodgit/watchface/rgb565"

type encoder struct {
	out []byte

	hi, lo byte
	n      int
}

func (e *encoder) writeRow(m *rgb565.Image, y int) {
	i := m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y)
	for x := 0; x < m.Rect.Dx(); x++ {
		e.write(m.Pix[i], m.Pix[i+1])
		i += 2
	}
}

func (e *encoder) write(hi, lo byte) {
	if e.n > 0 && e.n < maxRun && hi == e.hi && lo == e.lo {
		e.n++
		return
	}
	e.flush()
	e.hi, e.lo, e.n = hi, lo, 1
}

func (e *encoder) flush() {
	if e.n == 0 {
		return
	}
	e.out = append(e.out, e.hi, e.lo, byte(e.n))
	e.n = 0
}
