package hal

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"

	"fbsplash/internal/pixel"
)

// DisplayerSurface presents frames on any tinygo driver display, such as an
// SPI-attached LCD panel. Each Present pushes every pixel through SetPixel
// and then flushes with Display.
//
// The fbsplash command has no panel driver to open, so this is an entry
// point for programs that bring up their own display and hand it to
// app.Run.
type DisplayerSurface struct {
	d      drivers.Displayer
	width  int
	height int
}

// NewDisplayerSurface wraps d. Its size is read once.
func NewDisplayerSurface(d drivers.Displayer) (*DisplayerSurface, error) {
	w, h := d.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: displayer reports %dx%d", ErrDevice, w, h)
	}
	return &DisplayerSurface{d: d, width: int(w), height: int(h)}, nil
}

func (s *DisplayerSurface) Width() int         { return s.width }
func (s *DisplayerSurface) Height() int        { return s.height }
func (s *DisplayerSurface) StrideBytes() int   { return s.width * pixel.BytesPerPixel }
func (s *DisplayerSurface) BytesPerPixel() int { return pixel.BytesPerPixel }
func (s *DisplayerSurface) Close() error       { return nil }

func (s *DisplayerSurface) Present(buf *pixel.Buffer) error {
	if err := checkGeometry(s, buf); err != nil {
		return err
	}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			r, g, b, _ := pixel.Unpack(buf.Word(x, y))
			s.d.SetPixel(int16(x), int16(y), color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	if err := s.d.Display(); err != nil {
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return nil
}
