// Package hal is the only contact point between the splash pipeline and the
// display hardware.
package hal

import (
	"errors"
	"fmt"

	"fbsplash/internal/pixel"
)

var (
	// ErrDevice reports a display that cannot be opened, queried or mapped.
	ErrDevice = errors.New("hal: display device unavailable")
	// ErrGeometry reports a buffer that does not match the surface.
	ErrGeometry = errors.New("hal: buffer does not match surface geometry")
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Surface is a physical display with fixed geometry.
//
// Present copies a full-screen buffer into live display memory. It never
// resizes or converts; the buffer must already match Width and Height.
// Its stride may differ from StrideBytes.
type Surface interface {
	Width() int
	Height() int
	StrideBytes() int
	BytesPerPixel() int
	Present(buf *pixel.Buffer) error
	Close() error
}

// NewBuffer allocates a zeroed buffer laid out exactly like s, so that
// Present can copy it in one piece.
func NewBuffer(s Surface) (*pixel.Buffer, error) {
	if s.BytesPerPixel() != pixel.BytesPerPixel {
		return nil, fmt.Errorf("%w: %d bytes per pixel", ErrGeometry, s.BytesPerPixel())
	}
	return pixel.NewStride(s.Width(), s.Height(), s.StrideBytes())
}

// ScreenBytes is the size of one packed full-screen frame.
func ScreenBytes(s Surface) int {
	return s.Width() * s.Height() * s.BytesPerPixel()
}

func checkGeometry(s Surface, buf *pixel.Buffer) error {
	if buf == nil || buf.Width != s.Width() || buf.Height != s.Height() {
		if buf == nil {
			return fmt.Errorf("%w: nil buffer", ErrGeometry)
		}
		return fmt.Errorf("%w: %dx%d on %dx%d", ErrGeometry, buf.Width, buf.Height, s.Width(), s.Height())
	}
	return nil
}

// copyRows copies buf into mem whose rows are stride bytes apart.
func copyRows(mem []byte, stride int, buf *pixel.Buffer) {
	if stride == buf.Stride {
		copy(mem, buf.Pix)
		return
	}
	for y := 0; y < buf.Height; y++ {
		copy(mem[y*stride:], buf.Row(y))
	}
}
