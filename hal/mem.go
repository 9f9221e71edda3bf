package hal

import (
	"fmt"
	"sync"

	"fbsplash/internal/pixel"
)

// MemSurface is a display backed by ordinary memory. It stands in for the
// framebuffer in headless runs and tests.
type MemSurface struct {
	mu       sync.Mutex
	width    int
	height   int
	stride   int
	mem      []byte
	presents int
	closed   bool
}

// NewMemSurface returns a width x height surface whose rows are stride bytes
// apart. A stride of zero means tightly packed.
func NewMemSurface(width, height, stride int) (*MemSurface, error) {
	if stride == 0 {
		stride = width * pixel.BytesPerPixel
	}
	n, err := pixel.Size(width, height, stride)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return &MemSurface{
		width:  width,
		height: height,
		stride: stride,
		mem:    make([]byte, n),
	}, nil
}

func (s *MemSurface) Width() int         { return s.width }
func (s *MemSurface) Height() int        { return s.height }
func (s *MemSurface) StrideBytes() int   { return s.stride }
func (s *MemSurface) BytesPerPixel() int { return pixel.BytesPerPixel }

func (s *MemSurface) Present(buf *pixel.Buffer) error {
	if err := checkGeometry(s, buf); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: surface closed", ErrDevice)
	}
	copyRows(s.mem, s.stride, buf)
	s.presents++
	return nil
}

func (s *MemSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Presents returns how many frames have been presented.
func (s *MemSurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Snapshot copies the current display memory into a new buffer with the
// surface's stride.
func (s *MemSurface) Snapshot() *pixel.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &pixel.Buffer{
		Pix:    append([]byte(nil), s.mem...),
		Width:  s.width,
		Height: s.height,
		Stride: s.stride,
	}
}
