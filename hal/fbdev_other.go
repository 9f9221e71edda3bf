//go:build !linux

package hal

import (
	"fmt"

	"fbsplash/internal/pixel"
)

const DefaultFramebuffer = "/dev/fb0"

// Framebuffer is only available on Linux.
type Framebuffer struct{}

func OpenFramebuffer(path string) (*Framebuffer, error) {
	return nil, fmt.Errorf("%w: %s: fbdev requires linux", ErrDevice, path)
}

func OpenFramebufferReadOnly(path string) (*Framebuffer, error) {
	return OpenFramebuffer(path)
}

func (fb *Framebuffer) Width() int                      { return 0 }
func (fb *Framebuffer) Height() int                     { return 0 }
func (fb *Framebuffer) StrideBytes() int                { return 0 }
func (fb *Framebuffer) BytesPerPixel() int              { return pixel.BytesPerPixel }
func (fb *Framebuffer) Present(buf *pixel.Buffer) error { return ErrDevice }
func (fb *Framebuffer) Close() error                    { return nil }

func (fb *Framebuffer) Snapshot() (*pixel.Buffer, error) { return nil, ErrDevice }
