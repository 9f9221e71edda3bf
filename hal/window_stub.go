//go:build !cgo

package hal

import (
	"context"
	"errors"

	"fbsplash/internal/pixel"
)

var errNoWindow = errors.New("hal: window mode requires cgo (build/run with CGO_ENABLED=1)")

type WindowSurface struct{}

func NewWindowSurface(width, height int) (*WindowSurface, error) { return nil, errNoWindow }

func (s *WindowSurface) Width() int                      { return 0 }
func (s *WindowSurface) Height() int                     { return 0 }
func (s *WindowSurface) StrideBytes() int                { return 0 }
func (s *WindowSurface) BytesPerPixel() int              { return pixel.BytesPerPixel }
func (s *WindowSurface) Present(buf *pixel.Buffer) error { return errNoWindow }
func (s *WindowSurface) Close() error                    { return nil }

func RunWindow(_ context.Context, _ *WindowSurface, _ string, _ func(context.Context) error) error {
	return errNoWindow
}
