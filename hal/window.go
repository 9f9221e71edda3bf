//go:build cgo

package hal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"fbsplash/internal/pixel"
)

// WindowSurface previews the splash in a desktop window. Present may be
// called from any goroutine; RunWindow draws the latest frame.
type WindowSurface struct {
	mu     sync.Mutex
	width  int
	height int
	rgba   []byte
	dirty  bool
	closed bool
}

// NewWindowSurface returns a width x height preview surface.
func NewWindowSurface(width, height int) (*WindowSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: window %dx%d", ErrDevice, width, height)
	}
	return &WindowSurface{
		width:  width,
		height: height,
		rgba:   make([]byte, width*height*pixel.BytesPerPixel),
	}, nil
}

func (s *WindowSurface) Width() int         { return s.width }
func (s *WindowSurface) Height() int        { return s.height }
func (s *WindowSurface) StrideBytes() int   { return s.width * pixel.BytesPerPixel }
func (s *WindowSurface) BytesPerPixel() int { return pixel.BytesPerPixel }

func (s *WindowSurface) Present(buf *pixel.Buffer) error {
	if err := checkGeometry(s, buf); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: window closed", ErrDevice)
	}
	buf.RGBAInto(s.rgba)
	s.dirty = true
	return nil
}

func (s *WindowSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// RunWindow opens a window showing s and calls run on another goroutine.
// ebiten needs the main goroutine, so RunWindow must be called from main.
// Closing the window cancels run's context; run returning closes the
// window. The result of run is returned.
func RunWindow(ctx context.Context, s *WindowSurface, title string, run func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	g := &windowGame{s: s, done: done}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(s.width, s.height)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	if !g.finished {
		cancel()
		g.result = <-done
	}
	if g.result != nil {
		return g.result
	}
	return err
}

type windowGame struct {
	s        *WindowSurface
	img      *ebiten.Image
	done     <-chan error
	finished bool
	result   error
}

func (g *windowGame) Update() error {
	select {
	case err := <-g.done:
		g.finished = true
		g.result = err
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.s.width, g.s.height)
	}
	g.s.mu.Lock()
	if g.s.dirty {
		g.img.WritePixels(g.s.rgba)
		g.s.dirty = false
	}
	g.s.mu.Unlock()
	screen.DrawImage(g.img, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.s.width, g.s.height
}
