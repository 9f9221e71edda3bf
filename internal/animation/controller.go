// Package animation presents the splash background and loops the overlay
// frames on top of it at a fixed cadence.
package animation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"fbsplash/hal"
	"fbsplash/internal/blend"
	"fbsplash/internal/frames"
	"fbsplash/internal/pixel"
	"fbsplash/internal/scale"
)

var (
	// ErrState reports a call made in the wrong controller state.
	ErrState = errors.New("animation: invalid state")
	// ErrInterval reports a frame interval that cannot drive a ticker.
	ErrInterval = errors.New("animation: interval must be positive")
)

// State is the controller lifecycle stage.
type State int32

const (
	Idle State = iota
	BackgroundReady
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BackgroundReady:
		return "background-ready"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Ticker is a periodic timer.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

// Option configures a Controller.
type Option func(*Controller)

// WithTicker replaces the wall-clock ticker.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(c *Controller) { c.newTicker = newTicker }
}

// WithLogger sets where lifecycle events are logged.
func WithLogger(l hal.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller drives one splash run: Prepare shows the background, Run loops
// the overlays until cancelled or a frame fails.
type Controller struct {
	src      frames.Source
	surf     hal.Surface
	log      hal.Logger
	offset   image.Point
	interval time.Duration

	newTicker func(time.Duration) Ticker

	state  atomic.Int32
	frames atomic.Uint64
	sess   *Session
}

// New returns an idle controller. offset is in source image pixels and is
// rescaled along with the background.
func New(src frames.Source, surf hal.Surface, offset image.Point, interval time.Duration, opts ...Option) *Controller {
	c := &Controller{
		src:       src,
		surf:      surf,
		log:       hal.NopLogger{},
		offset:    offset,
		interval:  interval,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle stage. Safe for concurrent use.
func (c *Controller) State() State { return State(c.state.Load()) }

// Frames returns how many overlay frames have been presented.
func (c *Controller) Frames() uint64 { return c.frames.Load() }

// Session returns the current run state, or nil before Prepare. It must
// not be used while Run is executing.
func (c *Controller) Session() *Session { return c.sess }

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
	c.log.WriteLineString("animation: " + s.String())
}

// Prepare decodes frame 0, rescales it to the surface when the sizes
// differ, and presents it.
func (c *Controller) Prepare() error {
	if st := c.State(); st != Idle {
		return fmt.Errorf("%w: prepare in %s", ErrState, st)
	}
	if c.src.Count() == 0 {
		return frames.ErrNoInput
	}

	img, err := c.src.Decode(0)
	if err != nil {
		return fmt.Errorf("animation: background: %w", err)
	}

	sess := &Session{Seq: NewSequence(c.src.Count()), Offset: c.offset}
	sess.Factor, sess.Resize = scale.FactorFor(img.Width, img.Height, c.surf.Width(), c.surf.Height(), c.surf.BytesPerPixel())
	if sess.Resize {
		c.log.WriteLineString(fmt.Sprintf("animation: resizing %dx%d to %dx%d", img.Width, img.Height, c.surf.Width(), c.surf.Height()))
		if img, err = scale.Resize(nil, img, sess.Factor); err != nil {
			return fmt.Errorf("animation: background: %w", err)
		}
		sess.Offset = sess.Factor.Apply(c.offset)
	}

	bg, err := hal.NewBuffer(c.surf)
	if err != nil {
		return fmt.Errorf("animation: background: %w", err)
	}
	bg.Fill(0xFF000000)
	bg.CopyFrom(img)
	if err := c.surf.Present(bg); err != nil {
		return fmt.Errorf("animation: present background: %w", err)
	}

	sess.Background = bg
	c.sess = sess
	c.setState(BackgroundReady)
	return nil
}

// Run plays the overlay frames every interval until ctx is done or a frame
// fails. With fewer than two frames there is nothing to animate and Run
// returns nil at once, leaving the controller in BackgroundReady. A
// non-positive interval is refused with ErrInterval.
//
// Cancellation is observed between frames; a frame that has started is
// always finished. A failing frame stops the loop and its error is
// returned. The session buffers are released when Run returns.
func (c *Controller) Run(ctx context.Context) error {
	if st := c.State(); st != BackgroundReady {
		return fmt.Errorf("%w: run in %s", ErrState, st)
	}
	if c.sess.Seq.Count < 2 {
		return nil
	}
	if c.interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInterval, c.interval)
	}

	defer c.stop()
	t := c.newTicker(c.interval)
	defer t.Stop()

	c.setState(Running)
	for {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C():
			if err := c.tick(); err != nil {
				c.sess.stop = true
				c.log.WriteLineString(fmt.Sprintf("animation: stopping: %v", err))
				return err
			}
		}
	}
}

func (c *Controller) stop() {
	c.sess.Release()
	c.setState(Stopped)
}

// Close releases the session without running. It is a no-op once Run has
// returned.
func (c *Controller) Close() {
	if c.sess != nil && c.State() != Stopped {
		c.stop()
	}
}

// tick composites the current overlay onto a fresh copy of the background
// and presents it.
func (c *Controller) tick() error {
	s := c.sess
	if s.scratch == nil {
		scratch, err := pixel.NewStride(s.Background.Width, s.Background.Height, s.Background.Stride)
		if err != nil {
			return fmt.Errorf("animation: scratch buffer: %w", err)
		}
		s.scratch = scratch
	}
	s.scratch.CopyFrom(s.Background)

	fg, err := c.src.Decode(s.Seq.Current)
	if err != nil {
		return fmt.Errorf("animation: frame %d: %w", s.Seq.Current, err)
	}
	if s.Resize {
		if fg, err = scale.Resize(s.scaled, fg, s.Factor); err != nil {
			return fmt.Errorf("animation: frame %d: %w", s.Seq.Current, err)
		}
		s.scaled = fg
	}

	blend.Over(s.scratch, s.Offset, fg)
	if err := c.surf.Present(s.scratch); err != nil {
		return fmt.Errorf("animation: present frame %d: %w", s.Seq.Current, err)
	}
	c.frames.Add(1)
	s.Seq.Advance()
	return nil
}
