// Package app wires the frame loader, the animation controller and a display
// surface into one splash run.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fbsplash/hal"
	"fbsplash/internal/animation"
	"fbsplash/internal/config"
	"fbsplash/internal/frames"
)

// DefaultPath is shown when no path is given on the command line.
const DefaultPath = "/splash/splash-1080.png"

// ConfigName is appended to a frame prefix to locate its settings.
const ConfigName = "config"

// Input is everything read from disk before the display is touched.
type Input struct {
	Path   string
	Frames *frames.Store
	Anim   config.Animation
	// Static is set when Path named a single image.
	Static bool
}

// Static reports whether path names a single image file rather than a
// frame prefix.
func Static(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Load reads the splash at path.
//
// A regular file is a static splash. Anything else is taken as a prefix:
// <path>config holds the animation settings and <path>0.png, <path>1.png,
// ... the frames, frame 0 being the background.
func Load(ctx context.Context, path string) (*Input, error) {
	if Static(path) {
		s, err := frames.LoadFile(path)
		if err != nil {
			return nil, err
		}
		anim := config.Default()
		anim.Enable = false
		return &Input{Path: path, Frames: s, Anim: anim, Static: true}, nil
	}

	anim, err := config.Load(path + ConfigName)
	if err != nil {
		return nil, fmt.Errorf("app: %s is not an image: %w", path, err)
	}
	s, err := frames.LoadDir(ctx, path, anim.Enable)
	if err != nil {
		return nil, err
	}
	return &Input{Path: path, Frames: s, Anim: anim}, nil
}

// Fatal reports whether err should make the process exit with a failure
// status: nothing to show, or no display to show it on. Anything that
// goes wrong after the display is up leaves the last good frame visible
// and is not fatal.
func Fatal(err error) bool {
	return errors.Is(err, hal.ErrDevice) ||
		errors.Is(err, frames.ErrNoInput) ||
		errors.Is(err, config.ErrConfig)
}

// Run presents in on surf and, if it has overlay frames, animates them until
// ctx is done. The surface is not closed.
func Run(ctx context.Context, in *Input, surf hal.Surface, log hal.Logger, opts ...animation.Option) (err error) {
	if log == nil {
		log = hal.NopLogger{}
	}
	defer recoverPanic(log, &err)
	in.Frames.LimitMetadata(hal.ScreenBytes(surf))

	opts = append([]animation.Option{animation.WithLogger(log)}, opts...)
	c := animation.New(in.Frames, surf, in.Anim.Offset, in.Anim.Interval(), opts...)
	defer c.Close()

	if err := c.Prepare(); err != nil {
		return err
	}
	log.WriteLineString(fmt.Sprintf("app: showing %s on %dx%d display", in.Frames.Name(0), surf.Width(), surf.Height()))

	if in.Frames.Count() < 2 {
		return nil
	}
	log.WriteLineString(fmt.Sprintf("app: animating %d frames at %d fps", in.Frames.Count()-1, in.Anim.FPS))
	err = c.Run(ctx)
	log.WriteLineString(fmt.Sprintf("app: presented %d frames", c.Frames()))
	return err
}
