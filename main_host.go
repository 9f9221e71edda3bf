package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"time"

	"fbsplash/app"
	"fbsplash/hal"
	"fbsplash/internal/buildinfo"
	"fbsplash/internal/pixel"
)

type options struct {
	path       string
	device     string
	headless   string
	window     string
	dump       string
	fps        int
	duration   time.Duration
	foreground bool
}

func main() {
	var o options
	var version bool
	flag.StringVar(&o.device, "fb", hal.DefaultFramebuffer, "Framebuffer device to draw on.")
	flag.StringVar(&o.headless, "headless", "", "Draw into memory at WxH instead of a device.")
	flag.StringVar(&o.window, "window", "", "Preview in a WxH desktop window.")
	flag.StringVar(&o.dump, "dump", "", "With -headless, write the last presented frame to this PNG file.")
	flag.IntVar(&o.fps, "fps", 0, "Override frames_per_second (0 = use the config file).")
	flag.DurationVar(&o.duration, "duration", 0, "Stop animating after this long (0 = until signalled).")
	flag.BoolVar(&o.foreground, "foreground", false, "Do not detach from the terminal in animation mode.")
	flag.BoolVar(&version, "version", false, "Print version and exit.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [image | frame-prefix]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}
	o.path = app.DefaultPath
	if flag.NArg() > 0 {
		o.path = flag.Arg(0)
	}
	os.Exit(run(o, hal.NewStderrLogger()))
}

func run(o options, log hal.Logger) int {
	if o.headless != "" && o.window != "" {
		log.WriteLineString("-headless and -window are exclusive")
		return 2
	}
	if daemonChild() {
		daemonSetup()
	}

	static := app.Static(o.path)
	detach := !o.foreground && !static && o.headless == "" && o.window == "" && !daemonChild()
	early := strings.HasPrefix(o.path, "/splash")
	if detach && early {
		return detachOrFail(log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()
	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}

	in, err := app.Load(ctx, o.path)
	if err != nil {
		log.WriteLineString(err.Error())
		return 1
	}
	if o.fps > 0 {
		in.Anim.FPS = o.fps
	}
	if detach && !early {
		return detachOrFail(log)
	}

	err = show(ctx, o, in, log)
	if err != nil {
		log.WriteLineString(err.Error())
		if app.Fatal(err) {
			return 1
		}
	}
	return 0
}

func detachOrFail(log hal.Logger) int {
	if err := daemonize(); err != nil {
		log.WriteLineString(fmt.Sprintf("detach: %v", err))
		return 1
	}
	return 0
}

// show opens the surface o asks for and runs the splash on it.
func show(ctx context.Context, o options, in *app.Input, log hal.Logger) error {
	switch {
	case o.window != "":
		w, h, err := parseSize(o.window)
		if err != nil {
			return err
		}
		ws, err := hal.NewWindowSurface(w, h)
		if err != nil {
			return err
		}
		defer ws.Close()
		title := "fbsplash " + buildinfo.Short()
		return hal.RunWindow(ctx, ws, title, func(ctx context.Context) error {
			return app.Run(ctx, in, ws, log)
		})

	case o.headless != "":
		w, h, err := parseSize(o.headless)
		if err != nil {
			return err
		}
		ms, err := hal.NewMemSurface(w, h, 0)
		if err != nil {
			return err
		}
		defer ms.Close()
		runErr := app.Run(ctx, in, ms, log)
		if o.dump != "" && ms.Presents() > 0 {
			if err := writePNG(o.dump, ms.Snapshot()); err != nil {
				return errors.Join(runErr, err)
			}
			log.WriteLineString("wrote " + o.dump)
		}
		return runErr

	default:
		fb, err := hal.OpenFramebuffer(o.device)
		if err != nil {
			return err
		}
		defer fb.Close()
		return app.Run(ctx, in, fb, log)
	}
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: bad size %q, want WxH", hal.ErrDevice, s)
	}
	return w, h, nil
}

func writePNG(path string, b *pixel.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
