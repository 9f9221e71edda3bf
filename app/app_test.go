package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fbsplash/hal"
	"fbsplash/internal/config"
	"fbsplash/internal/frames"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func writeAnimation(t *testing.T, cfg string, overlays int) string {
	t.Helper()
	prefix := filepath.Join(t.TempDir(), "splash-")
	if err := os.WriteFile(prefix+ConfigName, []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writePNG(t, prefix+"0.png", 8, 8, color.NRGBA{A: 0xFF})
	for i := 1; i <= overlays; i++ {
		writePNG(t, fmt.Sprintf("%s%d.png", prefix, i), 2, 2, color.NRGBA{R: 0xFF, A: 0xFF})
	}
	return prefix
}

func TestLoadStaticImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 4, 4, color.NRGBA{G: 0xFF, A: 0xFF})

	in, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !in.Static || in.Frames.Count() != 1 {
		t.Fatalf("expected one static frame, got static=%v count=%d", in.Static, in.Frames.Count())
	}
	if in.Anim.Enable {
		t.Fatal("expected animation disabled for a static image")
	}
}

func TestLoadAnimationPrefix(t *testing.T) {
	prefix := writeAnimation(t, "animation_enable=1\nanimation_offset_x=2\nframes_per_second=50\n", 3)

	in, err := Load(context.Background(), prefix)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.Static {
		t.Fatal("expected a prefix, not a static image")
	}
	if in.Frames.Count() != 4 {
		t.Fatalf("expected 4 frames, got %d", in.Frames.Count())
	}
	if in.Anim.Offset != image.Pt(2, 0) || in.Anim.FPS != 50 {
		t.Fatalf("unexpected settings %+v", in.Anim)
	}
}

func TestLoadAnimationDisabledKeepsBackgroundOnly(t *testing.T) {
	prefix := writeAnimation(t, "animation_enable=0\n", 3)

	in, err := Load(context.Background(), prefix)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.Frames.Count() != 1 {
		t.Fatalf("expected only the background, got %d frames", in.Frames.Count())
	}
}

func TestLoadMissingInputIsFatal(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nothing-"))
	if !errors.Is(err, config.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if !Fatal(err) {
		t.Fatal("expected missing input to be fatal")
	}

	prefix := filepath.Join(t.TempDir(), "empty-")
	if err := os.WriteFile(prefix+ConfigName, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err = Load(context.Background(), prefix)
	if !errors.Is(err, frames.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if !Fatal(err) {
		t.Fatal("expected missing frames to be fatal")
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(fmt.Errorf("open: %w", hal.ErrDevice)) {
		t.Fatal("expected device errors to be fatal")
	}
	if Fatal(fmt.Errorf("frame 3: %w", frames.ErrDecode)) {
		t.Fatal("expected decode errors not to be fatal")
	}
	if Fatal(nil) {
		t.Fatal("expected nil not to be fatal")
	}
}

func TestRunStaticPresentsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 4, 2, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF})
	in, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	surf, _ := hal.NewMemSurface(4, 2, 0)

	if err := Run(context.Background(), in, surf, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if surf.Presents() != 1 {
		t.Fatalf("expected 1 present, got %d", surf.Presents())
	}
	if w := surf.Snapshot().Word(3, 1); w != 0xFF102030 {
		t.Fatalf("expected splash pixel, got %#08x", w)
	}
}

func TestRunAnimatesUntilCancelled(t *testing.T) {
	prefix := writeAnimation(t, "animation_enable=1\nanimation_offset_x=2\nanimation_offset_y=2\nframes_per_second=200\n", 2)
	in, err := Load(context.Background(), prefix)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The 8x8 background is shown at half size, so the overlay lands at
	// (1,1) as a single pixel.
	surf, _ := hal.NewMemSurface(4, 4, 0)

	var log bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, in, surf, hal.NewLogger(&log, "")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if surf.Presents() < 2 {
		t.Fatalf("expected overlay frames to be presented, got %d presents", surf.Presents())
	}
	snap := surf.Snapshot()
	if w := snap.Word(1, 1); w != 0xFFFF0000 {
		t.Fatalf("expected overlay at (1,1), got %#08x", w)
	}
	if w := snap.Word(0, 0); w != 0xFF000000 {
		t.Fatalf("expected background at (0,0), got %#08x", w)
	}
	if !bytes.Contains(log.Bytes(), []byte("animation: stopped")) {
		t.Fatalf("expected stop to be logged, got %q", log.String())
	}
}

func TestRunUndecodableBackgroundIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	in, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	surf, _ := hal.NewMemSurface(2, 2, 0)
	err = Run(context.Background(), in, surf, nil)
	if !errors.Is(err, frames.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if Fatal(err) {
		t.Fatal("expected a decode failure not to be fatal")
	}
	if surf.Presents() != 0 {
		t.Fatalf("expected nothing presented, got %d", surf.Presents())
	}
}

type panel struct {
	w, h     int16
	pix      map[[2]int16]color.RGBA
	displays int
}

func (p *panel) Size() (int16, int16) { return p.w, p.h }

func (p *panel) SetPixel(x, y int16, c color.RGBA) {
	if p.pix == nil {
		p.pix = make(map[[2]int16]color.RGBA)
	}
	p.pix[[2]int16{x, y}] = c
}

func (p *panel) Display() error {
	p.displays++
	return nil
}

func TestRunOnDriverDisplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 4, 4, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF})
	in, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := &panel{w: 2, h: 2}
	surf, err := hal.NewDisplayerSurface(p)
	if err != nil {
		t.Fatalf("NewDisplayerSurface: %v", err)
	}

	if err := Run(context.Background(), in, surf, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.displays != 1 {
		t.Fatalf("expected 1 Display call, got %d", p.displays)
	}
	if c := p.pix[[2]int16{1, 1}]; c != (color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}) {
		t.Fatalf("unexpected panel pixel %+v", c)
	}
}
