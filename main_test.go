package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fbsplash/hal"
)

func writeSplash(t *testing.T, path string, w, h int, c color.NRGBA) {
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

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("1920x1080")
	if err != nil || w != 1920 || h != 1080 {
		t.Fatalf("expected 1920x1080, got %dx%d (%v)", w, h, err)
	}
	for _, s := range []string{"", "1920", "0x10", "-1x5", "axb"} {
		if _, _, err := parseSize(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestRunHeadlessDumpsFrame(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	out := filepath.Join(dir, "out.png")
	writeSplash(t, src, 8, 4, color.NRGBA{R: 0x40, G: 0x80, B: 0xC0, A: 0xFF})

	code := run(options{path: src, headless: "4x2", dump: out}, hal.NopLogger{})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("expected 4x2 dump, got %v", b)
	}
	r, g, b, a := img.At(3, 1).RGBA()
	if r>>8 != 0x40 || g>>8 != 0x80 || b>>8 != 0xC0 || a>>8 != 0xFF {
		t.Fatalf("unexpected dumped pixel %x %x %x %x", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRunHeadlessAnimationStopsAfterDuration(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "anim-")
	if err := os.WriteFile(prefix+"config", []byte("animation_enable=1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writeSplash(t, prefix+"0.png", 2, 2, color.NRGBA{A: 0xFF})
	writeSplash(t, prefix+"1.png", 1, 1, color.NRGBA{G: 0xFF, A: 0xFF})

	out := filepath.Join(t.TempDir(), "last.png")
	o := options{path: prefix, headless: "2x2", dump: out, fps: 100, duration: 100 * time.Millisecond}
	if code := run(o, hal.NopLogger{}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if r, g, b, a := img.At(0, 0).RGBA(); r != 0 || g>>8 != 0xFF || b != 0 || a>>8 != 0xFF {
		t.Fatalf("expected green overlay at (0,0), got %x %x %x %x", r>>8, g>>8, b>>8, a>>8)
	}
	if r, g, b, a := img.At(1, 1).RGBA(); r|g|b != 0 || a>>8 != 0xFF {
		t.Fatalf("expected black background at (1,1), got %x %x %x %x", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRunMissingInputFails(t *testing.T) {
	o := options{path: filepath.Join(t.TempDir(), "missing-"), headless: "2x2"}
	if code := run(o, hal.NopLogger{}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunRejectsBothSurfaces(t *testing.T) {
	if code := run(options{headless: "1x1", window: "1x1"}, hal.NopLogger{}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
