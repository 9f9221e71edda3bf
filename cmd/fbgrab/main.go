// Command fbgrab saves the visible contents of a Linux framebuffer as PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"fbsplash/hal"
	"fbsplash/internal/pixel"
)

func main() {
	dev := flag.String("fb", hal.DefaultFramebuffer, "Framebuffer device to read.")
	out := flag.String("o", "fbgrab.png", "Output PNG file.")
	flag.Parse()

	if err := grab(*dev, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func grab(dev, out string) error {
	fb, err := hal.OpenFramebufferReadOnly(dev)
	if err != nil {
		return err
	}
	defer fb.Close()

	snap, err := fb.Snapshot()
	if err != nil {
		return err
	}
	opaque(snap)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// opaque forces every pixel's alpha to 0xFF; most fbdev drivers leave the
// transparency byte unused.
func opaque(b *pixel.Buffer) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.SetWord(x, y, b.Word(x, y)|0xFF000000)
		}
	}
}
