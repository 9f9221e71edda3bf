// Package blend composites straight-alpha BGRA pixels onto an opaque
// background.
package blend

import (
	"image"

	"fbsplash/internal/pixel"
)

// Pixel blends front over back and returns the result as an opaque
// 0xAARRGGBB word. A fully transparent front leaves back as is.
func Pixel(back, front uint32) uint32 {
	alpha := float64(front>>24) / 255.0
	if alpha == 0 {
		return back
	}
	return 0xFF000000 |
		uint32(mix(back>>16, front>>16, alpha))<<16 |
		uint32(mix(back>>8, front>>8, alpha))<<8 |
		uint32(mix(back, front, alpha))
}

func mix(back, front uint32, alpha float64) uint8 {
	return uint8(float64(back&0xFF)*(1.0-alpha) + float64(front&0xFF)*alpha)
}

// Over composites src onto dst with its top-left corner at at. Only the
// rectangle covered by src, clipped to dst, is written. Each buffer is
// addressed through its own stride.
func Over(dst *pixel.Buffer, at image.Point, src *pixel.Buffer) {
	r := image.Rect(at.X, at.Y, at.X+src.Width, at.Y+src.Height).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := y - at.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			front := src.Word(x-at.X, sy)
			if front>>24 == 0 {
				continue
			}
			dst.SetWord(x, y, Pixel(dst.Word(x, y), front))
		}
	}
}
