// Package scale resamples pixel buffers with nearest-neighbour sampling.
package scale

import (
	"errors"
	"fmt"
	"image"
	"math"

	"fbsplash/internal/pixel"
)

var ErrInvalidFactor = errors.New("scale: invalid factor")

// Factor is the ratio between a source image and the display it must fill.
// A factor of 2 halves that axis.
type Factor struct {
	X, Y          float64
	BytesPerPixel int
}

// FactorFor derives the factor mapping a srcW x srcH image onto a
// dispW x dispH display. ok is false when the sizes already match and no
// resize is needed.
func FactorFor(srcW, srcH, dispW, dispH, bytesPerPixel int) (f Factor, ok bool) {
	if srcW == dispW && srcH == dispH {
		return Factor{X: 1, Y: 1, BytesPerPixel: bytesPerPixel}, false
	}
	return Factor{
		X:             float64(srcW) / float64(dispW),
		Y:             float64(srcH) / float64(dispH),
		BytesPerPixel: bytesPerPixel,
	}, true
}

// Identity reports whether the factor leaves both axes untouched.
func (f Factor) Identity() bool { return f.X == 1 && f.Y == 1 }

func (f Factor) validate() error {
	if !(f.X > 0) || !(f.Y > 0) || math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidFactor, f.X, f.Y)
	}
	if f.BytesPerPixel != pixel.BytesPerPixel {
		return fmt.Errorf("%w: %d bytes per pixel", ErrInvalidFactor, f.BytesPerPixel)
	}
	return nil
}

// Apply maps a point given in source coordinates into resized coordinates.
// Fractions are truncated.
func (f Factor) Apply(p image.Point) image.Point {
	return image.Point{
		X: int(float64(p.X) / f.X),
		Y: int(float64(p.Y) / f.Y),
	}
}

// Size returns the resized dimensions of a w x h source.
func (f Factor) Size(w, h int) (int, int) {
	return int(math.Ceil(float64(w) / f.X)), int(math.Ceil(float64(h) / f.Y))
}

// Resize returns src resampled by f. dst is reused when its allocation is
// exactly the size the result needs; otherwise a new buffer is allocated.
// src is never modified, and dst must not alias it.
func Resize(dst, src *pixel.Buffer, f Factor) (*pixel.Buffer, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	newW, newH := f.Size(src.Width, src.Height)
	n, err := pixel.Size(newW, newH, newW*pixel.BytesPerPixel)
	if err != nil {
		return nil, fmt.Errorf("scale: %dx%d by %gx%g: %w", src.Width, src.Height, f.X, f.Y, err)
	}

	if dst == nil || dst == src || len(dst.Pix) != n {
		dst = &pixel.Buffer{Pix: make([]byte, n)}
	}
	dst.Width = newW
	dst.Height = newH
	dst.Stride = newW * pixel.BytesPerPixel

	const bpp = pixel.BytesPerPixel
	for y := 0; y < newH; y++ {
		oldY := min(int(float64(y)*f.Y), src.Height-1)
		in := src.Pix[oldY*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < newW; x++ {
			oldX := min(int(float64(x)*f.X), src.Width-1)
			copy(out[x*bpp:x*bpp+bpp], in[oldX*bpp:oldX*bpp+bpp])
		}
	}
	return dst, nil
}
