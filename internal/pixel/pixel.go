// Package pixel defines the one in-memory pixel layout used throughout the
// splash pipeline: 32-bit BGRA with straight (non-premultiplied) alpha.
//
// Byte 0 of a pixel is blue, then green, red and alpha. Read as a
// little-endian 32-bit word a pixel is 0xAARRGGBB, which is how Word and
// SetWord expose it.
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// BytesPerPixel is the width of one BGRA8888 pixel.
const BytesPerPixel = 4

// ErrAlloc reports a buffer geometry that cannot be allocated.
var ErrAlloc = errors.New("pixel: cannot allocate buffer")

// Buffer is a contiguous, stride-aware BGRA8888 pixel buffer.
//
// Pix holds Height rows of Stride bytes; only the first Width*BytesPerPixel
// bytes of each row carry pixels.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// New allocates a zeroed, tightly packed buffer.
func New(width, height int) (*Buffer, error) {
	return NewStride(width, height, width*BytesPerPixel)
}

// NewStride allocates a zeroed buffer whose rows are stride bytes apart.
func NewStride(width, height, stride int) (*Buffer, error) {
	n, err := Size(width, height, stride)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		Pix:    make([]byte, n),
		Width:  width,
		Height: height,
		Stride: stride,
	}, nil
}

// Size returns the byte length of a buffer with the given geometry.
func Size(width, height, stride int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrAlloc, width, height)
	}
	if width > math.MaxInt/BytesPerPixel || stride < width*BytesPerPixel {
		return 0, fmt.Errorf("%w: stride %d for width %d", ErrAlloc, stride, width)
	}
	if height > math.MaxInt/stride {
		return 0, fmt.Errorf("%w: %d rows of %d bytes", ErrAlloc, height, stride)
	}
	return height * stride, nil
}

// RowBytes is the number of pixel bytes in one row, excluding padding.
func (b *Buffer) RowBytes() int { return b.Width * BytesPerPixel }

// Packed reports whether rows carry no padding.
func (b *Buffer) Packed() bool { return b.Stride == b.RowBytes() }

// PixOffset returns the index of the first byte of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.Stride + x*BytesPerPixel
}

// Row returns the pixel bytes of row y without padding.
func (b *Buffer) Row(y int) []byte {
	i := y * b.Stride
	return b.Pix[i : i+b.RowBytes()]
}

// Word returns pixel (x, y) as 0xAARRGGBB.
func (b *Buffer) Word(x, y int) uint32 {
	return binary.LittleEndian.Uint32(b.Pix[b.PixOffset(x, y):])
}

// SetWord stores 0xAARRGGBB at pixel (x, y).
func (b *Buffer) SetWord(x, y int, v uint32) {
	binary.LittleEndian.PutUint32(b.Pix[b.PixOffset(x, y):], v)
}

// SameGeometry reports whether o has the same width, height and stride.
func (b *Buffer) SameGeometry(o *Buffer) bool {
	return o != nil && b.Width == o.Width && b.Height == o.Height && b.Stride == o.Stride
}

// CopyFrom copies src into b starting at the top-left corner, clipped to the
// smaller of the two. Identical geometry takes a single copy.
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.SameGeometry(src) {
		copy(b.Pix, src.Pix)
		return
	}
	w := min(b.Width, src.Width) * BytesPerPixel
	h := min(b.Height, src.Height)
	for y := 0; y < h; y++ {
		copy(b.Pix[y*b.Stride:y*b.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}

// Fill sets every pixel to v.
func (b *Buffer) Fill(v uint32) {
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for i := 0; i < len(row); i += BytesPerPixel {
			binary.LittleEndian.PutUint32(row[i:], v)
		}
	}
}

// Unpack splits a word into its channels.
func Unpack(v uint32) (r, g, b, a uint8) {
	return uint8(v >> 16), uint8(v >> 8), uint8(v), uint8(v >> 24)
}

// Pack builds 0xAARRGGBB from channels.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
