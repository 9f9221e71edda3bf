package pixel

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Buffer satisfies image.Image so snapshots can go straight to an encoder.
var _ image.Image = (*Buffer)(nil)

func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	r, g, bl, a := Unpack(b.Word(x, y))
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// FromImage converts a decoded image into a packed BGRA8888 buffer.
//
// NRGBA sources are swizzled directly; anything else is first drawn onto an
// NRGBA canvas so the result always carries straight alpha.
func FromImage(img image.Image) (*Buffer, error) {
	r := img.Bounds()
	buf, err := New(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(src, src.Bounds(), img, r.Min, draw.Src)
		r = src.Bounds()
	}

	for y := 0; y < buf.Height; y++ {
		in := src.Pix[src.PixOffset(r.Min.X, r.Min.Y+y):]
		out := buf.Row(y)
		for i := 0; i < len(out); i += BytesPerPixel {
			out[i+0] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i+0]
			out[i+3] = in[i+3]
		}
	}
	return buf, nil
}

// RGBA copies the buffer into a new image.RGBA, premultiplying on the way.
// Display buffers are opaque, so this is a plain swizzle for them.
func (b *Buffer) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	b.RGBAInto(img.Pix)
	return img
}

// RGBAInto writes the buffer as packed, premultiplied RGBA bytes into dst,
// which must hold Width*Height*4 bytes.
func (b *Buffer) RGBAInto(dst []byte) {
	j := 0
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for i := 0; i < len(row); i += BytesPerPixel {
			a := uint32(row[i+3])
			dst[j+0] = uint8(uint32(row[i+2]) * a / 0xFF)
			dst[j+1] = uint8(uint32(row[i+1]) * a / 0xFF)
			dst[j+2] = uint8(uint32(row[i+0]) * a / 0xFF)
			dst[j+3] = uint8(a)
			j += BytesPerPixel
		}
	}
}
