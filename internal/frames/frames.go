// Package frames holds the encoded splash images in memory and decodes them
// into BGRA pixel buffers on demand.
package frames

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"fbsplash/internal/pixel"
)

var (
	ErrDecode  = errors.New("frames: cannot decode image")
	ErrNoInput = errors.New("frames: no input image found")
)

// MetadataFactor scales the screen byte size into the ceiling applied to
// non-pixel PNG chunks.
const MetadataFactor = 8

// Source yields decoded frames by id. Id 0 is the full-screen background;
// ids 1..Count()-1 are overlay frames.
type Source interface {
	Count() int
	Decode(id int) (*pixel.Buffer, error)
}

type frame struct {
	name string
	data []byte
}

// Store is a Source backed by encoded images held in memory.
type Store struct {
	frames []frame
	limit  int
}

// NewStore returns a Store over already loaded images. names is used in
// error messages only and may be shorter than data.
func NewStore(data [][]byte, names []string) *Store {
	s := &Store{frames: make([]frame, len(data))}
	for i, d := range data {
		s.frames[i].data = d
		if i < len(names) {
			s.frames[i].name = names[i]
		} else {
			s.frames[i].name = fmt.Sprintf("frame %d", i)
		}
	}
	return s
}

func (s *Store) Count() int { return len(s.frames) }

// Name returns the file name frame id was loaded from.
func (s *Store) Name(id int) string {
	if id < 0 || id >= len(s.frames) {
		return ""
	}
	return s.frames[id].name
}

// LimitMetadata caps the bytes a PNG may spend on chunks other than pixel
// data, as MetadataFactor times the given screen size. Zero removes the cap.
func (s *Store) LimitMetadata(screenBytes int) {
	s.limit = screenBytes * MetadataFactor
}

// Decode decodes frame id into a packed BGRA8888 buffer.
func (s *Store) Decode(id int) (*pixel.Buffer, error) {
	if id < 0 || id >= len(s.frames) {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrDecode, id, len(s.frames))
	}
	f := s.frames[id]

	if isPNG(f.data) {
		if err := checkChunks(f.data, s.limit); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f.name, err)
		}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f.name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s: empty image %dx%d", ErrDecode, f.name, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(f.data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f.name, err)
	}
	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("frames: %s: %w", f.name, err)
	}
	return buf, nil
}
