package animation

import (
	"image"

	"fbsplash/internal/pixel"
	"fbsplash/internal/scale"
)

// Sequence walks the overlay frames of a source. Frame 0 is the background
// and is never replayed; Current cycles through 1..Count-1.
type Sequence struct {
	Count   int
	Current int
}

// NewSequence starts at the first overlay frame.
func NewSequence(count int) Sequence {
	return Sequence{Count: count, Current: 1}
}

// Advance moves to the next overlay, wrapping from Count-1 back to 1.
func (s *Sequence) Advance() {
	s.Current++
	if s.Current >= s.Count {
		s.Current = 1
	}
}

// Session is the state of one animation run. All of its buffers are owned
// by the goroutine running the controller.
type Session struct {
	// Background is the presented splash in display geometry. It is
	// read-only once the run starts.
	Background *pixel.Buffer
	// Seq is the overlay cursor.
	Seq Sequence
	// Offset is where overlays land, already in resized coordinates.
	Offset image.Point
	// Factor is applied to every overlay when Resize is set.
	Factor scale.Factor
	Resize bool

	scratch *pixel.Buffer
	scaled  *pixel.Buffer
	stop    bool
}

// Release drops every buffer the session owns.
func (s *Session) Release() {
	s.Background = nil
	s.scratch = nil
	s.scaled = nil
}

// Stopped reports whether a failed frame ended the run.
func (s *Session) Stopped() bool { return s.stop }
