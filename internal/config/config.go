// Package config reads the key=value animation settings that sit next to a
// frame directory.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// DefaultFPS is used when the file does not set frames_per_second.
const DefaultFPS = 20

var ErrConfig = errors.New("config: unusable animation config")

// Animation holds the settings of one animation directory.
type Animation struct {
	// Enable plays overlay frames; when false only frame 0 is shown.
	Enable bool
	// Offset places overlays on the background, in display pixels.
	Offset image.Point
	// FPS is the overlay cadence.
	FPS int
}

// Default returns the settings used for keys a file leaves out.
func Default() Animation {
	return Animation{Enable: true, FPS: DefaultFPS}
}

// Interval is the period between two overlay frames, in whole milliseconds
// and never shorter than one.
func (a Animation) Interval() time.Duration {
	fps := a.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ms := 1000 / fps
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads and parses the config file at path.
func Load(path string) (Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return Animation{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	defer f.Close()

	a, err := Parse(f)
	if err != nil {
		return Animation{}, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return a, nil
}

// Parse reads settings from r.
//
// Each line is tokenized like a shell word list, so quoting and trailing
// '#' comments are allowed. The value of a key is the first run of decimal
// digits after '='; lines without one are skipped, as are unknown keys and
// lines that do not tokenize, such as an unbalanced quote.
func Parse(r io.Reader) (Animation, error) {
	a := Default()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		words, err := shlex.Split(sc.Text())
		if err != nil {
			continue
		}
		key, rest, ok := strings.Cut(strings.Join(words, ""), "=")
		if !ok {
			continue
		}
		v, ok := leadingUint(rest)
		if !ok {
			continue
		}

		switch key {
		case "animation_enable":
			a.Enable = v != 0
		case "animation_offset_x":
			a.Offset.X = v
		case "animation_offset_y":
			a.Offset.Y = v
		case "frames_per_second":
			if v > 0 {
				a.FPS = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Animation{}, err
	}
	return a, nil
}

func leadingUint(s string) (int, bool) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.ParseUint(s[start:end], 10, 31)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
