package frames

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Extensions are tried in order for every frame index of a directory.
var Extensions = []string{".png", ".webp", ".bmp"}

// maxParallelReads bounds concurrent file reads during LoadDir.
const maxParallelReads = 4

// MaxFileBytes caps the size of one encoded image on disk.
var MaxFileBytes int64 = 64 << 20

// LoadFile reads a single image as a one-frame Store.
func LoadFile(path string) (*Store, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return NewStore([][]byte{data}, []string{path}), nil
}

func readImage(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("frames: read %s: %w", path, err)
	}
	if st.Size() > MaxFileBytes {
		return nil, fmt.Errorf("%w: %s: %d bytes exceeds %d", ErrDecode, path, st.Size(), MaxFileBytes)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("frames: read %s: %w", path, err)
	}
	return b, nil
}

// FramePaths lists <prefix>0.png, <prefix>1.png, ... up to the first index
// with no file. With all false only frame 0 is looked up.
func FramePaths(prefix string, all bool) []string {
	var paths []string
	for i := 0; ; i++ {
		p, ok := framePath(prefix, i)
		if !ok {
			break
		}
		paths = append(paths, p)
		if !all {
			break
		}
	}
	return paths
}

func framePath(prefix string, i int) (string, bool) {
	base := prefix + strconv.Itoa(i)
	for _, ext := range Extensions {
		p := base + ext
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// LoadDir reads the numbered frames under prefix into memory. Files are
// read concurrently; the first failure cancels the rest.
func LoadDir(ctx context.Context, prefix string, all bool) (*Store, error) {
	paths := FramePaths(prefix, all)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s0%s", ErrNoInput, prefix, Extensions[0])
	}

	data := make([][]byte, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := readImage(p)
			if err != nil {
				return err
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewStore(data, paths), nil
}
