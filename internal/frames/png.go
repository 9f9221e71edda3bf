package frames

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func isPNG(b []byte) bool { return bytes.HasPrefix(b, pngSignature) }

// checkChunks walks the chunk list of a PNG and rejects files whose
// non-IDAT chunks, alone or together, exceed limit bytes. limit <= 0
// disables the check.
func checkChunks(b []byte, limit int) error {
	if limit <= 0 {
		return nil
	}
	b = b[len(pngSignature):]
	total := 0
	for len(b) > 0 {
		if len(b) < 12 {
			return errors.New("truncated chunk header")
		}
		n := binary.BigEndian.Uint32(b[0:4])
		typ := string(b[4:8])
		if uint64(n) > uint64(len(b)-12) {
			return fmt.Errorf("chunk %q: length %d past end of file", typ, n)
		}
		switch typ {
		case "IDAT":
		case "IEND":
			return nil
		default:
			if int(n) > limit {
				return fmt.Errorf("chunk %q: %d bytes exceeds limit %d", typ, n, limit)
			}
			total += int(n)
			if total > limit {
				return fmt.Errorf("metadata chunks exceed limit %d", limit)
			}
		}
		b = b[12+int(n):]
	}
	return errors.New("missing IEND chunk")
}
