// Package codec keeps large sequence strings compressed while they sit in the
// fragment and contig tables.
package codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/pkg/errors"
)

// Empty is the compressed form of the empty string.
var Empty = Compress("")

// Error reports a payload that could not be decompressed.
type Error struct {
	Size int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec: bad payload (%d bytes): %v", e.Size, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compress encodes text as an s2 block. It never fails.
func Compress(text string) []byte {
	return s2.Encode(nil, []byte(text))
}

// Decompress reverses Compress. A nil, truncated or corrupt buffer yields *Error.
func Decompress(b []byte) (string, error) {
	if len(b) == 0 {
		return "", &Error{Err: errors.New("empty buffer")}
	}
	out, err := s2.Decode(nil, b)
	if err != nil {
		return "", &Error{Size: len(b), Err: errors.Wrap(err, "s2 decode")}
	}
	return string(out), nil
}
