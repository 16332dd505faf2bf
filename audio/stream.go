// Package audio defines the pull-based stream contract shared by the decoders in
// this module, plus the raw PCM and in-memory streams they are built from.
//
// A mixer calls ReadBuffer repeatedly on its own goroutine. A stream instance is
// not safe for concurrent use.
package audio

import (
	"errors"
	"io"
)

var (
	// ErrSeekUnsupported is returned by streams that can only rewind.
	ErrSeekUnsupported = errors.New("seek to non-zero position not supported")
	// ErrCodecUnavailable is returned when a payload needs an external codec
	// that was not supplied.
	ErrCodecUnavailable = errors.New("codec not available")
)

// Stream produces interleaved 16-bit PCM on demand.
type Stream interface {
	// ReadBuffer fills buf and returns the number of samples written. A count
	// smaller than len(buf) with a nil error means the stream ran out of data.
	ReadBuffer(buf []int16) (int, error)
	IsStereo() bool
	Rate() int
	EndOfData() bool
}

// SeekableStream is a Stream with a known length that can be repositioned.
type SeekableStream interface {
	Stream
	Length() Timestamp
	Seek(where Timestamp) error
	Rewind() error
	// Close releases the backing source when the stream was built with dispose set.
	Close() error
}

// Codec decodes one compressed frame into a short burst of PCM.
// A nil Stream with a nil error means the codec declined the frame.
type Codec interface {
	DecodeFrame(data []byte) (Stream, error)
}

// CloseSource closes src when dispose is set and src implements io.Closer.
func CloseSource(src any, dispose bool) error {
	if !dispose {
		return nil
	}
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadAll drains s in chunks of chunk samples.
func ReadAll(s Stream, chunk int) ([]int16, error) {
	if chunk <= 0 {
		chunk = 4096
	}
	var out []int16
	buf := make([]int16, chunk)
	for !s.EndOfData() {
		n, err := s.ReadBuffer(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			return out, err
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}
