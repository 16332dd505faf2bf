// Package bytestream provides positioned little-endian reads over an io.ReadSeeker.
package bytestream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader tracks its own position and the size of the underlying stream.
// EOS only turns true after a read has gone past the end.
type Reader struct {
	rs      io.ReadSeeker
	pos     int64
	size    int64
	eos     bool
	scratch [8]byte
}

// NewReader measures rs and leaves it positioned where it was.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("bytestream: %w", err)
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("bytestream: %w", err)
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("bytestream: %w", err)
	}
	return &Reader{rs: rs, pos: pos, size: size}, nil
}

// Source returns the wrapped stream.
func (r *Reader) Source() io.ReadSeeker { return r.rs }

func (r *Reader) Pos() int64 { return r.pos }

func (r *Reader) Size() int64 { return r.size }

func (r *Reader) EOS() bool { return r.eos }

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.rs.Read(p)
	r.pos += int64(n)
	if errors.Is(err, io.EOF) {
		r.eos = true
	}
	return n, err
}

// ReadFull fills p or fails with an error wrapping io.ErrUnexpectedEOF.
func (r *Reader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.rs, p)
	r.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.eos = true
			return fmt.Errorf("read %d bytes at %d: %w", len(p), r.pos-int64(n), io.ErrUnexpectedEOF)
		}
		return err
	}
	return nil
}

// ReadN reads exactly n bytes into a freshly allocated slice.
func (r *Reader) ReadN(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := r.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.ReadFull(r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

func (r *Reader) ReadUint16LE() (uint16, error) {
	if err := r.ReadFull(r.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.scratch[:2]), nil
}

func (r *Reader) ReadUint32LE() (uint32, error) {
	if err := r.ReadFull(r.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.scratch[:4]), nil
}

func (r *Reader) ReadUint64LE() (uint64, error) {
	if err := r.ReadFull(r.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.scratch[:8]), nil
}

// Seek implements io.Seeker and clears EOS.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.rs.Seek(offset, whence)
	if err != nil {
		return r.pos, err
	}
	r.pos = pos
	r.eos = false
	return pos, nil
}

// Skip moves n bytes forward.
func (r *Reader) Skip(n int64) error {
	_, err := r.Seek(n, io.SeekCurrent)
	return err
}
