package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSeekOutOfRange is returned when a seek target lies past the end of a stream.
	ErrSeekOutOfRange = errors.New("seek position out of range")
	// ErrBigEndian is returned for multi-byte samples without FlagLittleEndian.
	ErrBigEndian = errors.New("big-endian samples are not supported")
)

// RawStream plays linear PCM straight from its source, converting every sample
// to signed 16 bits according to its Flags.
type RawStream struct {
	src     io.ReadSeeker
	dispose bool
	rate    int
	flags   Flags

	size int64
	pos  int64
	eos  bool
	buf  []byte
}

// NewRawStream wraps src, which must hold nothing but sample data.
func NewRawStream(src io.ReadSeeker, dispose bool, rate int, flags Flags) (*RawStream, error) {
	if flags.BytesPerSample() > 1 && !flags.Has(FlagLittleEndian) {
		return nil, ErrBigEndian
	}
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("raw stream size: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("raw stream rewind: %w", err)
	}
	return &RawStream{
		src:     src,
		dispose: dispose,
		rate:    rate,
		flags:   flags,
		size:    size,
	}, nil
}

func (s *RawStream) ReadBuffer(buf []int16) (int, error) {
	bps := int64(s.flags.BytesPerSample())
	want := int64(len(buf)) * bps
	if remaining := (s.size - s.pos) / bps * bps; want > remaining {
		want = remaining
	}
	if want <= 0 {
		return 0, nil
	}
	if int64(cap(s.buf)) < want {
		s.buf = make([]byte, want)
	}
	raw := s.buf[:want]
	n, err := io.ReadFull(s.src, raw)
	if err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return 0, err
		}
		s.eos = true
	}
	s.pos += int64(n)

	count := n / int(bps)
	for i := 0; i < count; i++ {
		buf[i] = s.sample(raw[i*int(bps) : (i+1)*int(bps)])
	}
	return count, nil
}

func (s *RawStream) sample(b []byte) int16 {
	var v uint16
	switch len(b) {
	case 1:
		v = uint16(b[0]) << 8
	case 2:
		v = binary.LittleEndian.Uint16(b)
	case 3:
		// Keep the most significant 16 bits.
		v = uint16(b[2])<<8 | uint16(b[1])
	}
	if s.flags.Has(FlagUnsigned) {
		v ^= 0x8000
	}
	return int16(v)
}

func (s *RawStream) IsStereo() bool { return s.flags.Has(FlagStereo) }

func (s *RawStream) Rate() int { return s.rate }

func (s *RawStream) EndOfData() bool {
	return s.eos || s.size-s.pos < int64(s.flags.BytesPerSample())
}

// Length counts whole frames only.
func (s *RawStream) Length() Timestamp {
	frameSize := int64(s.flags.BytesPerSample() * s.flags.Channels())
	return FrameTimestamp(s.size/frameSize, s.rate)
}

func (s *RawStream) Seek(where Timestamp) error {
	frameSize := int64(s.flags.BytesPerSample() * s.flags.Channels())
	off := where.Convert(s.rate).Frames() * frameSize
	if off < 0 || off > s.size {
		return ErrSeekOutOfRange
	}
	if _, err := s.src.Seek(off, io.SeekStart); err != nil {
		return err
	}
	s.pos = off
	s.eos = false
	return nil
}

func (s *RawStream) Rewind() error {
	return s.Seek(Timestamp{rate: s.rate})
}

func (s *RawStream) Close() error {
	return CloseSource(s.src, s.dispose)
}
