package g711

import (
	"errors"
	"fmt"
	"io"

	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/bytestream"
)

// Stream decodes a source holding nothing but companded bytes, one byte per
// sample. Channels are left interleaved as stored.
type Stream struct {
	r        *bytestream.Reader
	dispose  bool
	law      Law
	rate     int
	channels int
	buf      []byte
}

// NewStream wraps src. channels must be 1 or 2.
func NewStream(src io.ReadSeeker, dispose bool, law Law, rate, channels int) (*Stream, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("g711: unsupported channel count %d", channels)
	}
	r, err := bytestream.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &Stream{r: r, dispose: dispose, law: law, rate: rate, channels: channels}, nil
}

func NewALawStream(src io.ReadSeeker, dispose bool, rate, channels int) (*Stream, error) {
	return NewStream(src, dispose, ALaw, rate, channels)
}

func NewMuLawStream(src io.ReadSeeker, dispose bool, rate, channels int) (*Stream, error) {
	return NewStream(src, dispose, MuLaw, rate, channels)
}

// ReadBuffer stops short when the source runs out or fails. Bytes read before
// a failure are still decoded and counted.
func (s *Stream) ReadBuffer(buf []int16) (int, error) {
	if cap(s.buf) < len(buf) {
		s.buf = make([]byte, len(buf))
	}
	raw := s.buf[:len(buf)]

	total := 0
	var err error
	for total < len(raw) {
		var n int
		n, err = s.r.Read(raw[total:])
		total += n
		if err != nil || n == 0 {
			break
		}
	}
	for i, b := range raw[:total] {
		buf[i] = s.law.Decode(b)
	}
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return total, err
}

func (s *Stream) Law() Law { return s.law }

func (s *Stream) IsStereo() bool { return s.channels == 2 }

func (s *Stream) Rate() int { return s.rate }

func (s *Stream) EndOfData() bool {
	return s.r.EOS() || s.r.Pos() >= s.r.Size()
}

func (s *Stream) Length() audio.Timestamp {
	return audio.FrameTimestamp(s.r.Size()/int64(s.channels), s.rate)
}

func (s *Stream) Seek(where audio.Timestamp) error {
	off := where.Convert(s.rate).Frames() * int64(s.channels)
	if off < 0 || off > s.r.Size() {
		return audio.ErrSeekOutOfRange
	}
	_, err := s.r.Seek(off, io.SeekStart)
	return err
}

func (s *Stream) Rewind() error {
	return s.Seek(audio.FrameTimestamp(0, s.rate))
}

func (s *Stream) Close() error {
	return audio.CloseSource(s.r.Source(), s.dispose)
}
