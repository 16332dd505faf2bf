package asf

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/bytestream"
)

var (
	ErrSingleSegment    = errors.New("asf: only single segment packets supported")
	ErrStreamIDMismatch = errors.New("asf: packet stream ID mismatch")
	ErrSequenceNumber   = errors.New("asf: only one sequence number per packet supported")
	ErrPacketGrouping   = errors.New("asf: packet grouping not supported")
)

// CodecParams describes the audio stream to the codec factory.
type CodecParams struct {
	Version    int
	SampleRate int
	Channels   int
	BitRate    int
	BlockAlign int
	ExtraData  []byte
}

// CodecFactory builds the frame decoder for a stream.
type CodecFactory func(p CodecParams) (audio.Codec, error)

type Option func(*options)

type options struct {
	logger *zap.Logger
	codec  CodecFactory
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCodec supplies the WMA decoder.
func WithCodec(f CodecFactory) Option {
	return func(o *options) {
		o.codec = f
	}
}

// Stream demultiplexes packets, hands each frame to the codec and serves the
// decoded bursts. Only rewinding to the start is supported.
type Stream struct {
	r       *bytestream.Reader
	dispose bool
	logger  *zap.Logger
	header  *Header
	codec   audio.Codec

	curPacket uint32
	curSeq    uint8
	burst     audio.Stream
	err       error
}

// NewStream parses the header of src and prepares playback from the first packet.
func NewStream(src io.ReadSeeker, dispose bool, opts ...Option) (*Stream, error) {
	s, err := newStream(src, dispose, newOptions(opts))
	if err != nil {
		_ = audio.CloseSource(src, dispose)
		return nil, err
	}
	return s, nil
}

func newStream(src io.ReadSeeker, dispose bool, o *options) (*Stream, error) {
	r, err := bytestream.NewReader(src)
	if err != nil {
		return nil, err
	}
	h, err := readHeader(r, o.logger)
	if err != nil {
		return nil, err
	}
	if o.codec == nil {
		return nil, fmt.Errorf("asf: %s: %w", h.Format.Compression, audio.ErrCodecUnavailable)
	}
	codec, err := o.codec(CodecParams{
		Version:    2,
		SampleRate: int(h.Format.SampleRate),
		Channels:   int(h.Format.Channels),
		BitRate:    int(h.BitRate),
		BlockAlign: int(h.Format.BlockAlign),
		ExtraData:  h.Format.ExtraData,
	})
	if err != nil {
		return nil, fmt.Errorf("asf: creating codec: %w", err)
	}
	return &Stream{
		r:       r,
		dispose: dispose,
		logger:  o.logger,
		header:  h,
		codec:   codec,
		// Sequence numbers start at one.
		curSeq: 1,
	}, nil
}

func (s *Stream) Header() *Header { return s.header }

// ReadBuffer returns a short count at the end of the stream. A format error
// ends playback; it is returned again by every later call until Rewind.
func (s *Stream) ReadBuffer(buf []int16) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	decoded := 0
	for {
		if s.burst != nil {
			want := len(buf) - decoded
			n, err := s.burst.ReadBuffer(buf[decoded:])
			decoded += n
			if err != nil {
				s.err = err
				return decoded, err
			}
			// A burst that stalls is dropped to keep the call bounded.
			if s.burst.EndOfData() || (n == 0 && want > 0) {
				s.burst = nil
			}
		}

		if decoded == len(buf) || s.EndOfData() {
			break
		}

		if s.burst == nil {
			burst, err := s.nextFrame()
			if err != nil {
				s.err = err
				return decoded, err
			}
			s.burst = burst
		}
	}
	return decoded, nil
}

// nextFrame reads one packet and decodes its single fragment. It may return a
// nil stream when the codec declines the frame.
func (s *Stream) nextFrame() (audio.Stream, error) {
	p, err := s.readPacket()
	if err != nil {
		return nil, err
	}

	if len(p.Segments) != 1 {
		return nil, fmt.Errorf("%w: %d segments", ErrSingleSegment, len(p.Segments))
	}
	seg := &p.Segments[0]

	// One ASF audio file carries one stream.
	if seg.StreamID != s.header.StreamID {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrStreamIDMismatch, seg.StreamID, s.header.StreamID)
	}

	expected := s.curSeq
	s.curSeq = uint8((int(s.curSeq) + 1) % 256)
	if seg.SequenceNumber != expected {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSequenceNumber, seg.SequenceNumber, expected)
	}

	if len(seg.Fragments) != 1 {
		return nil, fmt.Errorf("%w: %d fragments", ErrPacketGrouping, len(seg.Fragments))
	}
	return s.codec.DecodeFrame(seg.Fragments[0])
}

func (s *Stream) readPacket() (*Packet, error) {
	if uint64(s.curPacket) == s.header.PacketCount {
		return nil, ErrTooManyPackets
	}

	p, err := readPacket(s.r, s.header.MaxPacketSize)
	if err != nil {
		return nil, err
	}
	// The counter wraps silently.
	s.curPacket++
	return p, nil
}

func (s *Stream) IsStereo() bool { return s.header.Format.Channels == 2 }

func (s *Stream) Rate() int { return int(s.header.Format.SampleRate) }

func (s *Stream) EndOfData() bool {
	if s.err != nil {
		return true
	}
	return uint64(s.curPacket) == s.header.PacketCount && s.burst == nil
}

// Length is the send duration of the file.
func (s *Stream) Length() audio.Timestamp {
	return audio.NewTimestamp(int64(s.header.SendDuration/10000), s.Rate())
}

// Seek only supports the start of the stream.
func (s *Stream) Seek(where audio.Timestamp) error {
	if where.IsZero() {
		return s.Rewind()
	}
	return audio.ErrSeekUnsupported
}

func (s *Stream) Rewind() error {
	if _, err := s.r.Seek(s.header.DataOffset, io.SeekStart); err != nil {
		return err
	}
	s.curPacket = 0
	s.burst = nil
	s.curSeq = 1
	s.err = nil
	return nil
}

func (s *Stream) Close() error {
	s.burst = nil
	return audio.CloseSource(s.r.Source(), s.dispose)
}
