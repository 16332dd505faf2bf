package wav

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/bytestream"
	"github.com/zrdimetc/go-audiostream/g711"
)

// ADPCMFactory builds a decoder for MS ADPCM or MS IMA ADPCM payloads.
type ADPCMFactory func(src io.ReadSeeker, dispose bool, kind audio.Compression, rate, channels, blockAlign int) (audio.SeekableStream, error)

// MP3Factory builds a decoder for an MPEG layer 3 payload.
type MP3Factory func(src io.ReadSeeker, dispose bool) (audio.SeekableStream, error)

type Option func(*options)

type options struct {
	logger *zap.Logger
	adpcm  ADPCMFactory
	mp3    MP3Factory
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

func WithADPCM(f ADPCMFactory) Option {
	return func(o *options) {
		o.adpcm = f
	}
}

// WithMP3 enables format tag 0x55. Without it such files are rejected.
func WithMP3(f MP3Factory) Option {
	return func(o *options) {
		o.mp3 = f
	}
}

func (o *options) supported(c audio.Compression) bool {
	switch c {
	case audio.CompressionPCM, audio.CompressionMSADPCM, audio.CompressionMSIMAADPCM,
		audio.CompressionALaw, audio.CompressionMuLaw:
		return true
	case audio.CompressionMP3:
		return o.mp3 != nil
	}
	return false
}

// MakeStream parses the WAVE header in src and returns a stream decoding its
// 'data' chunk. With dispose set, closing the stream closes src; src is also
// closed when construction fails.
func MakeStream(src io.ReadSeeker, dispose bool, opts ...Option) (audio.SeekableStream, error) {
	o := newOptions(opts)
	s, err := makeStream(src, dispose, o)
	if err != nil {
		_ = audio.CloseSource(src, dispose)
		return nil, err
	}
	return s, nil
}

func makeStream(src io.ReadSeeker, dispose bool, o *options) (audio.SeekableStream, error) {
	h, err := readHeader(src, o)
	if err != nil {
		return nil, err
	}
	rate := int(h.Format.SampleRate)
	channels := h.Channels()
	compression := h.Format.Compression

	size := h.Size
	if compression == audio.CompressionPCM {
		frameSize := int64(h.Flags.BytesPerSample() * channels)
		if rem := size % frameSize; rem != 0 {
			o.logger.Warn("wav: dropping incomplete trailing PCM frame",
				zap.Int64("size", size),
				zap.Int64("frame_size", frameSize))
			size -= rem
		}
	}
	data := bytestream.NewWindow(src, h.DataOffset, size)

	switch compression {
	case audio.CompressionPCM:
		return audio.NewRawStream(data, dispose, rate, h.Flags)
	case audio.CompressionALaw:
		return g711.NewALawStream(data, dispose, rate, channels)
	case audio.CompressionMuLaw:
		return g711.NewMuLawStream(data, dispose, rate, channels)
	case audio.CompressionMSADPCM, audio.CompressionMSIMAADPCM:
		if o.adpcm == nil {
			return nil, fmt.Errorf("wav: %s: %w", compression, audio.ErrCodecUnavailable)
		}
		return o.adpcm(data, dispose, compression, rate, channels, int(h.Format.BlockAlign))
	case audio.CompressionMP3:
		return o.mp3(data, dispose)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, compression)
}
