// Package wav parses RIFF/WAVE headers and builds playable streams from them.
package wav

import (
	"errors"

	"github.com/zrdimetc/go-audiostream/audio"
)

var (
	ErrNoRIFF              = errors.New("wav: no 'RIFF' header")
	ErrNoWAVE              = errors.New("wav: no 'WAVE' header")
	ErrNoFmt               = errors.New("wav: no 'fmt ' header")
	ErrFmtTooShort         = errors.New("wav: 'fmt ' header is too short")
	ErrBadIMAExtension     = errors.New("wav: IMA ADPCM 'fmt ' extension must be 4 bytes")
	ErrUnsupportedFormat   = errors.New("wav: unsupported format tag")
	ErrUnsupportedBits     = errors.New("wav: unsupported bits per sample")
	ErrUnsupportedChannels = errors.New("wav: unsupported number of channels")
	ErrNoData              = errors.New("wav: can't find 'data' chunk")
)

// FmtChunk is the fixed 16-byte body of a 'fmt ' chunk.
type FmtChunk struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Header is the result of walking a WAVE file up to its 'data' chunk.
type Header struct {
	Format audio.Format `yaml:"format"`
	Flags  audio.Flags  `yaml:"flags"`
	// Size is the declared length of the 'data' chunk.
	Size int64 `yaml:"size"`
	// SamplesPerBlock is only filled in for MS IMA ADPCM.
	SamplesPerBlock int   `yaml:"samples_per_block,omitempty"`
	DataOffset      int64 `yaml:"data_offset"`
}

// Channels returns the channel count encoded in the header flags.
func (h *Header) Channels() int {
	return h.Flags.Channels()
}

// canonicalHeader is the 44-byte header of a plain PCM file.
type canonicalHeader struct {
	RiffID   [4]byte
	FileSize uint32
	WaveID   [4]byte

	FmtID   [4]byte
	FmtSize uint32
	FmtChunk

	DataID   [4]byte
	DataSize uint32
}
