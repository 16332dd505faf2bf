package audio

import "fmt"

// Compression is a WAVEFORMATEX format tag.
type Compression uint16

const (
	CompressionPCM        Compression = 0x0001
	CompressionMSADPCM    Compression = 0x0002
	CompressionALaw       Compression = 0x0006
	CompressionMuLaw      Compression = 0x0007
	CompressionMSIMAADPCM Compression = 0x0011
	CompressionMP3        Compression = 0x0055
	CompressionWMAv2      Compression = 0x0161
)

func (c Compression) String() string {
	switch c {
	case CompressionPCM:
		return "pcm"
	case CompressionMSADPCM:
		return "ms-adpcm"
	case CompressionALaw:
		return "a-law"
	case CompressionMuLaw:
		return "mu-law"
	case CompressionMSIMAADPCM:
		return "ms-ima-adpcm"
	case CompressionMP3:
		return "mp3"
	case CompressionWMAv2:
		return "wmav2"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(c))
	}
}

// IsADPCM reports whether c is one of the ADPCM variants.
func (c Compression) IsADPCM() bool {
	return c == CompressionMSADPCM || c == CompressionMSIMAADPCM
}

// Format is the stream description extracted from a container header.
// It is computed once when the stream is opened.
type Format struct {
	Compression   Compression `yaml:"compression"`
	Channels      uint16      `yaml:"channels"`
	SampleRate    uint32      `yaml:"sample_rate"`
	ByteRate      uint32      `yaml:"byte_rate"`
	BlockAlign    uint16      `yaml:"block_align"`
	BitsPerSample uint16      `yaml:"bits_per_sample"`
	ExtraData     []byte      `yaml:"extra_data,omitempty"`
}

// Flags describe the layout of linear PCM data.
type Flags uint8

const (
	FlagUnsigned Flags = 1 << iota
	Flag16Bits
	Flag24Bits
	FlagLittleEndian
	FlagStereo
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// BytesPerSample returns the size of one sample of one channel.
func (f Flags) BytesPerSample() int {
	switch {
	case f.Has(Flag24Bits):
		return 3
	case f.Has(Flag16Bits):
		return 2
	default:
		return 1
	}
}

// Channels returns 2 for stereo data and 1 otherwise.
func (f Flags) Channels() int {
	if f.Has(FlagStereo) {
		return 2
	}
	return 1
}

// MarshalYAML writes the tag by name.
func (c Compression) MarshalYAML() (any, error) {
	return c.String(), nil
}
