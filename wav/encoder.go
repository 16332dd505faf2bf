package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zrdimetc/go-audiostream/audio"
)

// Encode writes samples as a canonical 16-bit PCM WAVE file.
func Encode(w io.Writer, rate, channels int, samples []int16) error {
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)

	header := canonicalHeader{
		RiffID:   [4]byte{'R', 'I', 'F', 'F'},
		FileSize: 36 + dataSize,
		WaveID:   [4]byte{'W', 'A', 'V', 'E'},
		FmtID:    [4]byte{'f', 'm', 't', ' '},
		FmtSize:  16,
		FmtChunk: FmtChunk{
			AudioFormat:   uint16(audio.CompressionPCM),
			NumChannels:   uint16(channels),
			SampleRate:    uint32(rate),
			ByteRate:      uint32(rate * blockAlign),
			BlockAlign:    uint16(blockAlign),
			BitsPerSample: bitsPerSample,
		},
		DataID:   [4]byte{'d', 'a', 't', 'a'},
		DataSize: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("error writing WAV header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("error writing audio data: %w", err)
	}
	return nil
}

// EncodeStream drains s and writes it with Encode.
func EncodeStream(w io.Writer, s audio.Stream) (int, error) {
	samples, err := audio.ReadAll(s, 0)
	if err != nil {
		return 0, err
	}
	channels := 1
	if s.IsStereo() {
		channels = 2
	}
	return len(samples), Encode(w, s.Rate(), channels, samples)
}
