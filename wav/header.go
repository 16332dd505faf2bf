package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/bytestream"
)

// ReadHeader walks the RIFF/WAVE chunks from the current position of rs up to
// the start of the 'data' chunk. On success rs is left at the first sample byte.
func ReadHeader(rs io.ReadSeeker, opts ...Option) (*Header, error) {
	return readHeader(rs, newOptions(opts))
}

func readHeader(rs io.ReadSeeker, o *options) (*Header, error) {
	r, err := bytestream.NewReader(rs)
	if err != nil {
		return nil, err
	}
	initialPos := r.Pos()

	tag, err := readTag(r)
	if err != nil {
		return nil, err
	}
	if tag != "RIFF" {
		return nil, ErrNoRIFF
	}
	riffSize, err := r.ReadUint32LE()
	if err != nil {
		return nil, err
	}
	if tag, err = readTag(r); err != nil {
		return nil, err
	}
	if tag != "WAVE" {
		return nil, ErrNoWAVE
	}

	if tag, err = readTag(r); err != nil {
		return nil, err
	}
	if tag == "fact" {
		factLen, err := r.ReadUint32LE()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(int64(factLen)); err != nil {
			return nil, err
		}
		if tag, err = readTag(r); err != nil {
			return nil, err
		}
	}
	if tag == "JUNK" {
		junkLen, err := r.ReadUint32LE()
		if err != nil {
			return nil, err
		}
		// Chunks are padded to an even length.
		if err := r.Skip(int64(junkLen) + int64(junkLen%2)); err != nil {
			return nil, err
		}
		if tag, err = readTag(r); err != nil {
			return nil, err
		}
	}
	if tag != "fmt " {
		return nil, ErrNoFmt
	}

	fmtLength, err := r.ReadUint32LE()
	if err != nil {
		return nil, err
	}
	if fmtLength < 16 {
		return nil, ErrFmtTooShort
	}

	var fc FmtChunk
	if err := binary.Read(r, binary.LittleEndian, &fc); err != nil {
		return nil, fmt.Errorf("wav: reading 'fmt ' body: %w", err)
	}

	h := &Header{
		Format: audio.Format{
			Compression:   audio.Compression(fc.AudioFormat),
			Channels:      fc.NumChannels,
			SampleRate:    fc.SampleRate,
			ByteRate:      fc.ByteRate,
			BlockAlign:    fc.BlockAlign,
			BitsPerSample: fc.BitsPerSample,
		},
	}
	compression := h.Format.Compression

	fmtRemaining := int64(fmtLength) - 16
	switch compression {
	case audio.CompressionMSIMAADPCM:
		if fmtRemaining != 4 {
			return nil, ErrBadIMAExtension
		}
		if _, err := r.ReadUint16LE(); err != nil { // cbSize
			return nil, err
		}
		spb, err := r.ReadUint16LE()
		if err != nil {
			return nil, err
		}
		h.SamplesPerBlock = int(spb)
		fmtRemaining -= 4
	case audio.CompressionMSADPCM:
		// The MS ADPCM coefficient table is left to the ADPCM decoder;
		// samplesPerBlock stays unset for this format.
	}

	if !o.supported(compression) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, compression)
	}

	if compression != audio.CompressionMSADPCM {
		if uint32(fc.BlockAlign) != uint32(fc.NumChannels)*uint32(fc.BitsPerSample)/8 {
			o.logger.Debug("wav: blockAlign is invalid",
				zap.Uint16("block_align", fc.BlockAlign),
				zap.Uint16("channels", fc.NumChannels),
				zap.Uint16("bits_per_sample", fc.BitsPerSample))
		}
		if fc.ByteRate != fc.SampleRate*uint32(fc.BlockAlign) {
			o.logger.Debug("wav: avgBytesPerSec is invalid",
				zap.Uint32("avg_bytes_per_sec", fc.ByteRate),
				zap.Uint32("sample_rate", fc.SampleRate))
		}
	}

	flags, err := sampleFlags(fc.BitsPerSample, compression)
	if err != nil {
		return nil, err
	}
	switch fc.NumChannels {
	case 1:
	case 2:
		flags |= audio.FlagStereo
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, fc.NumChannels)
	}
	h.Flags = flags

	// Skip what is left of the fmt chunk, then every chunk up to 'data'.
	limit := initialPos + int64(riffSize) + 8
	offset := fmtRemaining
	for {
		if err := r.Skip(offset); err != nil {
			return nil, err
		}
		if r.Pos() >= limit {
			return nil, ErrNoData
		}
		if tag, err = readTag(r); err != nil {
			return nil, err
		}
		length, err := r.ReadUint32LE()
		if err != nil {
			return nil, err
		}
		if tag == "data" {
			h.Size = int64(length)
			break
		}
		o.logger.Debug("wav: skipping chunk", zap.String("id", tag), zap.Uint32("size", length))
		offset = int64(length)
	}
	h.DataOffset = r.Pos()
	return h, nil
}

// sampleFlags maps bits per sample to PCM layout flags. 4-bit data is only
// valid for ADPCM, which expands to 16-bit output.
func sampleFlags(bits uint16, compression audio.Compression) (audio.Flags, error) {
	switch {
	case bits == 8:
		return audio.FlagUnsigned, nil
	case bits == 16:
		return audio.Flag16Bits | audio.FlagLittleEndian, nil
	case bits == 24:
		return audio.Flag24Bits | audio.FlagLittleEndian, nil
	case bits == 4 && compression.IsADPCM():
		return audio.Flag16Bits, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedBits, bits)
}

func readTag(r *bytestream.Reader) (string, error) {
	var tag [4]byte
	if err := r.ReadFull(tag[:]); err != nil {
		return "", err
	}
	return string(tag[:]), nil
}
