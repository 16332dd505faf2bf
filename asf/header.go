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
	ErrMissingHeader      = errors.New("asf: missing asf header")
	ErrObjectSize         = errors.New("asf: invalid object size")
	ErrPacketSizeMismatch = errors.New("asf: mismatched packet sizes")
	ErrNonAudioStream     = errors.New("asf: found non-audio stream")
	ErrUnknownCompression = errors.New("asf: unknown compression")
	ErrNoFileProperties   = errors.New("asf: no file properties object")
	ErrNoStreamProperties = errors.New("asf: no stream properties object")
)

// objectHeaderSize covers the GUID and the 64-bit size that open every object.
const objectHeaderSize = 24

// dataObjectRemainder is the part of the data object between its size field
// and the first packet: file ID, total packet count and two reserved bytes.
const dataObjectRemainder = 26

// Header holds what the header objects say about the file and its audio stream.
type Header struct {
	PacketCount uint64 `yaml:"packet_count"`
	// Durations are in 100 ns units.
	PlayDuration  uint64 `yaml:"play_duration"`
	SendDuration  uint64 `yaml:"send_duration"`
	Preroll       uint64 `yaml:"preroll"`
	MinPacketSize uint32 `yaml:"min_packet_size"`
	MaxPacketSize uint32 `yaml:"max_packet_size"`

	StreamID uint8        `yaml:"stream_id"`
	BitRate  uint32       `yaml:"bit_rate"`
	Format   audio.Format `yaml:"format"`

	// DataOffset is the position of the first packet.
	DataOffset int64 `yaml:"data_offset"`

	haveFile   bool
	haveStream bool
}

// ReadHeader parses the header objects of src up to the first data packet,
// leaving src positioned there. It does not need a codec.
func ReadHeader(src io.ReadSeeker, opts ...Option) (*Header, error) {
	o := newOptions(opts)
	r, err := bytestream.NewReader(src)
	if err != nil {
		return nil, err
	}
	return readHeader(r, o.logger)
}

func readHeader(r *bytestream.Reader, logger *zap.Logger) (*Header, error) {
	guid, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if guid != guidHeader {
		return nil, ErrMissingHeader
	}
	// Object size, number of header objects and two reserved bytes.
	if err := r.Skip(8 + 4 + 1 + 1); err != nil {
		return nil, err
	}

	h := &Header{}
objects:
	for {
		start := r.Pos()
		guid, err := readGUID(r)
		if err != nil {
			return nil, fmt.Errorf("asf: reading object at %d: %w", start, err)
		}
		size, err := r.ReadUint64LE()
		if err != nil {
			return nil, fmt.Errorf("asf: reading object at %d: %w", start, err)
		}

		switch guid {
		case guidData:
			break objects
		case guidFileProperties:
			err = h.parseFileProperties(r)
		case guidStreamProperties:
			err = h.parseStreamProperties(r)
		case guidHeaderExtension, guidStreamBitrate, guidContentDesc,
			guidExtContentDesc, guidCodecList:
		default:
			logger.Warn("asf: found unknown object",
				zap.Stringer("guid", guid),
				zap.Int64("offset", start),
				zap.Uint64("size", size))
		}
		if err != nil {
			return nil, err
		}
		if size < objectHeaderSize {
			return nil, fmt.Errorf("%w: %d at %d", ErrObjectSize, size, start)
		}
		if _, err := r.Seek(start+int64(size), io.SeekStart); err != nil {
			return nil, err
		}
	}

	if !h.haveFile {
		return nil, ErrNoFileProperties
	}
	if !h.haveStream {
		return nil, ErrNoStreamProperties
	}
	if err := r.Skip(dataObjectRemainder); err != nil {
		return nil, err
	}
	h.DataOffset = r.Pos()

	logger.Debug("asf: header parsed",
		zap.Uint64("packets", h.PacketCount),
		zap.Uint32("packet_size", h.MaxPacketSize),
		zap.Stringer("compression", h.Format.Compression),
		zap.Uint32("rate", h.Format.SampleRate),
		zap.Uint16("channels", h.Format.Channels))
	return h, nil
}

func (h *Header) parseFileProperties(r *bytestream.Reader) (err error) {
	if err = r.Skip(16 + 8 + 8); err != nil { // file ID, file size, creation date
		return err
	}
	if h.PacketCount, err = r.ReadUint64LE(); err != nil {
		return err
	}
	if h.PlayDuration, err = r.ReadUint64LE(); err != nil {
		return err
	}
	if h.SendDuration, err = r.ReadUint64LE(); err != nil {
		return err
	}
	if h.Preroll, err = r.ReadUint64LE(); err != nil {
		return err
	}
	if _, err = r.ReadUint32LE(); err != nil { // flags
		return err
	}
	if h.MinPacketSize, err = r.ReadUint32LE(); err != nil {
		return err
	}
	if h.MaxPacketSize, err = r.ReadUint32LE(); err != nil {
		return err
	}

	// Only constant-size packets are supported.
	if h.MinPacketSize != h.MaxPacketSize {
		return fmt.Errorf("%w: min = %d, max = %d", ErrPacketSizeMismatch, h.MinPacketSize, h.MaxPacketSize)
	}
	h.haveFile = true
	return nil
}

func (h *Header) parseStreamProperties(r *bytestream.Reader) (err error) {
	streamType, err := readGUID(r)
	if err != nil {
		return err
	}
	if streamType != guidAudioMedia {
		return fmt.Errorf("%w: %s", ErrNonAudioStream, streamType)
	}
	if err = r.Skip(16 + 8); err != nil { // error correction type, time offset
		return err
	}
	typeSpecificLen, err := r.ReadUint32LE()
	if err != nil {
		return err
	}
	if _, err = r.ReadUint32LE(); err != nil { // error correction data length
		return err
	}
	flags, err := r.ReadUint16LE()
	if err != nil {
		return err
	}
	if _, err = r.ReadUint32LE(); err != nil { // reserved
		return err
	}
	h.StreamID = uint8(flags & 0x7f)

	// WAVEFORMATEX
	f := &h.Format
	tag, err := r.ReadUint16LE()
	if err != nil {
		return err
	}
	f.Compression = audio.Compression(tag)
	if f.Channels, err = r.ReadUint16LE(); err != nil {
		return err
	}
	if f.SampleRate, err = r.ReadUint32LE(); err != nil {
		return err
	}
	if f.ByteRate, err = r.ReadUint32LE(); err != nil {
		return err
	}
	h.BitRate = f.ByteRate * 8
	if f.BlockAlign, err = r.ReadUint16LE(); err != nil {
		return err
	}
	if typeSpecificLen == 14 {
		f.BitsPerSample = 8
	} else if f.BitsPerSample, err = r.ReadUint16LE(); err != nil {
		return err
	}

	if typeSpecificLen >= 18 {
		cbSize, err := r.ReadUint16LE()
		if err != nil {
			return err
		}
		n := min(uint32(cbSize), typeSpecificLen-18)
		if f.ExtraData, err = r.ReadN(int(n)); err != nil {
			return err
		}
	}

	if f.Compression != audio.CompressionWMAv2 {
		return fmt.Errorf("%w: 0x%04x", ErrUnknownCompression, tag)
	}
	h.haveStream = true
	return nil
}
