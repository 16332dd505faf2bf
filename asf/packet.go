package asf

import (
	"errors"
	"fmt"

	"github.com/zrdimetc/go-audiostream/bytestream"
)

var (
	ErrTooManyPackets     = errors.New("asf: reading too many packets")
	ErrMissingPacketStart = errors.New("asf: missing packet header")
	ErrReservedNotZero    = errors.New("asf: reserved packet field is not zero")
	ErrUnknownSegmentType = errors.New("asf: unknown packet segment type")
	ErrUnknownPacketFlags = errors.New("asf: unknown packet flags")
	ErrPacketPosition     = errors.New("asf: mismatching packet pos")
)

const packetStartMarker = 0x82

// Packet flag bits.
const (
	flagMultipleSegments = 0x01
	flagPadding8         = 0x08
	flagPadding16        = 0x10
	flagExplicitSize     = 0x40
)

// Segment is one stream's share of a packet.
type Segment struct {
	StreamID       uint8
	Keyframe       bool
	SequenceNumber uint8
	FragmentOffset uint32
	Fragments      [][]byte
}

// Packet is one fixed-size unit of the data object.
type Packet struct {
	Flags       byte
	SegmentType byte
	// PacketSize is the container's packet size unless the packet states its own.
	PacketSize  uint32
	PaddingSize uint32
	SendTime    uint32
	Duration    uint16
	Segments    []Segment
}

// readPacket parses one packet starting at the current position. It checks that
// exactly packetSize bytes were consumed.
func readPacket(r *bytestream.Reader, packetSize uint32) (*Packet, error) {
	start := r.Pos()

	marker, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if marker != packetStartMarker {
		return nil, fmt.Errorf("%w at %d: 0x%02x", ErrMissingPacketStart, start, marker)
	}
	reserved, err := r.ReadUint16LE()
	if err != nil {
		return nil, err
	}
	if reserved != 0 {
		return nil, ErrReservedNotZero
	}

	p := &Packet{PacketSize: packetSize}
	if p.Flags, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if p.SegmentType, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if p.Flags&flagExplicitSize != 0 {
		size, err := r.ReadUint16LE()
		if err != nil {
			return nil, err
		}
		p.PacketSize = uint32(size)
	}

	switch {
	case p.Flags&flagPadding16 != 0:
		padding, err := r.ReadUint16LE()
		if err != nil {
			return nil, err
		}
		p.PaddingSize = uint32(padding)
	case p.Flags&flagPadding8 != 0:
		padding, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		p.PaddingSize = uint32(padding)
	}

	if p.SendTime, err = r.ReadUint32LE(); err != nil {
		return nil, err
	}
	if p.Duration, err = r.ReadUint16LE(); err != nil {
		return nil, err
	}

	segmentCount := byte(1)
	if p.Flags&flagMultipleSegments != 0 {
		if segmentCount, err = r.ReadByte(); err != nil {
			return nil, err
		}
	}
	p.Segments = make([]Segment, segmentCount&0x3f)

	for i := range p.Segments {
		if err := readSegment(r, p, &p.Segments[i], segmentCount, start, packetSize); err != nil {
			return nil, err
		}
	}

	if err := r.Skip(int64(p.PaddingSize)); err != nil {
		return nil, err
	}
	if end := start + int64(packetSize); r.Pos() != end {
		return nil, fmt.Errorf("%w: %d (should be %d)", ErrPacketPosition, r.Pos(), end)
	}
	return p, nil
}

func readSegment(r *bytestream.Reader, p *Packet, seg *Segment, segmentCount byte, start int64, packetSize uint32) error {
	id, err := r.ReadByte()
	if err != nil {
		return err
	}
	seg.Keyframe = id&0x80 != 0
	seg.StreamID = id & 0x7f
	if seg.SequenceNumber, err = r.ReadByte(); err != nil {
		return err
	}

	switch p.SegmentType {
	case 0x55:
		var b byte
		b, err = r.ReadByte()
		seg.FragmentOffset = uint32(b)
	case 0x59:
		var v uint16
		v, err = r.ReadUint16LE()
		seg.FragmentOffset = uint32(v)
	case 0x5d:
		seg.FragmentOffset, err = r.ReadUint32LE()
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownSegmentType, p.SegmentType)
	}
	if err != nil {
		return err
	}

	single := len(p.Segments) == 1
	// remaining is what is left of the packet before padding.
	remaining := func() int64 {
		return int64(packetSize) - (r.Pos() - start) - int64(p.PaddingSize)
	}

	subFlags, err := r.ReadByte()
	if err != nil {
		return err
	}
	switch subFlags {
	case 1:
		// Grouped payloads: a run of length-prefixed fragments.
		if _, err := r.ReadByte(); err != nil {
			return err
		}
		var dataLength int64
		if single {
			dataLength = remaining()
		} else {
			n, err := r.ReadUint16LE()
			if err != nil {
				return err
			}
			dataLength = int64(n)
		}
		if dataLength < 0 {
			return fmt.Errorf("%w: negative payload length %d", ErrPacketPosition, dataLength)
		}
		groupStart := r.Pos()
		for r.Pos() < groupStart+dataLength {
			n, err := r.ReadByte()
			if err != nil {
				return err
			}
			frag, err := r.ReadN(int(n))
			if err != nil {
				return err
			}
			seg.Fragments = append(seg.Fragments, frag)
		}

	case 8:
		// Object length and object start time.
		if err := r.Skip(4 + 4); err != nil {
			return err
		}
		var dataLength int64
		switch {
		case single:
			dataLength = remaining() - int64(seg.FragmentOffset)
		case segmentCount&0x40 != 0:
			n, err := r.ReadByte()
			if err != nil {
				return err
			}
			dataLength = int64(n)
		default:
			n, err := r.ReadUint16LE()
			if err != nil {
				return err
			}
			dataLength = int64(n)
		}
		if dataLength < 0 {
			return fmt.Errorf("%w: negative payload length %d", ErrPacketPosition, dataLength)
		}
		if err := r.Skip(int64(seg.FragmentOffset)); err != nil {
			return err
		}
		frag, err := r.ReadN(int(dataLength))
		if err != nil {
			return err
		}
		seg.Fragments = append(seg.Fragments, frag)

	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownPacketFlags, subFlags)
	}
	return nil
}
