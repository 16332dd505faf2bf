package asf

import (
	"bytes"
	"encoding/binary"

	"github.com/zrdimetc/go-audiostream/audio"
)

func le(w *bytes.Buffer, v any) {
	_ = binary.Write(w, binary.LittleEndian, v)
}

func object(g GUID, body []byte) []byte {
	var b bytes.Buffer
	b.Write(g[:])
	le(&b, uint64(objectHeaderSize+len(body)))
	b.Write(body)
	return b.Bytes()
}

// fileLayout describes a synthetic single-stream ASF file.
type fileLayout struct {
	packetSize    uint32
	minPacketSize uint32
	packetCount   *uint64
	sendDuration  uint64
	streamType    GUID
	compression   audio.Compression
	streamID      uint16
	channels      uint16
	rate          uint32
	extra         []byte
	cbSize        *uint16
	extraObjects  [][]byte
	packets       [][]byte
}

func (f fileLayout) build() []byte {
	if f.minPacketSize == 0 {
		f.minPacketSize = f.packetSize
	}
	if f.streamType == (GUID{}) {
		f.streamType = guidAudioMedia
	}
	if f.compression == 0 {
		f.compression = audio.CompressionWMAv2
	}
	if f.streamID == 0 {
		f.streamID = 1
	}
	if f.channels == 0 {
		f.channels = 1
	}
	if f.rate == 0 {
		f.rate = 22050
	}
	count := uint64(len(f.packets))
	if f.packetCount != nil {
		count = *f.packetCount
	}

	var fp bytes.Buffer
	fp.Write(make([]byte, 16))
	le(&fp, uint64(0)) // file size
	le(&fp, uint64(0)) // creation date
	le(&fp, count)
	le(&fp, f.sendDuration+30000000) // play duration includes preroll
	le(&fp, f.sendDuration)
	le(&fp, uint64(3000))
	le(&fp, uint32(2))
	le(&fp, f.minPacketSize)
	le(&fp, f.packetSize)
	le(&fp, uint32(128000))

	var wf bytes.Buffer
	le(&wf, uint16(f.compression))
	le(&wf, f.channels)
	le(&wf, f.rate)
	le(&wf, uint32(16000))
	le(&wf, uint16(743))
	le(&wf, uint16(16))
	cbSize := uint16(len(f.extra))
	if f.cbSize != nil {
		cbSize = *f.cbSize
	}
	le(&wf, cbSize)
	wf.Write(f.extra)

	var sp bytes.Buffer
	sp.Write(f.streamType[:])
	sp.Write(make([]byte, 16))
	le(&sp, uint64(0))
	le(&sp, uint32(wf.Len()))
	le(&sp, uint32(0))
	le(&sp, f.streamID)
	le(&sp, uint32(0))
	sp.Write(wf.Bytes())

	children := [][]byte{object(guidFileProperties, fp.Bytes())}
	children = append(children, f.extraObjects...)
	children = append(children, object(guidStreamProperties, sp.Bytes()))

	var hdrBody bytes.Buffer
	for _, c := range children {
		hdrBody.Write(c)
	}
	var out bytes.Buffer
	out.Write(guidHeader[:])
	le(&out, uint64(30+hdrBody.Len()))
	le(&out, uint32(len(children)))
	out.Write([]byte{0x01, 0x02})
	out.Write(hdrBody.Bytes())

	var packets bytes.Buffer
	for _, p := range f.packets {
		packets.Write(p)
	}
	out.Write(guidData[:])
	le(&out, uint64(objectHeaderSize+dataObjectRemainder+packets.Len()))
	out.Write(make([]byte, 16))
	le(&out, count)
	out.Write([]byte{0x01, 0x01})
	out.Write(packets.Bytes())
	return out.Bytes()
}

// pkt describes one synthetic data packet.
type pkt struct {
	flags       byte
	segmentType byte
	streamID    byte
	seq         byte
	offset      uint32
	segments    int
	subFlags    byte
	// payload is stored as a single fragment (sub-flags 8) unless
	// fragments is set, which selects the grouped layout (sub-flags 1).
	payload   []byte
	fragments [][]byte
	// byteLengths sets bit 0x40 on the segment count so single-fragment
	// payload lengths are written as one byte.
	byteLengths bool
}

func (p pkt) build(size uint32) []byte {
	flags := p.flags
	if flags == 0 {
		flags = flagPadding8
	}
	segType := p.segmentType
	if segType == 0 {
		segType = 0x55
	}
	streamID := p.streamID
	if streamID == 0 {
		streamID = 1
	}
	nseg := max(p.segments, 1)
	if nseg > 1 {
		flags |= flagMultipleSegments
	}

	var tail bytes.Buffer
	le(&tail, uint32(1000)) // send time
	le(&tail, uint16(100))  // duration
	if nseg > 1 {
		count := byte(nseg)
		if p.byteLengths {
			count |= 0x40
		}
		tail.WriteByte(count)
	}
	for i := 0; i < nseg; i++ {
		tail.WriteByte(0x80 | streamID)
		tail.WriteByte(p.seq)
		switch segType {
		case 0x59:
			le(&tail, uint16(p.offset))
		case 0x5d:
			le(&tail, p.offset)
		default:
			tail.WriteByte(byte(p.offset))
		}
		switch {
		case p.fragments != nil:
			tail.WriteByte(1)
			tail.WriteByte(0)
			var group bytes.Buffer
			for _, f := range p.fragments {
				group.WriteByte(byte(len(f)))
				group.Write(f)
			}
			if nseg > 1 {
				le(&tail, uint16(group.Len()))
			}
			tail.Write(group.Bytes())
		case p.subFlags != 0 && p.subFlags != 8:
			tail.WriteByte(p.subFlags)
		default:
			tail.WriteByte(8)
			le(&tail, uint32(len(p.payload)))
			le(&tail, uint32(0))
			switch {
			case nseg > 1 && p.byteLengths:
				tail.WriteByte(byte(len(p.payload)))
			case nseg > 1:
				le(&tail, uint16(len(p.payload)))
			}
			tail.Write(make([]byte, p.offset))
			tail.Write(p.payload)
		}
	}

	var head bytes.Buffer
	head.Write([]byte{packetStartMarker, 0, 0, flags, segType})
	if flags&flagExplicitSize != 0 {
		le(&head, uint16(size))
	}
	paddingField := 0
	switch {
	case flags&flagPadding16 != 0:
		paddingField = 2
	case flags&flagPadding8 != 0:
		paddingField = 1
	}
	padding := int(size) - head.Len() - paddingField - tail.Len()
	if padding < 0 {
		panic("packet payload too large")
	}
	switch paddingField {
	case 2:
		le(&head, uint16(padding))
	case 1:
		head.WriteByte(byte(padding))
	}
	head.Write(tail.Bytes())
	head.Write(make([]byte, padding))
	return head.Bytes()
}

// byteCodec turns every payload byte into one sample.
type byteCodec struct {
	params   CodecParams
	declined int
}

func (c *byteCodec) DecodeFrame(data []byte) (audio.Stream, error) {
	if len(data) == 0 {
		c.declined++
		return nil, nil
	}
	samples := make([]int16, len(data))
	for i, b := range data {
		samples[i] = int16(b)
	}
	return audio.NewMemoryStream(samples, c.params.SampleRate, c.params.Channels == 2), nil
}

func withByteCodec(dst **byteCodec) Option {
	return WithCodec(func(p CodecParams) (audio.Codec, error) {
		c := &byteCodec{params: p}
		if dst != nil {
			*dst = c
		}
		return c, nil
	})
}

func frames(size uint32, payloads ...[]byte) [][]byte {
	out := make([][]byte, len(payloads))
	for i, p := range payloads {
		out[i] = pkt{seq: byte(i + 1), payload: p}.build(size)
	}
	return out
}
