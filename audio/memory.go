package audio

// MemoryStream serves a fixed slice of samples. Codecs return one per decoded frame.
type MemoryStream struct {
	samples []int16
	pos     int
	rate    int
	stereo  bool
}

func NewMemoryStream(samples []int16, rate int, stereo bool) *MemoryStream {
	return &MemoryStream{samples: samples, rate: rate, stereo: stereo}
}

func (m *MemoryStream) ReadBuffer(buf []int16) (int, error) {
	n := copy(buf, m.samples[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MemoryStream) IsStereo() bool { return m.stereo }

func (m *MemoryStream) Rate() int { return m.rate }

func (m *MemoryStream) EndOfData() bool { return m.pos >= len(m.samples) }
