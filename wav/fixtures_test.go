package wav

import (
	"bytes"
	"encoding/binary"
)

type chunk struct {
	id   string
	body []byte
}

func riffFile(chunks ...chunk) []byte {
	var body bytes.Buffer
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(&body, binary.LittleEndian, uint32(len(c.body)))
		body.Write(c.body)
	}
	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func fmtBody(tag, channels uint16, rate uint32, bits uint16, extra ...byte) []byte {
	blockAlign := channels * bits / 8
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, FmtChunk{
		AudioFormat:   tag,
		NumChannels:   channels,
		SampleRate:    rate,
		ByteRate:      rate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
	})
	b.Write(extra)
	return b.Bytes()
}

type closeCounter struct {
	*bytes.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}
