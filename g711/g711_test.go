package g711

import (
	"bytes"
	"errors"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"github.com/zrdimetc/go-audiostream/audio"
)

func TestDecodeSignBitNegates(t *testing.T) {
	for i := 0; i < 128; i++ {
		b := byte(i)
		assert.Equal(t, DecodeALaw(b), -DecodeALaw(b|0x80), "a-law byte 0x%02x", b)
		assert.Equal(t, DecodeMuLaw(b), -DecodeMuLaw(b|0x80), "mu-law byte 0x%02x", b)
	}
}

func TestDecodeKnownVectors(t *testing.T) {
	cases := []struct {
		law  Law
		in   byte
		want int16
	}{
		{ALaw, 0xd5, 8},
		{ALaw, 0x55, -8},
		{ALaw, 0x00, -5504},
		{ALaw, 0xaa, 32256},
		{MuLaw, 0xff, 0},
		{MuLaw, 0x7f, 0},
		{MuLaw, 0x00, -32124},
		{MuLaw, 0x80, 32124},
	}
	for _, c := range cases {
		assert.Equal(t, c.law.Decode(c.in), c.want, "%s 0x%02x", c.law, c.in)
	}
}

func TestDecodeIsPure(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		assert.Equal(t, DecodeALaw(b), DecodeALaw(b))
		assert.Equal(t, DecodeMuLaw(b), DecodeMuLaw(b))
	}
}

func TestStreamReadsUntilEOS(t *testing.T) {
	src := []byte{0xff, 0x00, 0x80, 0x7f, 0xfe}
	s, err := NewMuLawStream(bytes.NewReader(src), false, 8000, 1)
	assert.NilError(t, err)
	assert.Equal(t, s.Length().Frames(), int64(5))

	buf := make([]int16, 3)
	n, err := s.ReadBuffer(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, 3)
	assert.Assert(t, is.DeepEqual(buf, []int16{0, -32124, 32124}))
	assert.Assert(t, !s.EndOfData())

	n, err = s.ReadBuffer(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, 2)
	assert.Assert(t, s.EndOfData())

	n, err = s.ReadBuffer(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
}

func TestStreamStereoSeek(t *testing.T) {
	src := []byte{0xd5, 0x55, 0xd5, 0x55, 0x00, 0xaa}
	s, err := NewALawStream(bytes.NewReader(src), false, 11025, 2)
	assert.NilError(t, err)
	assert.Assert(t, s.IsStereo())
	assert.Equal(t, s.Length().Frames(), int64(3))

	assert.NilError(t, s.Seek(audio.FrameTimestamp(2, 11025)))
	buf := make([]int16, 4)
	n, err := s.ReadBuffer(buf)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(buf[:n], []int16{-5504, 32256}))

	assert.NilError(t, s.Rewind())
	n, err = s.ReadBuffer(buf)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(buf[:n], []int16{8, -8, 8, -8}))

	assert.Assert(t, errors.Is(s.Seek(audio.FrameTimestamp(4, 11025)), audio.ErrSeekOutOfRange))
}

func TestNewStreamRejectsChannels(t *testing.T) {
	_, err := NewStream(bytes.NewReader(nil), false, ALaw, 8000, 3)
	assert.ErrorContains(t, err, "unsupported channel count")
}

var errDevice = errors.New("device gone")

// failingReader serves data, then fails every further read.
type failingReader struct {
	*bytes.Reader
}

func (f failingReader) Read(p []byte) (int, error) {
	n, err := f.Reader.Read(p)
	if err != nil {
		return n, errDevice
	}
	return n, nil
}

func TestStreamKeepsSamplesReadBeforeError(t *testing.T) {
	src := failingReader{bytes.NewReader([]byte{0xd5, 0x55})}
	s, err := NewALawStream(src, false, 8000, 1)
	assert.NilError(t, err)

	buf := make([]int16, 4)
	n, err := s.ReadBuffer(buf)
	assert.Assert(t, errors.Is(err, errDevice))
	assert.Equal(t, n, 2)
	assert.Assert(t, is.DeepEqual(buf[:n], []int16{8, -8}))
}
