package audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStream16BitLE(t *testing.T) {
	data := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80}
	s, err := NewRawStream(bytes.NewReader(data), false, 22050, Flag16Bits|FlagLittleEndian)
	require.NoError(t, err)

	buf := make([]int16, 8)
	n, err := s.ReadBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int16{1, -1, -32768}, buf[:n])
	assert.True(t, s.EndOfData())
	assert.Equal(t, int64(3), s.Length().Frames())
}

func TestRawStream8BitUnsigned(t *testing.T) {
	data := []byte{0x80, 0x00, 0xff}
	s, err := NewRawStream(bytes.NewReader(data), false, 8000, FlagUnsigned)
	require.NoError(t, err)

	buf := make([]int16, 3)
	n, err := s.ReadBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int16{0, -32768, 32512}, buf)
}

func TestRawStream24BitKeepsHighBytes(t *testing.T) {
	data := []byte{0xaa, 0x34, 0x12}
	s, err := NewRawStream(bytes.NewReader(data), false, 48000, Flag24Bits|FlagLittleEndian)
	require.NoError(t, err)

	buf := make([]int16, 1)
	n, err := s.ReadBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int16(0x1234), buf[0])
}

func TestRawStreamSeekAndRewind(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	s, err := NewRawStream(bytes.NewReader(data), false, 2, Flag16Bits|FlagLittleEndian|FlagStereo)
	require.NoError(t, err)
	assert.True(t, s.IsStereo())
	assert.Equal(t, int64(2), s.Length().Frames())

	require.NoError(t, s.Seek(FrameTimestamp(1, 2)))
	buf := make([]int16, 4)
	n, err := s.ReadBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, 4}, buf[:n])

	require.NoError(t, s.Rewind())
	n, err = s.ReadBuffer(buf)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 3, 4}, buf[:n])

	assert.ErrorIs(t, s.Seek(FrameTimestamp(3, 2)), ErrSeekOutOfRange)
}

func TestRawStreamRejectsBigEndian(t *testing.T) {
	_, err := NewRawStream(bytes.NewReader([]byte{0, 1}), false, 8000, Flag16Bits)
	assert.ErrorIs(t, err, ErrBigEndian)
	_, err = NewRawStream(bytes.NewReader([]byte{0, 1, 2}), false, 8000, Flag24Bits)
	assert.ErrorIs(t, err, ErrBigEndian)
}

func TestMemoryStream(t *testing.T) {
	m := NewMemoryStream([]int16{1, 2, 3}, 11025, false)
	buf := make([]int16, 2)

	n, _ := m.ReadBuffer(buf)
	assert.Equal(t, 2, n)
	assert.False(t, m.EndOfData())

	n, _ = m.ReadBuffer(buf)
	assert.Equal(t, 1, n)
	assert.True(t, m.EndOfData())
}
