package wav

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/youpy/go-riff"

	"github.com/zrdimetc/go-audiostream/audio"
)

// ChunkInfo describes one top-level chunk of a RIFF file.
type ChunkInfo struct {
	ID   string `yaml:"id"`
	Size uint32 `yaml:"size"`
}

// Reader inspects a RIFF file chunk by chunk. Unlike ReadHeader it accepts
// chunks in any order, which makes it suited to diagnostics rather than playback.
type Reader struct {
	r         *riff.Reader
	riffChunk *riff.RIFFChunk
	format    *FmtChunk
}

func NewReader(r riff.RIFFReader) *Reader {
	riffReader := riff.NewReader(r)
	return &Reader{r: riffReader}
}

// FileType returns the RIFF form type, "WAVE" for wave files.
func (r *Reader) FileType() (string, error) {
	riffChunk, err := r.riff()
	if err != nil {
		return "", err
	}
	return string(riffChunk.FileType[:]), nil
}

// Chunks lists the chunks in file order.
func (r *Reader) Chunks() ([]ChunkInfo, error) {
	riffChunk, err := r.riff()
	if err != nil {
		return nil, err
	}
	chunks := make([]ChunkInfo, 0, len(riffChunk.Chunks))
	for _, ch := range riffChunk.Chunks {
		chunks = append(chunks, ChunkInfo{ID: string(ch.ChunkID[:]), Size: ch.ChunkSize})
	}
	return chunks, nil
}

func (r *Reader) Format() (*FmtChunk, error) {
	if r.format != nil {
		return r.format, nil
	}
	riffChunk, err := r.riff()
	if err != nil {
		return nil, err
	}
	fmtChunk := findChunk(riffChunk, "fmt ")
	if fmtChunk == nil {
		return nil, ErrNoFmt
	}
	format := new(FmtChunk)
	if err := binary.Read(fmtChunk, binary.LittleEndian, format); err != nil {
		return nil, err
	}
	if format.BitsPerSample == 0 {
		return nil, errors.New("wav: BitsPerSample is 0")
	}
	r.format = format
	return format, nil
}

// Duration derives the play time from the 'data' chunk size and block alignment.
func (r *Reader) Duration() (time.Duration, error) {
	format, err := r.Format()
	if err != nil {
		return 0, err
	}
	dataChunk := findChunk(r.riffChunk, "data")
	if dataChunk == nil {
		return 0, ErrNoData
	}
	if format.BlockAlign == 0 {
		return 0, errors.New("wav: BlockAlign is 0")
	}
	frames := int64(dataChunk.ChunkSize) / int64(format.BlockAlign)
	return audio.FrameTimestamp(frames, int(format.SampleRate)).Duration(), nil
}

func (r *Reader) riff() (*riff.RIFFChunk, error) {
	if r.riffChunk == nil {
		riffChunk, err := r.r.Read()
		if err != nil {
			return nil, err
		}
		r.riffChunk = riffChunk
	}
	return r.riffChunk, nil
}

func findChunk(riffChunk *riff.RIFFChunk, id string) *riff.Chunk {
	for _, ch := range riffChunk.Chunks {
		if string(ch.ChunkID[:]) == id {
			return ch
		}
	}
	return nil
}
