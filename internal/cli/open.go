package cli

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/zrdimetc/go-audiostream/asf"
)

type container string

const (
	containerWAV container = "wav"
	containerASF container = "asf"
)

var errUnknownContainer = errors.New("unrecognized file format")

// sniff identifies the container from its first bytes and rewinds rs.
func sniff(rs io.ReadSeeker) (container, error) {
	head := make([]byte, 16)
	n, err := io.ReadFull(rs, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	head = head[:n]
	switch {
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return containerWAV, nil
	case asf.Sniff(head):
		return containerASF, nil
	}
	return "", errUnknownContainer
}

func openFile(path string) (*os.File, container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	kind, err := sniff(f)
	if err != nil {
		f.Close()
		return nil, "", err
	}
	return f, kind, nil
}
