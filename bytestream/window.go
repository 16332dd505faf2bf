package bytestream

import (
	"errors"
	"io"
)

var errNegativePosition = errors.New("bytestream: negative position")

// Window exposes [start, start+size) of a parent stream as its own stream.
// It seeks the parent before every read, so two windows over the same parent
// stay independent as long as they are not used concurrently.
type Window struct {
	parent io.ReadSeeker
	start  int64
	size   int64
	pos    int64
}

func NewWindow(parent io.ReadSeeker, start, size int64) *Window {
	return &Window{parent: parent, start: start, size: size}
}

func (w *Window) Read(p []byte) (int, error) {
	if w.pos >= w.size {
		return 0, io.EOF
	}
	if remaining := w.size - w.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	if _, err := w.parent.Seek(w.start+w.pos, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := w.parent.Read(p)
	w.pos += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}

func (w *Window) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = w.pos + offset
	case io.SeekEnd:
		abs = w.size + offset
	default:
		return w.pos, errors.New("bytestream: invalid whence")
	}
	if abs < 0 {
		return w.pos, errNegativePosition
	}
	w.pos = abs
	return abs, nil
}

func (w *Window) Size() int64 { return w.size }

// Close closes the parent if it implements io.Closer.
func (w *Window) Close() error {
	if c, ok := w.parent.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
