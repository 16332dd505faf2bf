package audio

import (
	"fmt"
	"time"
)

// Timestamp is a position expressed as a frame count at a given frame rate.
type Timestamp struct {
	frames int64
	rate   int
}

// NewTimestamp returns the position msecs milliseconds in, at the given rate.
func NewTimestamp(msecs int64, rate int) Timestamp {
	return Timestamp{frames: msecs * int64(rate) / 1000, rate: rate}
}

// FrameTimestamp returns the position of the given frame at the given rate.
func FrameTimestamp(frames int64, rate int) Timestamp {
	return Timestamp{frames: frames, rate: rate}
}

func (t Timestamp) Frames() int64 { return t.frames }

func (t Timestamp) Rate() int { return t.rate }

func (t Timestamp) IsZero() bool { return t.frames == 0 }

// Msecs returns the position in whole milliseconds.
func (t Timestamp) Msecs() int64 {
	if t.rate == 0 {
		return 0
	}
	return t.frames * 1000 / int64(t.rate)
}

// Duration returns the position as a time.Duration.
func (t Timestamp) Duration() time.Duration {
	if t.rate == 0 {
		return 0
	}
	return time.Duration(t.frames) * time.Second / time.Duration(t.rate)
}

// Convert re-expresses t at another frame rate, rounding down.
func (t Timestamp) Convert(rate int) Timestamp {
	if t.rate == rate || t.rate == 0 {
		return Timestamp{frames: t.frames, rate: rate}
	}
	return Timestamp{frames: t.frames * int64(rate) / int64(t.rate), rate: rate}
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d frames @ %d Hz", t.frames, t.rate)
}
