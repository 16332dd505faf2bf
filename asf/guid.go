// Package asf demultiplexes the single audio stream of an ASF (WMA) file and
// feeds its frames to an injected codec.
package asf

import (
	"github.com/google/uuid"

	"github.com/zrdimetc/go-audiostream/bytestream"
)

// GUID is an ASF object identifier in its on-disk byte order: the first three
// fields little-endian, the last eight bytes as written.
type GUID [16]byte

// mustGUID converts the canonical textual form to the on-disk layout.
func mustGUID(s string) GUID {
	u := uuid.MustParse(s)
	var g GUID
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:], u[8:])
	return g
}

// String returns the canonical textual form.
func (g GUID) String() string {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u.String()
}

func readGUID(r *bytestream.Reader) (GUID, error) {
	var g GUID
	err := r.ReadFull(g[:])
	return g, err
}

var (
	guidHeader           = mustGUID("75B22630-668E-11CF-A6D9-00AA0062CE6C")
	guidData             = mustGUID("75B22636-668E-11CF-A6D9-00AA0062CE6C")
	guidFileProperties   = mustGUID("8CABDCA1-A947-11CF-8EE4-00C00C205365")
	guidStreamProperties = mustGUID("B7DC0791-A9B7-11CF-8EE6-00C00C205365")
	guidHeaderExtension  = mustGUID("5FBF03B5-A92E-11CF-8EE3-00C00C205365")
	guidStreamBitrate    = mustGUID("7BF875CE-468D-11D1-8D82-006097C9A2B2")
	guidContentDesc      = mustGUID("75B22633-668E-11CF-A6D9-00AA0062CE6C")
	guidExtContentDesc   = mustGUID("D2D0A440-E307-11D2-97F0-00A0C95EA850")
	guidCodecList        = mustGUID("86D15240-311D-11D0-A3A4-00A0C90348F6")
	guidAudioMedia       = mustGUID("F8699E40-5B4D-11CF-A8FD-00805F5C442B")
)

// Sniff reports whether b starts with the ASF header object GUID.
func Sniff(b []byte) bool {
	return len(b) >= len(guidHeader) && GUID(b[:16]) == guidHeader
}
