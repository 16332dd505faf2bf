// Package g711 expands ITU-T G.711 A-law and µ-law bytes to 16-bit linear PCM.
package g711

import (
	"fmt"

	zafg711 "github.com/zaf/g711"
)

// Law selects the companding curve.
type Law int

const (
	ALaw Law = iota
	MuLaw
)

func (l Law) String() string {
	switch l {
	case ALaw:
		return "a-law"
	case MuLaw:
		return "mu-law"
	default:
		return fmt.Sprintf("law(%d)", int(l))
	}
}

// Decode expands one byte with the selected law.
func (l Law) Decode(b byte) int16 {
	if l == MuLaw {
		return DecodeMuLaw(b)
	}
	return DecodeALaw(b)
}

// DecodeALaw expands one A-law byte.
func DecodeALaw(b byte) int16 {
	return zafg711.DecodeAlawFrame(b)
}

// DecodeMuLaw expands one µ-law byte.
func DecodeMuLaw(b byte) int16 {
	return zafg711.DecodeUlawFrame(b)
}
