package rpiws281x

import (
	"fmt"
	"strings"
)

// StripType encodes the wire ordering of the color components. The packed
// value holds, byte by byte, the pixel-word bit positions of the first,
// second and third transmitted component (white in the top byte for RGBW
// strips), exactly as the hardware layer consumes it. Pixel words are always
// laid out 0xWWRRGGBB; the strip type only changes what goes on the wire
// first.
type StripType uint32

// 3-color orderings.
const (
	StripRGB StripType = 0x00100800
	StripRBG StripType = 0x00100008
	StripGRB StripType = 0x00081000
	StripGBR StripType = 0x00080010
	StripBRG StripType = 0x00001008
	StripBGR StripType = 0x00000810
)

// 4-color orderings with a white channel (SK6812 family).
const (
	StripRGBW StripType = 0x18100800
	StripRBGW StripType = 0x18100008
	StripGRBW StripType = 0x18081000
	StripGBRW StripType = 0x18080010
	StripBRGW StripType = 0x18001008
	StripBGRW StripType = 0x18000810
)

// Common fixed LED models.
const (
	StripWS2812  = StripGRB
	StripSK6812  = StripGRB
	StripSK6812W = StripGRBW
)

var stripNames = map[StripType]string{
	StripRGB:  "RGB",
	StripRBG:  "RBG",
	StripGRB:  "GRB",
	StripGBR:  "GBR",
	StripBRG:  "BRG",
	StripBGR:  "BGR",
	StripRGBW: "RGBW",
	StripRBGW: "RBGW",
	StripGRBW: "GRBW",
	StripGBRW: "GBRW",
	StripBRGW: "BRGW",
	StripBGRW: "BGRW",
}

func (s StripType) valid() bool {
	_, ok := stripNames[s]
	return ok
}

// Colors returns 3, or 4 when the layout carries a white channel.
func (s StripType) Colors() int {
	if (s>>24)&0xff != 0 {
		return 4
	}
	return 3
}

func (s StripType) String() string {
	if n, ok := stripNames[s]; ok {
		return n
	}
	return fmt.Sprintf("StripType(%#08x)", uint32(s))
}

// ParseStripType maps a color-order name like "GRB" or "GRBW" to its strip
// type.
func ParseStripType(name string) (StripType, error) {
	for st, n := range stripNames {
		if n == strings.ToUpper(name) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrWrongStripType, name)
}

// Color packs a red, green, blue triplet into a pixel word.
func Color(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ColorRGBW packs a pixel word with a white component.
func ColorRGBW(r, g, b, w uint8) uint32 {
	return uint32(w)<<24 | Color(r, g, b)
}

// SplitColor unpacks a pixel word back into its components.
func SplitColor(c uint32) (r, g, b, w uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}
