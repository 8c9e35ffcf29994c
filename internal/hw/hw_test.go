package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGammaTableLinearByDefault(t *testing.T) {
	for _, f := range []float64{0, -1} {
		tbl := gammaTable(f)
		for i := range tbl {
			assert.Equal(t, uint8(i), tbl[i])
		}
	}
}

func TestGammaTableCurve(t *testing.T) {
	tbl := gammaTable(2.2)
	assert.Equal(t, uint8(0), tbl[0])
	assert.Equal(t, uint8(255), tbl[255])
	// The curve darkens the midrange and never decreases.
	assert.Less(t, tbl[128], uint8(128))
	for i := 1; i < 256; i++ {
		assert.GreaterOrEqual(t, tbl[i], tbl[i-1])
	}
}

func TestShiftsWireOrder(t *testing.T) {
	// Pixel words are 0xWWRRGGBB; each layout's shifts must pick the
	// components off in its wire order.
	const word = uint32(0xDDAABBCC) // W=DD R=AA G=BB B=CC
	cases := []struct {
		name  string
		strip uint32
		wire  []uint8
	}{
		{"RGB", 0x00100800, []uint8{0xAA, 0xBB, 0xCC}},
		{"RBG", 0x00100008, []uint8{0xAA, 0xCC, 0xBB}},
		{"GRB", 0x00081000, []uint8{0xBB, 0xAA, 0xCC}},
		{"GBR", 0x00080010, []uint8{0xBB, 0xCC, 0xAA}},
		{"BRG", 0x00001008, []uint8{0xCC, 0xAA, 0xBB}},
		{"BGR", 0x00000810, []uint8{0xCC, 0xBB, 0xAA}},
		{"GRBW", 0x18081000, []uint8{0xBB, 0xAA, 0xCC, 0xDD}},
		{"BGRW", 0x18000810, []uint8{0xCC, 0xBB, 0xAA, 0xDD}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, n := shifts(tc.strip)
			assert.Equal(t, len(tc.wire), n)
			got := make([]uint8, n)
			for k := 0; k < n; k++ {
				got[k] = uint8(word >> s[k])
			}
			assert.Equal(t, tc.wire, got)
		})
	}
}
