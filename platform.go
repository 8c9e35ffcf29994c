package rpiws281x

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Platform is the read-only description of a detected host board: revision
// code, peripheral and videocore base addresses and a descriptive name. The
// data is static; it is safe to hold and to call Detect repeatedly.
type Platform struct {
	revision   uint32
	periphBase uint32
	vcBase     uint32
	desc       string
}

// Revision returns the raw board revision code.
func (p *Platform) Revision() uint32 { return p.revision }

// PeripheralBase returns the base address of the peripheral register block.
func (p *Platform) PeripheralBase() uint32 { return p.periphBase }

// VideocoreBase returns the videocore bus address base.
func (p *Platform) VideocoreBase() uint32 { return p.vcBase }

// Description returns the board's descriptive name.
func (p *Platform) Description() string { return p.desc }

func (p *Platform) String() string {
	return fmt.Sprintf("%s (rev %06X, periph %#08x, vc %#08x)",
		p.desc, p.revision, p.periphBase, p.vcBase)
}

const (
	periphBaseRPi  = 0x20000000
	periphBaseRPi2 = 0x3f000000
	periphBaseRPi4 = 0xfe000000

	videocoreBaseRPi  = 0x40000000
	videocoreBaseRPi2 = 0xc0000000
)

const revisionPath = "/proc/device-tree/system/linux,revision"

// Detect identifies the host board. It returns (nil, false) when the host
// is not a recognized board, never a partially-populated descriptor.
func Detect() (*Platform, bool) {
	f, err := os.Open(revisionPath)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	b := make([]byte, 4)
	if n, err := f.Read(b); err != nil || n != 4 {
		return nil, false
	}
	return platformFor(binary.BigEndian.Uint32(b))
}

// platformFor resolves a revision code against the variant table. The top
// revision byte carries warranty/overvolt flags and is ignored for lookup.
func platformFor(revision uint32) (*Platform, bool) {
	v, ok := boardVariants[revision&0xffffff]
	if !ok {
		return nil, false
	}
	p := v
	p.revision = revision
	return &p, true
}

var boardVariants = map[uint32]Platform{
	// Model B Rev 1.0 and 2.0
	0x000002: {0, periphBaseRPi, videocoreBaseRPi, "Model B"},
	0x000003: {0, periphBaseRPi, videocoreBaseRPi, "Model B"},
	0x000004: {0, periphBaseRPi, videocoreBaseRPi, "Model B"},
	0x000005: {0, periphBaseRPi, videocoreBaseRPi, "Model B"},
	0x000006: {0, periphBaseRPi, videocoreBaseRPi, "Model B"},
	// Model A
	0x000007: {0, periphBaseRPi, videocoreBaseRPi, "Model A"},
	0x000008: {0, periphBaseRPi, videocoreBaseRPi, "Model A"},
	0x000009: {0, periphBaseRPi, videocoreBaseRPi, "Model A"},
	// Model B+
	0x000010: {0, periphBaseRPi, videocoreBaseRPi, "Model B+"},
	0x000013: {0, periphBaseRPi, videocoreBaseRPi, "Model B+"},
	// CM1
	0x000011: {0, periphBaseRPi, videocoreBaseRPi, "Compute Module 1"},
	0x000014: {0, periphBaseRPi, videocoreBaseRPi, "Compute Module 1"},
	// Model A+
	0x000012: {0, periphBaseRPi, videocoreBaseRPi, "Model A+"},
	0x000015: {0, periphBaseRPi, videocoreBaseRPi, "Model A+"},
	0x900021: {0, periphBaseRPi, videocoreBaseRPi, "Model A+ v1.1"},
	0x900032: {0, periphBaseRPi, videocoreBaseRPi, "Model B+ v1.2"},
	// Pi Zero family
	0x900092: {0, periphBaseRPi, videocoreBaseRPi, "Pi Zero v1.2"},
	0x900093: {0, periphBaseRPi, videocoreBaseRPi, "Pi Zero v1.3"},
	0x920093: {0, periphBaseRPi, videocoreBaseRPi, "Pi Zero v1.3"},
	0x9000c1: {0, periphBaseRPi, videocoreBaseRPi, "Pi Zero W v1.1"},
	0x902120: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi Zero 2 W v1.0"},
	// Pi 2
	0xa01040: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 2 Model B v1.0"},
	0xa01041: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 2 Model B v1.1"},
	0xa21041: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 2 Model B v1.1"},
	0xa22042: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 2 Model B v1.2"},
	// Pi 3
	0xa02082: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 3 Model B"},
	0xa22082: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 3 Model B"},
	0xa32082: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 3 Model B"},
	0xa020d3: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 3 Model B+"},
	0x9020e0: {0, periphBaseRPi2, videocoreBaseRPi2, "Pi 3 Model A+"},
	// CM3
	0xa020a0: {0, periphBaseRPi2, videocoreBaseRPi2, "Compute Module 3"},
	0xa02100: {0, periphBaseRPi2, videocoreBaseRPi2, "Compute Module 3+"},
	// Pi 4
	0xa03111: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 1GB v1.1"},
	0xb03111: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 2GB v1.1"},
	0xb03112: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 2GB v1.2"},
	0xb03114: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 2GB v1.4"},
	0xc03111: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 4GB v1.1"},
	0xc03112: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 4GB v1.2"},
	0xc03114: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 4GB v1.4"},
	0xd03114: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 4 Model B - 8GB v1.4"},
	// Pi 400
	0xc03130: {0, periphBaseRPi4, videocoreBaseRPi2, "Pi 400 - 4GB v1.0"},
	// CM4
	0xa03140: {0, periphBaseRPi4, videocoreBaseRPi2, "Compute Module 4 - 1GB v1.0"},
	0xb03140: {0, periphBaseRPi4, videocoreBaseRPi2, "Compute Module 4 - 2GB v1.0"},
	0xc03140: {0, periphBaseRPi4, videocoreBaseRPi2, "Compute Module 4 - 4GB v1.0"},
	0xd03140: {0, periphBaseRPi4, videocoreBaseRPi2, "Compute Module 4 - 8GB v1.0"},
}
