// Package rpiws281x drives WS281x-family addressable LED strips from a
// Raspberry Pi class board. Output channels are described by Channel values,
// collected into a Config, and turned into a Driver that owns the hardware
// session: pixel buffers, the DMA transfer context and the gamma tables.
//
// The render cycle is Render followed by Wait. Render enqueues the DMA
// transfer and returns; Wait blocks until the strip has the data, which is
// required before touching the pixel buffers again. SPI-bound channels
// transfer synchronously inside Render and never need Wait.
//
// A Driver is not safe for concurrent use; serialize access externally.
// Stop releases everything and is safe to call any number of times.
package rpiws281x

// TargetFrequency is the default WS281x signal frequency in Hz.
const TargetFrequency = 800000

// DefaultDMAChannel is the DMA engine claimed when none is configured.
const DefaultDMAChannel = 10
