package rpiws281x

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/rpiws281x/internal/hw"
)

// Config collects the global timing parameters and up to two channel
// descriptors. Build validates the whole configuration and assembles the
// Driver without touching hardware.
type Config struct {
	frequency  uint32
	dmaChannel int
	renderWait time.Duration
	spiDevice  string
	logger     zerolog.Logger
	channels   [hw.MaxChannels]Channel
}

// NewConfig returns the default configuration: 800 kHz signal, DMA channel
// 10, no render wait, both channels disabled.
func NewConfig() *Config {
	return &Config{
		frequency:  TargetFrequency,
		dmaChannel: DefaultDMAChannel,
		logger:     zerolog.Nop(),
		channels:   [hw.MaxChannels]Channel{DisabledChannel(), DisabledChannel()},
	}
}

// WithFrequency sets the signal frequency in Hz.
func (c *Config) WithFrequency(hz uint32) *Config {
	c.frequency = hz
	return c
}

// WithDMAChannel selects the DMA engine used for the transfer.
func (c *Config) WithDMAChannel(n int) *Config {
	c.dmaChannel = n
	return c
}

// WithRenderWaitTime sets the minimum pause between consecutive renders.
func (c *Config) WithRenderWaitTime(d time.Duration) *Config {
	c.renderWait = d
	return c
}

// WithSPIDevice selects the spidev port (a spireg name such as "SPI0.0")
// for SPI-bound channels. Empty picks the first available port.
func (c *Config) WithSPIDevice(name string) *Config {
	c.spiDevice = name
	return c
}

// WithLogger attaches a logger to the driver lifecycle.
func (c *Config) WithLogger(l zerolog.Logger) *Config {
	c.logger = l
	return c
}

// WithChannel1 sets the first channel. It must not be bound to a PWM1 pin;
// the secondary PWM output is only available on channel two.
func (c *Config) WithChannel1(ch Channel) *Config {
	c.channels[0] = ch
	return c
}

// WithChannel2 sets the second channel. When bound to PWM it must use a
// PWM1 pin.
func (c *Config) WithChannel2(ch Channel) *Config {
	c.channels[1] = ch
	return c
}

func validateChannel(slot int, ch Channel) error {
	switch ch.mode {
	case modeDisabled:
		if ch.count != 0 {
			return fmt.Errorf("channel %d: %w: disabled channel has %d leds", slot+1, ErrWrongLedCount, ch.count)
		}
		return nil
	case modePWM:
		pin := PwmPin(ch.gpio)
		if !pin.valid() {
			return fmt.Errorf("channel %d: %w: gpio %d is not a PWM pin", slot+1, ErrPinNotAllowed, ch.gpio)
		}
		if slot == 0 && pin.secondary() {
			return fmt.Errorf("channel 1: %w: PWM1 pins drive channel 2 only", ErrPinNotAllowed)
		}
		if slot == 1 && !pin.secondary() {
			return fmt.Errorf("channel 2: %w: PWM channel 2 needs a PWM1 pin", ErrPinNotAllowed)
		}
	case modePCM:
		if !PcmPin(ch.gpio).valid() {
			return fmt.Errorf("channel %d: %w: gpio %d is not a PCM pin", slot+1, ErrPinNotAllowed, ch.gpio)
		}
	case modeSPI:
		if !SpiPin(ch.gpio).valid() {
			return fmt.Errorf("channel %d: %w: gpio %d is not an SPI pin", slot+1, ErrPinNotAllowed, ch.gpio)
		}
	}
	if ch.count <= 0 {
		return fmt.Errorf("channel %d: %w", slot+1, ErrWrongLedCount)
	}
	if !ch.strip.valid() {
		return fmt.Errorf("channel %d: %w: %#08x", slot+1, ErrWrongStripType, uint32(ch.strip))
	}
	return nil
}

// Build validates the configuration and assembles a Driver. Hardware is not
// claimed yet; that happens on the first render, wait or pixel access.
func (c *Config) Build() (*Driver, error) {
	if c.frequency == 0 {
		return nil, ErrWrongFrequency
	}
	if c.dmaChannel < 0 || c.dmaChannel > 14 {
		return nil, fmt.Errorf("%w: %d", ErrWrongDMAChannel, c.dmaChannel)
	}

	active, spiActive, otherActive := 0, false, false
	for i, ch := range c.channels {
		if err := validateChannel(i, ch); err != nil {
			return nil, err
		}
		if !ch.active() {
			continue
		}
		active++
		if ch.mode == modeSPI {
			spiActive = true
		} else {
			otherActive = true
		}
	}
	if active == 0 {
		return nil, ErrNoActiveChannel
	}
	if spiActive && otherActive {
		return nil, fmt.Errorf("%w: SPI cannot share a driver with PWM/PCM channels", ErrPinNotAllowed)
	}

	hc := hw.Config{
		Frequency:  c.frequency,
		DMAChannel: c.dmaChannel,
		SPIDevice:  c.spiDevice,
	}
	for i, ch := range c.channels {
		if !ch.active() {
			continue
		}
		hc.Channels[i] = hw.ChannelConfig{
			GPIO:        ch.gpio,
			Count:       ch.count,
			Invert:      ch.invert,
			Brightness:  ch.brightness,
			StripType:   uint32(ch.strip),
			GammaFactor: ch.gammaFactor,
		}
	}

	return &Driver{
		cfg:        hc,
		channels:   c.channels,
		renderWait: c.renderWait,
		log:        c.logger,
		open:       hw.Open,
	}, nil
}
