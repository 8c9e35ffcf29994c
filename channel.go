package rpiws281x

type channelMode int

const (
	modeDisabled channelMode = iota
	modePWM
	modePCM
	modeSPI
)

// Channel describes one physical strip output. It is a plain value until a
// Config builds it into a Driver; only then does it gain a hardware-backed
// pixel buffer, reachable through the Driver's channel views.
type Channel struct {
	mode        channelMode
	gpio        int
	count       int
	strip       StripType
	invert      bool
	brightness  uint8
	gammaFactor float64
}

// DisabledChannel returns an inert channel: no pin, no pixels, default RGB
// layout, zero brightness. It participates in no transfer.
func DisabledChannel() Channel {
	return Channel{strip: StripRGB}
}

// PWMChannel binds a channel to a hardware PWM pin.
func PWMChannel(pin PwmPin) Channel {
	ch := DisabledChannel()
	ch.mode = modePWM
	ch.gpio = int(pin)
	return ch
}

// PCMChannel binds a channel to the PCM_DOUT pin.
func PCMChannel(pin PcmPin) Channel {
	ch := DisabledChannel()
	ch.mode = modePCM
	ch.gpio = int(pin)
	return ch
}

// SPIChannel binds a channel to the SPI MOSI pin. SPI transfers complete
// synchronously inside Render, so Wait is a no-op for this channel.
func SPIChannel(pin SpiPin) Channel {
	ch := DisabledChannel()
	ch.mode = modeSPI
	ch.gpio = int(pin)
	return ch
}

// WithLEDCount sets the number of pixels. An active channel needs a positive
// count; this is checked when the configuration is built.
func (c Channel) WithLEDCount(n int) Channel {
	c.count = n
	return c
}

// WithBrightness sets the 0-255 scale applied to the whole channel at render
// time.
func (c Channel) WithBrightness(b uint8) Channel {
	c.brightness = b
	return c
}

// WithStripType selects the color ordering transmitted on the wire.
func (c Channel) WithStripType(st StripType) Channel {
	c.strip = st
	return c
}

// WithInvert flips the signal polarity, for strips behind an inverting
// level shifter.
func (c Channel) WithInvert(invert bool) Channel {
	c.invert = invert
	return c
}

// WithGammaFactor installs a custom correction curve built from a single
// exponent. Zero keeps the identity curve.
func (c Channel) WithGammaFactor(f float64) Channel {
	c.gammaFactor = f
	return c
}

// GPIO returns the bound pin number, 0 for a disabled channel.
func (c Channel) GPIO() int { return c.gpio }

// LEDCount returns the configured pixel count.
func (c Channel) LEDCount() int { return c.count }

// Brightness returns the configured render-time brightness scale.
func (c Channel) Brightness() uint8 { return c.brightness }

// StripType returns the configured color ordering.
func (c Channel) StripType() StripType { return c.strip }

// Inverted reports whether the output signal is inverted.
func (c Channel) Inverted() bool { return c.invert }

// active channels own pixels and participate in the transfer.
func (c Channel) active() bool {
	return c.mode != modeDisabled && c.count > 0
}
