package rpiws281x

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/rpiws281x/internal/hw"
)

// Driver owns one live hardware session: the DMA transfer context, the
// mapped peripheral registers and the pixel buffers of its channels. It is
// assembled by Config.Build in the unopened state; the session is claimed on
// the first hardware-touching call and released by Stop.
//
// A Driver must be confined to one goroutine or guarded externally. The
// internal mutex only keeps lifecycle transitions safe, in particular a
// deferred or signal-handler Stop racing a final render.
type Driver struct {
	mu         sync.Mutex
	cfg        hw.Config
	channels   [hw.MaxChannels]Channel
	renderWait time.Duration
	log        zerolog.Logger

	open       func(hw.Config) (hw.Session, error)
	sess       hw.Session
	stopped    bool
	lastRender time.Time
}

// ensureOpen claims hardware on first use. Callers hold d.mu.
func (d *Driver) ensureOpen() error {
	if d.stopped {
		return ErrDriverStopped
	}
	if d.sess != nil {
		return nil
	}
	sess, err := d.open(d.cfg)
	if err != nil {
		d.log.Error().Err(err).Msg("hardware claim failed")
		return err
	}
	d.sess = sess
	d.log.Debug().
		Uint32("freq", d.cfg.Frequency).
		Int("dma", d.cfg.DMAChannel).
		Msg("hardware session opened")
	return nil
}

// Render pushes the current pixel buffers to the strip. The transfer runs
// asynchronously via DMA after Render returns; call Wait before mutating the
// buffers again. A configured render wait time is honored by pausing until
// that much time has passed since the previous render.
func (d *Driver) Render() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if d.renderWait > 0 && !d.lastRender.IsZero() {
		if pause := d.renderWait - time.Since(d.lastRender); pause > 0 {
			time.Sleep(pause)
		}
	}
	if err := d.sess.Render(); err != nil {
		return err
	}
	d.lastRender = time.Now()
	return nil
}

// Wait blocks until the most recent transfer completed. Not needed for
// SPI-bound channels.
func (d *Driver) Wait() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureOpen(); err != nil {
		return err
	}
	return d.sess.Wait()
}

// SetGammaFactor replaces the gamma-correction curve applied at render time
// with one built from a single exponent.
func (d *Driver) SetGammaFactor(factor float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureOpen(); err != nil {
		return err
	}
	return d.sess.SetGammaFactor(factor)
}

// Stop shuts the hardware down and frees every buffer the session owned.
// It is idempotent and never fails; after Stop the driver is terminal and
// all other operations report ErrDriverStopped.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess != nil {
		d.sess.Fini()
		d.sess = nil
		d.log.Debug().Msg("hardware session released")
	}
	d.stopped = true
}

// Channel1 returns the live view of the first channel.
func (d *Driver) Channel1() *ChannelView { return &ChannelView{d: d, idx: 0} }

// Channel2 returns the live view of the second channel. Only meaningful
// when a PWM1 channel is configured.
func (d *Driver) Channel2() *ChannelView { return &ChannelView{d: d, idx: 1} }

// ChannelView is pixel and brightness access to one channel of a live
// Driver. Views are only valid while their Driver is.
type ChannelView struct {
	d   *Driver
	idx int
}

// Leds returns the channel's pixel words, one 0xWWRRGGBB word per LED.
// Writing into the slice mutates the buffer the next Render transfers. The
// slice is owned by the driver and must not be retained past Stop.
func (v *ChannelView) Leds() ([]uint32, error) {
	v.d.mu.Lock()
	defer v.d.mu.Unlock()
	if !v.d.channels[v.idx].active() {
		return nil, ErrChannelDisabled
	}
	if err := v.d.ensureOpen(); err != nil {
		return nil, err
	}
	return v.d.sess.LEDs(v.idx), nil
}

// SetLed writes one pixel word.
func (v *ChannelView) SetLed(i int, color uint32) error {
	leds, err := v.Leds()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(leds) {
		return ErrGeneric
	}
	leds[i] = color
	return nil
}

// LEDCount returns the channel's configured pixel count, 0 when disabled.
func (v *ChannelView) LEDCount() int {
	return v.d.channels[v.idx].count
}

// StripType returns the channel's color ordering.
func (v *ChannelView) StripType() StripType {
	return v.d.channels[v.idx].strip
}

// Brightness returns the channel's current render-time scale.
func (v *ChannelView) Brightness() uint8 {
	v.d.mu.Lock()
	defer v.d.mu.Unlock()
	return v.d.channels[v.idx].brightness
}

// SetBrightness changes the channel's render-time scale. Pixel contents,
// count and layout are untouched.
func (v *ChannelView) SetBrightness(b uint8) error {
	v.d.mu.Lock()
	defer v.d.mu.Unlock()
	if v.d.stopped {
		return ErrDriverStopped
	}
	if !v.d.channels[v.idx].active() {
		return ErrChannelDisabled
	}
	v.d.channels[v.idx].brightness = b
	v.d.cfg.Channels[v.idx].Brightness = b
	if v.d.sess != nil {
		v.d.sess.SetBrightness(v.idx, b)
	}
	return nil
}
