package rpiws281x

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/rpiws281x/internal/hw"
	"github.com/coreman2200/rpiws281x/internal/hw/hwtest"
)

// newFakeDriver builds a driver whose hardware claim hands out a fake
// session instead of touching the host.
func newFakeDriver(t *testing.T, cfg *Config) (*Driver, *hwtest.Session) {
	t.Helper()
	d, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	fake := hwtest.New(d.cfg)
	d.open = func(cfg hw.Config) (hw.Session, error) {
		for i, cc := range cfg.Channels {
			fake.SetBrightness(i, cc.Brightness)
		}
		return fake, nil
	}
	return d, fake
}

func pwmConfig(count int) *Config {
	return NewConfig().WithChannel1(
		PWMChannel(Pwm0Gpio18).
			WithLEDCount(count).
			WithStripType(StripRGB).
			WithBrightness(128))
}

func TestBuildDoesNotTouchHardware(t *testing.T) {
	opened := false
	d, err := pwmConfig(4).Build()
	assert.NoError(t, err)
	d.open = func(hw.Config) (hw.Session, error) {
		opened = true
		return hwtest.New(d.cfg), nil
	}
	assert.False(t, opened)
	assert.NoError(t, d.Render())
	assert.True(t, opened)
	d.Stop()
}

func TestRenderScenario(t *testing.T) {
	// Primary PWM pin, 10 pixels, RGB, brightness 128: write red, render,
	// wait, all without error.
	d, fake := newFakeDriver(t, pwmConfig(10))
	defer d.Stop()

	ch := d.Channel1()
	assert.Equal(t, 10, ch.LEDCount())
	assert.NoError(t, ch.SetLed(0, Color(255, 0, 0)))
	assert.NoError(t, d.Render())
	assert.NoError(t, d.Wait())

	assert.Equal(t, 1, fake.Renders)
	assert.Equal(t, 1, fake.Waits)
	assert.Equal(t, uint32(0xff0000), fake.Buffers[0][0])
}

func TestStopIsIdempotent(t *testing.T) {
	d, fake := newFakeDriver(t, pwmConfig(4))
	assert.NoError(t, d.Render())
	d.Stop()
	d.Stop()
	d.Stop()
	assert.Equal(t, 1, fake.Finis)
}

func TestStopBeforeOpenReleasesNothing(t *testing.T) {
	d, fake := newFakeDriver(t, pwmConfig(4))
	d.Stop()
	assert.Equal(t, 0, fake.Finis)
}

func TestOperationsAfterStopFail(t *testing.T) {
	d, _ := newFakeDriver(t, pwmConfig(4))
	assert.NoError(t, d.Render())
	d.Stop()

	assert.ErrorIs(t, d.Render(), ErrDriverStopped)
	assert.ErrorIs(t, d.Wait(), ErrDriverStopped)
	assert.ErrorIs(t, d.SetGammaFactor(2.2), ErrDriverStopped)
	_, err := d.Channel1().Leds()
	assert.ErrorIs(t, err, ErrDriverStopped)
	assert.ErrorIs(t, d.Channel1().SetBrightness(10), ErrDriverStopped)
}

func TestWaitBlocksUntilTransferCompletes(t *testing.T) {
	d, fake := newFakeDriver(t, pwmConfig(4))
	defer d.Stop()
	fake.Async = true

	assert.NoError(t, d.Render())

	var completed atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		completed.Store(true)
		fake.Complete()
	}()

	assert.NoError(t, d.Wait())
	assert.True(t, completed.Load(), "Wait returned before the transfer completed")
}

func TestDisabledChannelHasNoPixels(t *testing.T) {
	d, _ := newFakeDriver(t, pwmConfig(4))
	defer d.Stop()

	_, err := d.Channel2().Leds()
	assert.ErrorIs(t, err, ErrChannelDisabled)
	assert.ErrorIs(t, d.Channel2().SetLed(0, 0), ErrChannelDisabled)
	assert.ErrorIs(t, d.Channel2().SetBrightness(1), ErrChannelDisabled)
	assert.Equal(t, 0, d.Channel2().LEDCount())
}

func TestBrightnessAndGammaLeaveGeometryAlone(t *testing.T) {
	d, fake := newFakeDriver(t, pwmConfig(8))
	defer d.Stop()

	ch := d.Channel1()
	assert.Equal(t, uint8(128), ch.Brightness())
	assert.NoError(t, ch.SetBrightness(42))
	assert.Equal(t, uint8(42), ch.Brightness())
	assert.NoError(t, d.SetGammaFactor(2.2))

	assert.Equal(t, 8, ch.LEDCount())
	assert.Equal(t, StripRGB, ch.StripType())
	assert.Equal(t, uint8(42), fake.Brightness[0])
	assert.Equal(t, 2.2, fake.Gamma)
}

func TestSetLedBoundsChecked(t *testing.T) {
	d, _ := newFakeDriver(t, pwmConfig(4))
	defer d.Stop()

	assert.ErrorIs(t, d.Channel1().SetLed(4, 1), ErrGeneric)
	assert.ErrorIs(t, d.Channel1().SetLed(-1, 1), ErrGeneric)
}

func TestRenderErrorsSurface(t *testing.T) {
	d, err := pwmConfig(4).Build()
	assert.NoError(t, err)
	d.open = func(hw.Config) (hw.Session, error) { return nil, hw.ErrHwNotSupported }

	assert.ErrorIs(t, d.Render(), ErrHwNotSupported)
	// A failed claim leaves the driver unopened, not stopped; the caller
	// may retry.
	assert.ErrorIs(t, d.Wait(), ErrHwNotSupported)
	d.Stop()
}

func TestRenderWaitTimePaces(t *testing.T) {
	cfg := pwmConfig(4).WithRenderWaitTime(30 * time.Millisecond)
	d, _ := newFakeDriver(t, cfg)
	defer d.Stop()

	start := time.Now()
	assert.NoError(t, d.Render())
	assert.NoError(t, d.Render())
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
