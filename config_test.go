package rpiws281x

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRejectsPinsOutsideClosedSets(t *testing.T) {
	cases := []struct {
		name string
		ch   Channel
	}{
		{"pwm gpio 7", PWMChannel(PwmPin(7)).WithLEDCount(1)},
		{"pwm gpio 10", PWMChannel(PwmPin(10)).WithLEDCount(1)},
		{"pcm gpio 18", PCMChannel(PcmPin(18)).WithLEDCount(1)},
		{"spi gpio 11", SPIChannel(SpiPin(11)).WithLEDCount(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig().WithChannel1(tc.ch).Build()
			assert.ErrorIs(t, err, ErrPinNotAllowed)
		})
	}
}

func TestBuildEnforcesPwmPairing(t *testing.T) {
	// PWM1 pins are channel-2 only.
	_, err := NewConfig().
		WithChannel1(PWMChannel(Pwm1Gpio13).WithLEDCount(1)).
		Build()
	assert.ErrorIs(t, err, ErrPinNotAllowed)

	// Channel 2 on PWM must use a PWM1 pin.
	_, err = NewConfig().
		WithChannel1(PWMChannel(Pwm0Gpio18).WithLEDCount(1)).
		WithChannel2(PWMChannel(Pwm0Gpio12).WithLEDCount(1)).
		Build()
	assert.ErrorIs(t, err, ErrPinNotAllowed)

	// The valid pairing builds.
	d, err := NewConfig().
		WithChannel1(PWMChannel(Pwm0Gpio18).WithLEDCount(4)).
		WithChannel2(PWMChannel(Pwm1Gpio13).WithLEDCount(4)).
		Build()
	assert.NoError(t, err)
	assert.NotNil(t, d)
}

func TestBuildRejectsBadCounts(t *testing.T) {
	_, err := NewConfig().
		WithChannel1(PWMChannel(Pwm0Gpio18)).
		Build()
	assert.ErrorIs(t, err, ErrWrongLedCount)

	_, err = NewConfig().
		WithChannel1(DisabledChannel().WithLEDCount(5)).
		Build()
	assert.ErrorIs(t, err, ErrWrongLedCount)
}

func TestBuildRejectsGlobalMisconfiguration(t *testing.T) {
	ch := PWMChannel(Pwm0Gpio18).WithLEDCount(1)

	_, err := NewConfig().Build()
	assert.ErrorIs(t, err, ErrNoActiveChannel)

	_, err = NewConfig().WithFrequency(0).WithChannel1(ch).Build()
	assert.ErrorIs(t, err, ErrWrongFrequency)

	_, err = NewConfig().WithDMAChannel(15).WithChannel1(ch).Build()
	assert.ErrorIs(t, err, ErrWrongDMAChannel)

	_, err = NewConfig().
		WithChannel1(PWMChannel(Pwm0Gpio18).WithLEDCount(1).WithStripType(StripType(0xdead))).
		Build()
	assert.ErrorIs(t, err, ErrWrongStripType)

	_, err = NewConfig().
		WithChannel1(SPIChannel(SpiGpio10).WithLEDCount(1)).
		WithChannel2(PWMChannel(Pwm1Gpio19).WithLEDCount(1)).
		Build()
	assert.ErrorIs(t, err, ErrPinNotAllowed)
}

func TestBuildDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, uint32(TargetFrequency), c.frequency)
	assert.Equal(t, DefaultDMAChannel, c.dmaChannel)
	assert.Equal(t, time.Duration(0), c.renderWait)
	assert.False(t, c.channels[0].active())
	assert.False(t, c.channels[1].active())

	ch := DisabledChannel()
	assert.Equal(t, 0, ch.LEDCount())
	assert.Equal(t, StripRGB, ch.StripType())
	assert.Equal(t, uint8(0), ch.Brightness())
}

func TestProfileRoundTrip(t *testing.T) {
	p := &Profile{
		Driver:     "pwm",
		GPIO:       18,
		Count:      30,
		ColorOrder: "GRB",
		Brightness: 160,
		Invert:     true,
		RenderWait: "300us",
	}
	path := filepath.Join(t.TempDir(), "strip.yaml")
	assert.NoError(t, SaveProfile(path, p))

	got, err := LoadProfile(path)
	assert.NoError(t, err)
	assert.Equal(t, p, got)

	cfg, err := got.Config()
	assert.NoError(t, err)
	assert.Equal(t, 300*time.Microsecond, cfg.renderWait)

	ch := cfg.channels[0]
	assert.Equal(t, 18, ch.GPIO())
	assert.Equal(t, 30, ch.LEDCount())
	assert.Equal(t, StripGRB, ch.StripType())
	assert.Equal(t, uint8(160), ch.Brightness())
	assert.True(t, ch.Inverted())

	d, err := cfg.Build()
	assert.NoError(t, err)
	assert.NotNil(t, d)
}

func TestProfileRejectsUnknownDriverAndOrder(t *testing.T) {
	_, err := (&Profile{Driver: "uart", GPIO: 18, Count: 1}).Channel()
	assert.Error(t, err)

	_, err = (&Profile{Driver: "pwm", GPIO: 18, Count: 1, ColorOrder: "QQQ"}).Channel()
	assert.ErrorIs(t, err, ErrWrongStripType)
}
