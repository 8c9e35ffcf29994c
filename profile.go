package rpiws281x

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is the on-disk description of a single-channel driver setup.
type Profile struct {
	Driver      string  `yaml:"driver"` // "pwm" | "pcm" | "spi"
	GPIO        int     `yaml:"gpio"`
	Count       int     `yaml:"count"`
	ColorOrder  string  `yaml:"color_order"`
	Brightness  uint8   `yaml:"brightness"`
	Invert      bool    `yaml:"invert,omitempty"`
	Frequency   uint32  `yaml:"frequency,omitempty"`
	DMAChannel  int     `yaml:"dma_channel,omitempty"`
	GammaFactor float64 `yaml:"gamma_factor,omitempty"`
	RenderWait  string  `yaml:"render_wait,omitempty"` // duration, e.g. "300us"

	SPI struct {
		Dev string `yaml:"dev"` // spireg name, e.g. "SPI0.0"
	} `yaml:"spi,omitempty"`
}

// LoadProfile reads a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile writes a YAML profile.
func SaveProfile(path string, p *Profile) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Channel builds the channel descriptor the profile describes.
func (p *Profile) Channel() (Channel, error) {
	var ch Channel
	switch p.Driver {
	case "pwm":
		ch = PWMChannel(PwmPin(p.GPIO))
	case "pcm":
		ch = PCMChannel(PcmPin(p.GPIO))
	case "spi":
		ch = SPIChannel(SpiPin(p.GPIO))
	default:
		return Channel{}, fmt.Errorf("unknown driver %q", p.Driver)
	}
	st := StripGRB
	if p.ColorOrder != "" {
		var err error
		if st, err = ParseStripType(p.ColorOrder); err != nil {
			return Channel{}, err
		}
	}
	return ch.
		WithLEDCount(p.Count).
		WithStripType(st).
		WithBrightness(p.Brightness).
		WithInvert(p.Invert).
		WithGammaFactor(p.GammaFactor), nil
}

// Config builds a full driver configuration with the profile's channel in
// slot one.
func (p *Profile) Config() (*Config, error) {
	ch, err := p.Channel()
	if err != nil {
		return nil, err
	}
	cfg := NewConfig().WithChannel1(ch)
	if p.Frequency > 0 {
		cfg.WithFrequency(p.Frequency)
	}
	if p.DMAChannel > 0 {
		cfg.WithDMAChannel(p.DMAChannel)
	}
	if p.SPI.Dev != "" {
		cfg.WithSPIDevice(p.SPI.Dev)
	}
	if p.RenderWait != "" {
		d, err := time.ParseDuration(p.RenderWait)
		if err != nil {
			return nil, fmt.Errorf("render_wait: %w", err)
		}
		cfg.WithRenderWaitTime(d)
	}
	return cfg, nil
}
