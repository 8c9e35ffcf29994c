// stripctl is a bring-up tool for WS281x strips: it drives a test pattern
// through the hardware driver, or through periph's NRZ-over-SPI device, or
// onto the terminal when no hardware is around.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	ws "github.com/coreman2200/rpiws281x"
)

// sink is anywhere a frame of pixels can go.
type sink interface {
	set(i int, r, g, b uint8)
	flush() error
	close()
}

// driverSink pushes frames through the hardware driver.
type driverSink struct {
	d    *ws.Driver
	leds []uint32
	spi  bool
}

func newDriverSink(cfg *ws.Config, spi bool) (*driverSink, error) {
	d, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	leds, err := d.Channel1().Leds()
	if err != nil {
		d.Stop()
		return nil, err
	}
	return &driverSink{d: d, leds: leds, spi: spi}, nil
}

func (s *driverSink) set(i int, r, g, b uint8) {
	s.leds[i] = ws.Color(r, g, b)
}

func (s *driverSink) flush() error {
	if err := s.d.Render(); err != nil {
		return err
	}
	if s.spi {
		return nil
	}
	return s.d.Wait()
}

func (s *driverSink) close() { s.d.Stop() }

// drawerSink renders frames into an image for periph display drawers
// (nrzled over spidev, or the terminal screen).
type drawerSink struct {
	drawer interface {
		Draw(r image.Rectangle, src image.Image, sp image.Point) error
	}
	bounds image.Rectangle
	img    *image.NRGBA
	closer func()
}

func (s *drawerSink) set(i int, r, g, b uint8) {
	s.img.SetNRGBA(i, 0, color.NRGBA{R: r, G: g, B: b, A: 255})
}

func (s *drawerSink) flush() error {
	return s.drawer.Draw(s.bounds, s.img, image.Point{})
}

func (s *drawerSink) close() {
	if s.closer != nil {
		s.closer()
	}
}

func newNRZSink(count int, freqHz uint32) (*drawerSink, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	port, err := spireg.Open("")
	if err != nil {
		return nil, err
	}
	d, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(freqHz) * physic.Hertz,
	})
	if err != nil {
		port.Close()
		return nil, err
	}
	return &drawerSink{
		drawer: d,
		bounds: d.Bounds(),
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
		closer: func() { _ = d.Halt(); _ = port.Close() },
	}, nil
}

func newSimSink(count int) *drawerSink {
	d := screen.New(count)
	return &drawerSink{
		drawer: d,
		bounds: d.Bounds(),
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

// pattern fills frame step n; adapted strip bring-up sequences.
type pattern func(step, count int, set func(i int, r, g, b uint8))

func sweep(step, count int, set func(int, uint8, uint8, uint8)) {
	idx := step % count
	for i := 0; i < count; i++ {
		if i == idx {
			set(i, 255, 255, 255)
		} else {
			set(i, 0, 0, 0)
		}
	}
}

func rgbFill(step, count int, set func(int, uint8, uint8, uint8)) {
	var r, g, b uint8
	switch step % 3 {
	case 0:
		r = 255
	case 1:
		g = 255
	case 2:
		b = 255
	}
	for i := 0; i < count; i++ {
		set(i, r, g, b)
	}
}

func rainbow(step, count int, set func(int, uint8, uint8, uint8)) {
	phase := float64(step) * 0.01
	for i := 0; i < count; i++ {
		h := math.Mod(float64(i)/float64(count)+phase, 1.0)
		r, g, b := hsvToRGB(h, 1.0, 1.0)
		set(i, uint8(r*255), uint8(g*255), uint8(b*255))
	}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func main() {
	var (
		driver     = flag.String("driver", "pwm", "output: pwm | pcm | spi | nrz | sim")
		gpio       = flag.Int("gpio", 18, "data pin (BCM number)")
		count      = flag.Int("count", 30, "number of LEDs")
		colorOrder = flag.String("color", "GRB", "strip color order (e.g. GRB, RGB, GRBW)")
		brightness = flag.Int("brightness", 128, "channel brightness 0-255")
		invert     = flag.Bool("invert", false, "invert the output signal")
		freq       = flag.Uint("freq", ws.TargetFrequency, "signal frequency in Hz")
		dma        = flag.Int("dma", ws.DefaultDMAChannel, "DMA channel")
		gamma      = flag.Float64("gamma", 0, "gamma correction factor (0 = linear)")
		fps        = flag.Int("fps", 30, "frames per second")
		patName    = flag.String("pattern", "rainbow", "pattern: rainbow | sweep | rgb")
		configPath = flag.String("config", "", "optional strip profile (yaml)")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if p, ok := ws.Detect(); ok {
		log.Info().Str("board", p.Description()).
			Uint32("revision", p.Revision()).
			Msg("detected host")
	} else {
		log.Warn().Msg("host board not recognized; hardware outputs may fail")
	}

	prof := &ws.Profile{
		Driver:      *driver,
		GPIO:        *gpio,
		Count:       *count,
		ColorOrder:  *colorOrder,
		Brightness:  uint8(*brightness),
		Invert:      *invert,
		Frequency:   uint32(*freq),
		DMAChannel:  *dma,
		GammaFactor: *gamma,
	}
	if *configPath != "" {
		p, err := ws.LoadProfile(*configPath)
		if err != nil {
			log.Warn().Err(err).Str("path", *configPath).Msg("profile load failed; using flags")
		} else {
			prof = p
			*driver = p.Driver
			*count = p.Count
		}
	}

	out, err := openSink(*driver, prof)
	if err != nil {
		log.Fatal().Err(err).Str("driver", *driver).Msg("output open failed")
	}
	defer out.close()

	var pat pattern
	switch *patName {
	case "sweep":
		pat = sweep
	case "rgb":
		pat = rgbFill
	case "rainbow":
		pat = rainbow
	default:
		log.Fatal().Str("pattern", *patName).Msg("unknown pattern")
	}

	log.Info().Str("driver", *driver).Int("count", *count).
		Str("pattern", *patName).Msg("running; ctrl-c to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	ticker := time.NewTicker(time.Second / time.Duration(max(1, *fps)))
	defer ticker.Stop()

	step := 0
	for {
		select {
		case <-ticker.C:
			pat(step, *count, out.set)
			if err := out.flush(); err != nil {
				log.Fatal().Err(err).Msg("render failed")
			}
			step++
		case s := <-sig:
			fmt.Printf("got %s signal, shutting down\n", s)
			// Blank the strip on the way out.
			for i := 0; i < *count; i++ {
				out.set(i, 0, 0, 0)
			}
			_ = out.flush()
			return
		}
	}
}

func openSink(driver string, prof *ws.Profile) (sink, error) {
	switch driver {
	case "pwm", "pcm", "spi":
		cfg, err := prof.Config()
		if err != nil {
			return nil, err
		}
		cfg.WithLogger(log.Logger)
		return newDriverSink(cfg, driver == "spi")
	case "nrz":
		f := prof.Frequency
		if f == 0 {
			f = ws.TargetFrequency
		}
		return newNRZSink(prof.Count, f)
	case "sim":
		return newSimSink(prof.Count), nil
	}
	return nil, fmt.Errorf("unknown driver %q", driver)
}
