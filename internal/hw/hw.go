// Package hw is the hardware access layer for the ws281x driver. It claims
// the peripheral for a validated configuration and hands back a Session that
// owns the pixel buffers until Fini. PWM and PCM outputs go through
// libws2811's DMA engine; the SPI output is driven in pure Go over
// periph.io's spidev port.
package hw

import "math"

// Code mirrors the ws2811_return_t result codes of the underlying library.
type Code int

const (
	Success           Code = 0
	ErrGeneric        Code = -1
	ErrOutOfMemory    Code = -2
	ErrHwNotSupported Code = -3
	ErrMemLock        Code = -4
	ErrMmap           Code = -5
	ErrMapRegisters   Code = -6
	ErrGpioInit       Code = -7
	ErrPwmSetup       Code = -8
	ErrMailboxDevice  Code = -9
	ErrDma            Code = -10
	ErrIllegalGpio    Code = -11
	ErrPcmSetup       Code = -12
	ErrSpiSetup       Code = -13
	ErrSpiTransfer    Code = -14
)

var codeText = map[Code]string{
	Success:           "success",
	ErrGeneric:        "generic failure",
	ErrOutOfMemory:    "out of memory",
	ErrHwNotSupported: "hardware revision is not supported",
	ErrMemLock:        "memory lock failed",
	ErrMmap:           "mmap() failed",
	ErrMapRegisters:   "unable to map registers into userspace",
	ErrGpioInit:       "unable to initialize GPIO",
	ErrPwmSetup:       "unable to initialize PWM",
	ErrMailboxDevice:  "failed to create mailbox device",
	ErrDma:            "DMA error",
	ErrIllegalGpio:    "selected GPIO not possible",
	ErrPcmSetup:       "unable to initialize PCM",
	ErrSpiSetup:       "unable to initialize SPI",
	ErrSpiTransfer:    "SPI transfer error",
}

func (c Code) Error() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return "unknown hardware error"
}

func (c Code) String() string { return c.Error() }

// MaxChannels is the number of output channels one session can drive.
const MaxChannels = 2

// spiGPIO is the SPI0 MOSI pin; a channel bound to it selects the SPI backend.
const spiGPIO = 10

// ChannelConfig is the per-output slice of a validated driver configuration.
type ChannelConfig struct {
	GPIO        int
	Count       int
	Invert      bool
	Brightness  uint8
	StripType   uint32
	GammaFactor float64 // 0 keeps the linear table
}

// Config carries everything a backend needs to claim hardware.
type Config struct {
	Frequency  uint32
	DMAChannel int
	SPIDevice  string // spireg name, empty selects the first port
	Channels   [MaxChannels]ChannelConfig
}

// Session is one claimed hardware transfer context. The LED slices stay
// valid until Fini; after Fini the session must not be touched.
type Session interface {
	// Render pushes the current LED buffers to hardware. For the DMA
	// backends the transfer completes asynchronously after return.
	Render() error
	// Wait blocks until the most recent transfer finished. SPI transfers
	// are synchronous within Render, so Wait is immediate there.
	Wait() error
	// SetGammaFactor rebuilds the correction curves from a single exponent.
	SetGammaFactor(factor float64) error
	// SetBrightness updates one channel's render-time brightness scale.
	SetBrightness(ch int, brightness uint8)
	// LEDs exposes channel ch's pixel words; nil for an inactive channel.
	LEDs(ch int) []uint32
	// Fini releases all hardware and memory held by the session.
	Fini()
}

// Open claims hardware for cfg. A configuration with an active SPI-pin
// channel is routed to the SPI backend, everything else to the ws2811 DMA
// backend.
func Open(cfg Config) (Session, error) {
	for _, ch := range cfg.Channels {
		if ch.Count > 0 && ch.GPIO == spiGPIO {
			return openSPI(cfg)
		}
	}
	return openWS2811(cfg)
}

// gammaTable builds the 256-entry correction curve for a factor. Factors at
// or below zero keep the identity mapping, matching the library default.
func gammaTable(factor float64) [256]uint8 {
	var t [256]uint8
	for i := range t {
		if factor > 0 {
			t[i] = uint8(math.Pow(float64(i)/255.0, factor)*255.0 + 0.5)
		} else {
			t[i] = uint8(i)
		}
	}
	return t
}

// shifts decodes a packed strip type into the pixel-word bit positions of
// the transmitted components, in wire order. The fourth entry is the white
// shift; n is 3 or 4 depending on whether the layout carries white.
func shifts(strip uint32) (s [4]uint, n int) {
	s[0] = uint((strip >> 16) & 0xff)
	s[1] = uint((strip >> 8) & 0xff)
	s[2] = uint(strip & 0xff)
	s[3] = uint((strip >> 24) & 0xff)
	n = 3
	if s[3] != 0 {
		n = 4
	}
	return s, n
}
