package hw

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// latchBytes is the idle tail sent after each frame so the strip latches.
// At 2.4 MHz one byte covers ~3.3us, so 128 bytes comfortably exceed the
// 80us reset the WS281x family needs.
const latchBytes = 128

// spiChannel is one output encoded onto the SPI MOSI line.
type spiChannel struct {
	cfg    ChannelConfig
	leds   []uint32
	gamma  [256]uint8
	shift  [4]uint
	colors int
}

// spiSession drives a strip over spidev, expanding every data bit into
// three SPI bits: 0b110 for one, 0b100 for zero. The transfer is
// synchronous, so Wait has nothing to do.
type spiSession struct {
	mu     sync.Mutex
	closer io.Closer
	conn   spi.Conn
	chans  [MaxChannels]*spiChannel
	enc    []byte
}

func openSPI(cfg Config) (Session, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSpiSetup, err)
	}
	port, err := spireg.Open(cfg.SPIDevice)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSpiSetup, err)
	}
	s, err := newSPISession(cfg, port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// newSPISession wires a session onto an already-open port. Split out so
// tests can substitute a recording port.
func newSPISession(cfg Config, port spi.Port) (*spiSession, error) {
	// Three SPI bits carry one data bit.
	f := physic.Frequency(cfg.Frequency) * 3 * physic.Hertz
	conn, err := port.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSpiSetup, err)
	}
	s := &spiSession{conn: conn}
	if c, ok := port.(io.Closer); ok {
		s.closer = c
	}
	for i, cc := range cfg.Channels {
		if cc.Count == 0 {
			continue
		}
		if cc.GPIO != spiGPIO {
			return nil, ErrIllegalGpio
		}
		ch := &spiChannel{cfg: cc, leds: make([]uint32, cc.Count)}
		ch.gamma = gammaTable(cc.GammaFactor)
		ch.shift, ch.colors = shifts(cc.StripType)
		s.chans[i] = ch
	}
	return s, nil
}

// expand3 widens one byte MSB-first into 24 NRZ bits packed as 3 bytes.
func expand3(v uint8, dst []byte) {
	out := uint32(0)
	for i := 7; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			out = out<<3 | 0b110
		} else {
			out = out<<3 | 0b100
		}
	}
	dst[0] = byte(out >> 16)
	dst[1] = byte(out >> 8)
	dst[2] = byte(out)
}

// encode serializes one channel's pixel words in wire order, applying the
// brightness scale and gamma curve the same way the DMA backend does.
func (ch *spiChannel) encode(dst []byte) []byte {
	scale := uint32(ch.cfg.Brightness) + 1
	var tri [3]byte
	for _, word := range ch.leds {
		for k := 0; k < ch.colors; k++ {
			c := uint8(word >> ch.shift[k])
			c = ch.gamma[(uint32(c)*scale)>>8]
			expand3(c, tri[:])
			if ch.cfg.Invert {
				tri[0], tri[1], tri[2] = ^tri[0], ^tri[1], ^tri[2]
			}
			dst = append(dst, tri[0], tri[1], tri[2])
		}
	}
	return dst
}

func (s *spiSession) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrGeneric
	}
	s.enc = s.enc[:0]
	var idle byte
	for _, ch := range s.chans {
		if ch == nil {
			continue
		}
		s.enc = ch.encode(s.enc)
		if ch.cfg.Invert {
			idle = 0xff
		}
	}
	for i := 0; i < latchBytes; i++ {
		s.enc = append(s.enc, idle)
	}
	if err := s.conn.Tx(s.enc, nil); err != nil {
		return fmt.Errorf("%w: %s", ErrSpiTransfer, err)
	}
	return nil
}

func (s *spiSession) Wait() error { return nil }

func (s *spiSession) SetGammaFactor(factor float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.chans {
		if ch != nil {
			ch.gamma = gammaTable(factor)
		}
	}
	return nil
}

func (s *spiSession) SetBrightness(ch int, brightness uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch < 0 || ch >= MaxChannels || s.chans[ch] == nil {
		return
	}
	s.chans[ch].cfg.Brightness = brightness
}

func (s *spiSession) LEDs(ch int) []uint32 {
	if ch < 0 || ch >= MaxChannels || s.chans[ch] == nil {
		return nil
	}
	return s.chans[ch].leds
}

func (s *spiSession) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		s.closer.Close()
		s.closer = nil
	}
	s.conn = nil
	for i := range s.chans {
		s.chans[i] = nil
	}
}
