//go:build linux && cgo

package hw

/*
#cgo LDFLAGS: -lws2811
#include <stdlib.h>
#include <stdint.h>
#include <ws2811/ws2811.h>
*/
import "C"
import (
	"sync"
	"unsafe"
)

// ws2811Session drives PWM/PCM outputs through libws2811's DMA engine.
type ws2811Session struct {
	mu     sync.Mutex
	dev    *C.ws2811_t
	counts [MaxChannels]int
	bufs   [MaxChannels]unsafe.Pointer
}

func openWS2811(cfg Config) (Session, error) {
	s := &ws2811Session{}

	s.dev = (*C.ws2811_t)(C.calloc(1, C.size_t(unsafe.Sizeof(*s.dev))))
	if s.dev == nil {
		return nil, ErrOutOfMemory
	}
	s.dev.freq = C.uint32_t(cfg.Frequency)
	s.dev.dmanum = C.int(cfg.DMAChannel)

	for i, cc := range cfg.Channels {
		ch := &s.dev.channel[i]
		ch.gpionum = C.int(cc.GPIO)
		ch.count = C.int(cc.Count)
		if cc.Invert {
			ch.invert = 1
		}
		ch.brightness = C.uint8_t(cc.Brightness)
		ch.strip_type = C.int(cc.StripType)
		s.counts[i] = cc.Count
	}

	if st := C.ws2811_init(s.dev); st != C.WS2811_SUCCESS {
		C.free(unsafe.Pointer(s.dev))
		s.dev = nil
		return nil, Code(int(st))
	}

	for i, cc := range cfg.Channels {
		s.bufs[i] = unsafe.Pointer(s.dev.channel[i].leds)
		if cc.GammaFactor > 0 && s.dev.channel[i].gamma != nil {
			// ws2811_init allocated the per-channel table; overwrite it
			// in place with the requested curve.
			t := gammaTable(cc.GammaFactor)
			g := (*[256]C.uint8_t)(unsafe.Pointer(s.dev.channel[i].gamma))
			for j, v := range t {
				g[j] = C.uint8_t(v)
			}
		}
	}
	return s, nil
}

func (s *ws2811Session) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return ErrGeneric
	}
	if st := C.ws2811_render(s.dev); st != C.WS2811_SUCCESS {
		return Code(int(st))
	}
	return nil
}

func (s *ws2811Session) Wait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return ErrGeneric
	}
	if st := C.ws2811_wait(s.dev); st != C.WS2811_SUCCESS {
		return Code(int(st))
	}
	return nil
}

func (s *ws2811Session) SetGammaFactor(factor float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return ErrGeneric
	}
	C.ws2811_set_custom_gamma_factor(s.dev, C.double(factor))
	return nil
}

func (s *ws2811Session) SetBrightness(ch int, brightness uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil || ch < 0 || ch >= MaxChannels {
		return
	}
	s.dev.channel[ch].brightness = C.uint8_t(brightness)
}

func (s *ws2811Session) LEDs(ch int) []uint32 {
	if ch < 0 || ch >= MaxChannels || s.bufs[ch] == nil || s.counts[ch] == 0 {
		return nil
	}
	n := s.counts[ch]
	return (*[1 << 26]uint32)(s.bufs[ch])[:n:n]
}

func (s *ws2811Session) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev != nil {
		// ws2811_fini frees and NULLs everything it allocated.
		C.ws2811_fini(s.dev)
		C.free(unsafe.Pointer(s.dev))
		s.dev = nil
		for i := range s.bufs {
			s.bufs[i] = nil
		}
	}
}
