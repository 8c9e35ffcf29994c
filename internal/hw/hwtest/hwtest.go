// Package hwtest provides an in-memory hardware session for exercising the
// driver lifecycle without LED hardware.
package hwtest

import (
	"sync"

	"github.com/coreman2200/rpiws281x/internal/hw"
)

// Session records every call it receives. With Async set, Render leaves a
// transfer pending and Wait blocks until Complete is called, mimicking the
// DMA backends.
type Session struct {
	mu sync.Mutex

	Buffers    [hw.MaxChannels][]uint32
	Brightness [hw.MaxChannels]uint8

	Renders int
	Waits   int
	Finis   int
	Gamma   float64

	RenderErr error
	WaitErr   error

	Async   bool
	pending chan struct{}
}

var _ hw.Session = (*Session)(nil)

// New builds a session from the channel configs, allocating buffers the way
// a real backend would.
func New(cfg hw.Config) *Session {
	s := &Session{}
	for i, cc := range cfg.Channels {
		if cc.Count > 0 {
			s.Buffers[i] = make([]uint32, cc.Count)
		}
		s.Brightness[i] = cc.Brightness
	}
	return s
}

func (s *Session) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RenderErr != nil {
		return s.RenderErr
	}
	s.Renders++
	if s.Async {
		s.pending = make(chan struct{})
	}
	return nil
}

func (s *Session) Wait() error {
	s.mu.Lock()
	p := s.pending
	s.mu.Unlock()
	if p != nil {
		<-p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WaitErr != nil {
		return s.WaitErr
	}
	s.Waits++
	return nil
}

// Complete finishes the transfer left pending by the last Render.
func (s *Session) Complete() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p != nil {
		close(p)
	}
}

func (s *Session) SetGammaFactor(factor float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gamma = factor
	return nil
}

func (s *Session) SetBrightness(ch int, brightness uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch >= 0 && ch < hw.MaxChannels {
		s.Brightness[ch] = brightness
	}
}

func (s *Session) LEDs(ch int) []uint32 {
	if ch < 0 || ch >= hw.MaxChannels {
		return nil
	}
	return s.Buffers[ch]
}

func (s *Session) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Finis++
	for i := range s.Buffers {
		s.Buffers[i] = nil
	}
}
