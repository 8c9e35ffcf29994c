// stripmon drives a strip from a YAML profile and mirrors every rendered
// frame to websocket clients, so a browser can watch the physical strip and
// tweak brightness and gamma live.
package main

import (
	"encoding/json"
	"flag"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ws281x "github.com/coreman2200/rpiws281x"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type monitor struct {
	mu      sync.RWMutex
	driver  *ws281x.Driver
	count   int
	frameID uint64
	clients map[*websocket.Conn]bool
}

type frameMsg struct {
	T       int64    `json:"t"`
	FrameID uint64   `json:"frame_id"`
	Pixels  []uint32 `json:"pixels"`
}

func (m *monitor) broadcast(pixels []uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, _ := json.Marshal(frameMsg{
		T:       time.Now().UnixNano(),
		FrameID: m.frameID,
		Pixels:  pixels,
	})
	for c := range m.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (m *monitor) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	m.mu.Lock()
	m.clients[conn] = true
	m.mu.Unlock()
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			conn.Close()
		}()
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			m.control(msg)
		}
	}()
}

// control applies client settings to the live channel.
func (m *monitor) control(msg map[string]any) {
	if v, ok := msg["brightness"].(float64); ok {
		b := uint8(math.Min(255, math.Max(0, v)))
		if err := m.driver.Channel1().SetBrightness(b); err != nil {
			log.Warn().Err(err).Msg("set brightness")
		}
	}
	if v, ok := msg["gamma"].(float64); ok {
		if err := m.driver.SetGammaFactor(v); err != nil {
			log.Warn().Err(err).Msg("set gamma")
		}
	}
}

func (m *monitor) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()
	phase := 0.0
	snapshot := make([]uint32, m.count)
	for range ticker.C {
		leds, err := m.driver.Channel1().Leds()
		if err != nil {
			log.Error().Err(err).Msg("pixel access failed")
			return
		}
		for i := range leds {
			h := math.Mod(float64(i)/float64(m.count)+phase, 1.0)
			r, g, b := hsvToRGB(h, 1.0, 1.0)
			leds[i] = ws281x.Color(uint8(r*255), uint8(g*255), uint8(b*255))
		}
		phase += 0.005

		if err := m.driver.Render(); err != nil {
			log.Error().Err(err).Msg("render failed")
			return
		}
		if err := m.driver.Wait(); err != nil {
			log.Error().Err(err).Msg("wait failed")
			return
		}

		m.mu.Lock()
		m.frameID++
		m.mu.Unlock()
		copy(snapshot, leds)
		m.broadcast(snapshot)
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
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "strip.yaml", "strip profile (yaml)")
		fps        = flag.Int("fps", 30, "frames per second")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	prof, err := ws281x.LoadProfile(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("profile load failed")
	}
	cfg, err := prof.Config()
	if err != nil {
		log.Fatal().Err(err).Msg("bad profile")
	}
	cfg.WithLogger(log.Logger)

	driver, err := cfg.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("driver build failed")
	}
	defer driver.Stop()

	m := &monitor{
		driver:  driver,
		count:   prof.Count,
		clients: map[*websocket.Conn]bool{},
	}
	go m.run(*fps)

	http.HandleFunc("/ws", m.handleWS)
	log.Info().Str("addr", *addr).Msg("listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
