package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/frame"
	"github.com/ams-law/goldsite/input"
	"github.com/ams-law/goldsite/systems"
)

const maxInputBytes = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub owns one ripple field shared by every connected client. Client input
// is queued on a bus and applied in arrival order before each step.
type Hub struct {
	TPS          int
	MaxClients   int
	WriteTimeout time.Duration

	bus      *input.Bus
	loop     *frame.Loop
	clock    frame.Clock
	layer    *systems.RippleLayer
	viewW    int
	viewH    int
	pixels   []byte
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub with its field mounted on a private frame loop.
func NewHub(cfg config.StreamConfig, ripple systems.RippleParams, impulses systems.ImpulseParams) *Hub {
	tps := cfg.TPS
	if tps <= 0 {
		tps = 30
	}
	writeTimeout := time.Duration(cfg.WriteTimeoutSec * float64(time.Second))
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}

	h := &Hub{
		TPS:          tps,
		MaxClients:   cfg.MaxClients,
		WriteTimeout: writeTimeout,
		bus:          input.NewBus(),
		loop:         frame.NewLoop(),
		layer:        systems.NewRippleLayer(systems.NewRippleField(ripple), impulses),
		viewW:        cfg.ViewWidth,
		viewH:        cfg.ViewHeight,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
	h.layer.Mount(h.loop, h.bus, h.viewW, h.viewH)
	return h
}

// Field returns the shared field.
func (h *Hub) Field() *systems.RippleField { return h.layer.Field }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Apply queues in as if it had arrived from a client.
func (h *Hub) Apply(in Input) {
	h.bus.Push(in.Event(h.viewW, h.viewH))
}

// Step applies queued input, advances the field one step, and broadcasts
// the resulting frame. It returns the encoded frame.
func (h *Hub) Step() []byte {
	h.bus.Dispatch()
	dt := 1 / float64(h.TPS)
	h.clock.Advance(dt)
	h.loop.Tick(dt)

	w, gh := h.layer.Field.Size()
	h.pixels = h.layer.Field.Intensity(h.pixels)
	msg := EncodeFrame(make([]byte, 0, FrameHeaderSize+len(h.pixels)), w, gh, h.pixels)
	h.broadcast(msg)
	return msg
}

// Run steps the field at TPS until ctx is cancelled, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.TPS))
	defer ticker.Stop()

	slog.Info("ripple stream started", "tps", h.TPS, "max_clients", h.MaxClients)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			slog.Info("ripple stream stopped", "steps", h.layer.Steps())
			return nil
		case <-ticker.C:
			h.Step()
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket stream. Connections beyond
// MaxClients are refused with 503.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.full() {
		http.Error(w, "stream full", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("stream upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "stream full"),
			time.Now().Add(h.WriteTimeout))
		conn.Close()
		return
	}
	slog.Debug("stream client connected", "remote", r.RemoteAddr, "clients", h.Clients())

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) full() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed || (h.MaxClients > 0 && len(h.clients) >= h.MaxClients)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || (h.MaxClients > 0 && len(h.clients) >= h.MaxClients) {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcast offers msg to every client. A client still writing the previous
// frame skips this one.
func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.layer.Unmount()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxInputBytes)
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("stream read failed", "error", err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		in, err := DecodeInput(data)
		if err != nil {
			slog.Debug("dropping stream input", "error", err)
			continue
		}
		h.Apply(in)
	}
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout)); err != nil {
			break
		}
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			slog.Debug("stream write failed", "error", err)
			break
		}
	}
	c.conn.Close()
}
