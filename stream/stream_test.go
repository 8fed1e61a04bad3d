package stream

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/input"
	"github.com/ams-law/goldsite/systems"
)

func testHub(maxClients int) *Hub {
	return NewHub(
		config.StreamConfig{TPS: 30, MaxClients: maxClients, WriteTimeoutSec: 1, ViewWidth: 300, ViewHeight: 240},
		systems.RippleParams{Scale: 3, Damping: 0.992, DropRadius: 8, Normalization: 200},
		systems.ImpulseParams{MoveBase: 50, MoveGain: 3, MaxMoveStrength: 300, ClickStrength: 700},
	)
}

func TestInputCodec(t *testing.T) {
	b := EncodeInput(Input{Kind: InputClick, X: 0.25, Y: 0.75})
	if len(b) != InputSize {
		t.Fatalf("expected %d bytes, got %d", InputSize, len(b))
	}
	if b[0] != 1 {
		t.Errorf("expected kind byte 1, got %d", b[0])
	}
	in, err := DecodeInput(b)
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != InputClick || in.X != 0.25 || in.Y != 0.75 {
		t.Errorf("unexpected decode %+v", in)
	}
}

func TestDecodeInputRejects(t *testing.T) {
	bad := [][]byte{
		nil,
		make([]byte, 8),
		make([]byte, 10),
		EncodeInput(Input{Kind: 7}),
		EncodeInput(Input{Kind: InputMove, X: float32(math.NaN())}),
		EncodeInput(Input{Kind: InputMove, Y: float32(math.Inf(1))}),
	}
	for i, b := range bad {
		if _, err := DecodeInput(b); !errors.Is(err, ErrBadMessage) {
			t.Errorf("case %d: expected ErrBadMessage, got %v", i, err)
		}
	}
}

func TestInputEvent(t *testing.T) {
	ev := Input{Kind: InputMove, X: 0.5, Y: 1.5}.Event(300, 240)
	if ev.Kind != input.EventPointerMove {
		t.Errorf("expected move event, got %v", ev.Kind)
	}
	if ev.X != 150 || ev.Y != 240 {
		t.Errorf("expected clamped (150, 240), got (%v, %v)", ev.X, ev.Y)
	}
	if ev.W != 300 || ev.H != 240 {
		t.Errorf("expected viewport 300x240, got %dx%d", ev.W, ev.H)
	}
	if k := (Input{Kind: InputClick}).Event(1, 1).Kind; k != input.EventPointerClick {
		t.Errorf("expected click event, got %v", k)
	}
}

func TestFrameCodec(t *testing.T) {
	msg := EncodeFrame(nil, 3, 2, []byte{1, 2, 3, 4, 5, 6})
	if len(msg) != FrameHeaderSize+6 {
		t.Fatalf("expected %d bytes, got %d", FrameHeaderSize+6, len(msg))
	}
	w, h, px, err := DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if w != 3 || h != 2 || px[5] != 6 {
		t.Errorf("unexpected frame %dx%d %v", w, h, px)
	}
	if _, _, _, err := DecodeFrame(msg[:5]); !errors.Is(err, ErrBadMessage) {
		t.Errorf("expected ErrBadMessage for short payload, got %v", err)
	}
	if _, _, _, err := DecodeFrame([]byte{1}); !errors.Is(err, ErrBadMessage) {
		t.Errorf("expected ErrBadMessage for short header, got %v", err)
	}
}

func TestHubStepAppliesInputInOrder(t *testing.T) {
	h := testHub(0)
	w, gh := h.Field().Size()
	if w != 100 || gh != 80 {
		t.Fatalf("expected 100x80 grid, got %dx%d", w, gh)
	}

	// Empty field streams all-zero intensity.
	fw, fh, px, err := DecodeFrame(h.Step())
	if err != nil {
		t.Fatal(err)
	}
	if fw != 100 || fh != 80 {
		t.Errorf("expected 100x80 frame, got %dx%d", fw, fh)
	}
	for _, v := range px {
		if v != 0 {
			t.Fatal("expected silent field before input")
		}
	}

	h.Apply(Input{Kind: InputClick, X: 0.5, Y: 0.5})
	_, _, px, err = DecodeFrame(h.Step())
	if err != nil {
		t.Fatal(err)
	}
	if px[40*100+50] == 0 {
		t.Error("expected intensity at the click cell")
	}
	if px[0] != 0 {
		t.Error("expected border cell to stay silent")
	}
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, nil)
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubWebSocketRoundTrip(t *testing.T) {
	h := testHub(2)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := dial(t, srv)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitClients(t, h, 1)

	if err := conn.WriteMessage(websocket.BinaryMessage, EncodeInput(Input{Kind: InputClick, X: 0.5, Y: 0.5})); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for h.bus.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("input never reached the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.Step()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mt != websocket.BinaryMessage {
		t.Errorf("expected binary frame, got type %d", mt)
	}
	w, fh, px, err := DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if w != 100 || fh != 80 || px[40*100+50] == 0 {
		t.Errorf("expected energized 100x80 frame, got %dx%d centre %d", w, fh, px[40*100+50])
	}
}

func TestHubRefusesOverflow(t *testing.T) {
	h := testHub(1)
	srv := httptest.NewServer(h)
	defer srv.Close()

	first, _, err := dial(t, srv)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer first.Close()
	waitClients(t, h, 1)

	_, resp, err := dial(t, srv)
	if err == nil {
		t.Fatal("expected second connection to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", resp)
	}

	first.Close()
	waitClients(t, h, 0)
}

func TestHubRunStopsOnCancel(t *testing.T) {
	h := testHub(0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if h.Clients() != 0 {
		t.Errorf("expected no clients after shutdown, got %d", h.Clients())
	}
	if !h.full() {
		t.Error("expected closed hub to refuse connections")
	}
}
