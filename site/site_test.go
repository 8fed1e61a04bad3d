package site

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/contact"
	"github.com/ams-law/goldsite/stream"
	"github.com/ams-law/goldsite/systems"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, contact.Message) error { return nil }

func testRouter(t *testing.T) (http.Handler, *stream.Hub) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>gold</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	hub := stream.NewHub(
		config.StreamConfig{TPS: 30, MaxClients: 4, WriteTimeoutSec: 1, ViewWidth: 90, ViewHeight: 60},
		systems.RippleParams{Scale: 3, Damping: 0.99, DropRadius: 4, Normalization: 200},
		systems.ImpulseParams{MoveBase: 50, MoveGain: 3, MaxMoveStrength: 300, ClickStrength: 700},
	)
	h := NewRouter(Deps{
		Contact:   contact.NewHandler(nopMailer{}, config.ContactConfig{SubjectPrefix: "p"}),
		Stream:    hub,
		StaticDir: dir,
	})
	return h, hub
}

func TestRouterRoutes(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("expected healthy, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/contact", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected contact preflight 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"name":"a","phone":"1","email":"a@b.c"}`)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contact", body))
	if rec.Code != http.StatusOK {
		t.Errorf("expected contact 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "gold") {
		t.Errorf("expected static index, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouterWithoutStatic(t *testing.T) {
	h := NewRouter(Deps{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without static dir, got %d", rec.Code)
	}
}

func TestRouterUpgradesStream(t *testing.T) {
	h, hub := testRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/ripple", nil)
	if err != nil {
		t.Fatalf("dial through router: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 stream client, got %d", hub.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeListener(ctx, ln, NewRouter(Deps{}), time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(data) != "ok\n" {
		t.Errorf("expected ok, got %q", data)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeBadAddr(t *testing.T) {
	if err := Serve(context.Background(), "256.0.0.1:bad", NewRouter(Deps{}), time.Second); err == nil {
		t.Error("expected listen error")
	}
}
