package net

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForObservers(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Observers() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("observers = %d, want %d", h.Observers(), want)
}

func TestBroadcastReachesObservers(t *testing.T) {
	h := NewHub(zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	a := dialHub(t, srv)
	defer a.Close()
	b := dialHub(t, srv)
	defer b.Close()
	waitForObservers(t, h, 2)

	h.Broadcast([]byte(`{"tick":1}`))
	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if kind != websocket.TextMessage || string(data) != `{"tick":1}` {
			t.Fatalf("frame = %d %q", kind, data)
		}
	}
}

func TestClosedObserverIsDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForObservers(t, h, 1)
	conn.Close()
	waitForObservers(t, h, 0)

	// Broadcasting to nobody is a no-op, not a panic.
	h.Broadcast([]byte("{}"))
}

func TestObserversStartsEmpty(t *testing.T) {
	h := NewHub(zap.NewNop())
	if h.Observers() != 0 {
		t.Fatalf("observers = %d, want 0", h.Observers())
	}
}
