// Package net exposes the observer feed: a WebSocket broadcast of per-tick
// state snapshots. Renderers and debug tooling subscribe here; the
// simulation never calls into them.
package net

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns the set of live observer connections.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID atomic.Uint64
	log    *zap.Logger

	upgrader websocket.Upgrader
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[uint64]*subscriber),
		log:  log,
		upgrader: websocket.Upgrader{
			// Observers are read-only; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades an observer connection and parks it until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("observer upgrade failed", zap.Error(err))
		return
	}
	id := h.nextID.Add(1)
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()
	h.log.Info("observer connected", zap.Uint64("id", id))

	// Observers send nothing meaningful; read until error to detect close.
	go func() {
		defer h.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(id uint64) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
		h.log.Info("observer disconnected", zap.Uint64("id", id))
	}
}

// Broadcast sends one snapshot frame to every observer, dropping any whose
// write fails.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	subs := make(map[uint64]*subscriber, len(h.subs))
	for id, s := range h.subs {
		subs[id] = s
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.drop(id)
		}
	}
}

// Observers reports the current number of connected observers.
func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
