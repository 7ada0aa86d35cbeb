// Package websocket pushes live dashboard stats to connected browsers.
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/veldspar/intelboard/internal/services"
)

const writeWait = 5 * time.Second

// Hub fans dashboard snapshots out to every connected client. Snapshots go
// out on a fixed tick and immediately after each ingested killmail.
type Hub struct {
	stats    *services.StatsService
	interval time.Duration
	log      *zap.SugaredLogger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	kick     chan struct{}
	upgrader websocket.Upgrader
}

func NewHub(stats *services.StatsService, interval time.Duration) *Hub {
	return &Hub{
		stats:    stats,
		interval: interval,
		log:      zap.S().Named("websocket"),
		clients:  make(map[*websocket.Conn]struct{}),
		kick:     make(chan struct{}, 1),
		upgrader: websocket.Upgrader{
			// The dashboard is same-origin; tighten this before exposing
			// the API beyond localhost.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run broadcasts until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.broadcast(ctx)
		case <-h.kick:
			h.broadcast(ctx)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Notify requests an out-of-band broadcast. It never blocks; coalescing
// bursts into one send is fine for a dashboard.
func (h *Hub) Notify() {
	select {
	case h.kick <- struct{}{}:
	default:
	}
}

// Handle upgrades the request and registers the client.
// (GET /stats/ws)
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	h.add(conn)
}

func (h *Hub) add(conn *websocket.Conn) {
	// Send the current snapshot before registering so the dashboard does
	// not wait a full tick to render, and so this write cannot race a
	// broadcast to the same connection.
	if snapshot, err := h.stats.Dashboard(context.Background()); err == nil {
		h.write(conn, snapshot)
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("client connected", "clients", total)

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	total := len(h.clients)
	h.mu.Unlock()
	conn.Close()
	h.log.Infow("client disconnected", "clients", total)
}

func (h *Hub) broadcast(ctx context.Context) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	snapshot, err := h.stats.Dashboard(ctx)
	if err != nil {
		h.log.Warnw("failed to build stats snapshot", "error", err)
		return
	}
	for _, conn := range conns {
		h.write(conn, snapshot)
	}
}

func (h *Hub) write(conn *websocket.Conn, snapshot any) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		h.log.Debugw("dropping unreachable client", "error", err)
		h.remove(conn)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}
