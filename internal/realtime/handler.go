package realtime

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/doughlab/cookieclicker/internal/services/auth"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Handler upgrades HTTP requests to realtime connections and runs them.
// Admission control is checked before any protocol participation; a
// rejected connection is closed without a message.
type Handler struct {
	upgrader    websocket.Upgrader
	limiter     *Limiter
	hub         *Hub
	registry    *Registry
	broadcaster *Broadcaster
	auth        *auth.Service
	store       storage.PlayerStore
	logger      *slog.Logger
}

// NewHandler creates the websocket endpoint handler
func NewHandler(limiter *Limiter, hub *Hub, registry *Registry, broadcaster *Broadcaster, authService *auth.Service, store storage.PlayerStore, logger *slog.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS layer for the REST
			// surface; the realtime protocol gates on credentials
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:     limiter,
		hub:         hub,
		registry:    registry,
		broadcaster: broadcaster,
		auth:        authService,
		store:       store,
		logger:      logger.With(slog.String("component", "realtime")),
	}
}

// ServeHTTP runs one realtime connection to completion
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	addr := sourceAddr(r)
	if !h.limiter.Admit(addr) {
		h.logger.Warn("connection rejected - address at cap", slog.String("addr", addr))
		_ = conn.Close()
		return
	}

	machine := NewMachine(h.auth, h.store, h.logger)
	client := newClient(conn, addr, h.hub, h.registry, h.limiter, h.broadcaster, machine, h.logger)
	client.run()
}

// sourceAddr extracts the host part of the request's remote address
func sourceAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
