// Package server exposes a LAN-PLAY session over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/woozymasta/lanplay/internal/config"
	"github.com/woozymasta/lanplay/internal/storage"
)

// New creates a Server over session. store may be nil.
func New(session Session, store *storage.Repository, cfg config.Server) *Server {
	return &Server{
		session:         session,
		storage:         store,
		authToken:       cfg.AuthToken,
		refreshInterval: cfg.RefreshInterval,
		hardLimitCount:  cfg.HardLimitCount,
		hardLimitWin:    cfg.HardLimitWin,
		trustProxy:      cfg.TrustProxy,

		shutdown: make(chan struct{}),
	}
}

// StartWorkers starts the background room refresher.
func (s *Server) StartWorkers() {
	if s.refreshInterval <= 0 {
		return
	}

	s.wg.Add(1)
	go s.refresher()
}

// StopWorkers signals background goroutines to stop and waits for the refresher.
func (s *Server) StopWorkers() {
	close(s.shutdown)
	s.wg.Wait()
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/rooms", http.HandlerFunc(s.handleRooms))
	mux.Handle("GET /api/server-info", http.HandlerFunc(s.handleServerInfo))
	mux.Handle("GET /api/servers", http.HandlerFunc(s.handleServers))
	mux.Handle("GET /api/games", http.HandlerFunc(s.handleGames))
	mux.Handle("GET /api/version", http.HandlerFunc(s.handleVersion))
	mux.Handle("POST /api/select", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleSelect)))
	mux.Handle("POST /api/refresh", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleRefresh)))

	return s.LoggingMiddleware(s.RateLimitMiddleware(mux))
}
